package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/normalize"
)

var evidenceColumns = []string{
	"variable_name",
	"analyte_name",
	"normalized_name",
	"candidate_cdc_name",
	"candidate_class",
	"candidate_subclass",
	"similarity_score",
	"match_method",
}

// EvidenceLogger writes dated review files for analytes that still
// lack a chemical class. One row per unclassified analyte: the best
// candidate when one exists, otherwise an empty candidate with method
// "none".
type EvidenceLogger struct {
	dir   string
	clock clockwork.Clock
}

// NewEvidenceLogger writes evidence files under dir. clock defaults
// to the real clock when nil.
func NewEvidenceLogger(dir string, clock clockwork.Clock) *EvidenceLogger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EvidenceLogger{dir: dir, clock: clock}
}

// Path returns today's evidence file path.
func (l *EvidenceLogger) Path() string {
	day := l.clock.Now().Format("2006-01-02")
	return filepath.Join(l.dir, fmt.Sprintf("unclassified_%s.csv", day))
}

// Summary counts the outcomes of one evidence run.
type Summary struct {
	Total          int
	WithCandidates int
	PubChemMatches int
	ExactMatches   int
	FuzzyMatches   int
}

// Log writes one evidence row per unclassified record and returns the
// outcome counts.
func (l *EvidenceLogger) Log(records []model.AnalyteRecord, m *Matcher) (*Summary, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "classify: create evidence directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(evidenceColumns); err != nil {
		return nil, eris.Wrap(err, "classify: write evidence header")
	}

	summary := &Summary{}
	for _, rec := range records {
		if rec.Classified() {
			continue
		}
		summary.Total++

		row := model.EvidenceRow{
			VariableName:    rec.VariableName,
			AnalyteName:     rec.AnalyteName,
			NormalizedName:  normalize.ForClassification(rec.AnalyteName),
			SimilarityScore: 0,
			MatchMethod:     model.MatchNone,
		}
		if candidates := m.Candidates(rec.AnalyteName); len(candidates) > 0 {
			best := candidates[0]
			row.CandidateCDCName = best.CDCName
			row.CandidateClass = best.Class
			row.CandidateSub = best.Subclass
			row.SimilarityScore = best.Score
			row.MatchMethod = best.Method

			summary.WithCandidates++
			switch best.Method {
			case model.MatchPubChemSynonym:
				summary.PubChemMatches++
			case model.MatchExact:
				summary.ExactMatches++
			case model.MatchFuzzy:
				summary.FuzzyMatches++
			}
		}

		record := []string{
			row.VariableName,
			row.AnalyteName,
			row.NormalizedName,
			row.CandidateCDCName,
			row.CandidateClass,
			row.CandidateSub,
			fmt.Sprintf("%.3f", row.SimilarityScore),
			string(row.MatchMethod),
		}
		if err := w.Write(record); err != nil {
			return nil, eris.Wrap(err, "classify: write evidence row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrapf(err, "classify: flush %s", path)
	}

	zap.L().Info("evidence logged",
		zap.String("path", path),
		zap.Int("unclassified", summary.Total),
		zap.Int("with_candidates", summary.WithCandidates),
		zap.Int("pubchem_synonym", summary.PubChemMatches),
		zap.Int("exact_match", summary.ExactMatches),
		zap.Int("fuzzy", summary.FuzzyMatches),
	)
	return summary, nil
}
