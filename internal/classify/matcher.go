package classify

import (
	"sort"
	"strings"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/normalize"
)

// DefaultFuzzyThreshold is the minimum similarity score accepted from
// the fuzzy fallback pass.
const DefaultFuzzyThreshold = 0.25

// Matcher finds CDC classification candidates for analyte names.
// synIndex maps normalized PubChem synonyms to the set of analyte
// names carrying them; a nil or empty index disables the synonym
// passes and the matcher degrades to exact plus fuzzy matching.
type Matcher struct {
	cdcList   []model.CDCClassification
	synIndex  map[string]map[string]bool
	threshold float64
}

// NewMatcher builds a Matcher. threshold <= 0 selects the default.
func NewMatcher(cdcList []model.CDCClassification, synIndex map[string]map[string]bool, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{cdcList: cdcList, synIndex: synIndex, threshold: threshold}
}

// Candidates returns classification candidates for analyteName, best
// first. Synonym-bridge and exact-name matches score 1.0 and suppress
// the fuzzy pass entirely; fuzzy candidates appear only when no
// higher-confidence match exists.
func (m *Matcher) Candidates(analyteName string) []model.ClassificationCandidate {
	// Synonym and exact tiers are both collected, so the ranked list
	// can hold both methods at score 1.0 for the same CDC name; the
	// priority tie-break keeps the synonym bridge first.
	var candidates []model.ClassificationCandidate
	analyteNorm := normalize.ForClassification(analyteName)

	// Shared-synonym bridge: the analyte and a CDC name resolve to a
	// common PubChem synonym set.
	if matched, ok := m.synIndex[analyteNorm]; ok {
		for _, cdc := range m.cdcList {
			cdcNorm := normalize.ForClassification(cdc.Name)
			if bridge, ok := m.synIndex[cdcNorm]; ok && intersects(bridge, matched) {
				candidates = append(candidates, candidate(cdc, 1.0, model.MatchPubChemSynonym))
			}
		}
	}

	for _, cdc := range m.cdcList {
		cdcNorm := normalize.ForClassification(cdc.Name)
		if cdcNorm == analyteNorm {
			candidates = append(candidates, candidate(cdc, 1.0, model.MatchExact))
		} else if set, ok := m.synIndex[cdcNorm]; ok && set[analyteName] {
			candidates = append(candidates, candidate(cdc, 1.0, model.MatchPubChemSynonym))
		}
	}

	if len(candidates) == 0 {
		for _, cdc := range m.cdcList {
			score := Similarity(analyteName, cdc.Name)
			if score >= m.threshold {
				candidates = append(candidates, candidate(cdc, score, model.MatchFuzzy))
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Method.Priority() < candidates[j].Method.Priority()
	})
	return candidates
}

// Similarity scores two chemical names in [0, 1]. Exact normalized
// equality scores 1.0; a substring relation scores the length ratio
// of the shorter to the longer name; otherwise the score is the
// word-level Jaccard overlap.
func Similarity(query, candidate string) float64 {
	queryNorm := normalize.ForClassification(query)
	candNorm := normalize.ForClassification(candidate)

	if queryNorm == "" || candNorm == "" {
		return 0
	}
	if queryNorm == candNorm {
		return 1.0
	}

	if strings.Contains(queryNorm, candNorm) || strings.Contains(candNorm, queryNorm) {
		shorter := min(len(queryNorm), len(candNorm))
		longer := max(len(queryNorm), len(candNorm))
		return float64(shorter) / float64(longer)
	}

	queryTokens := normalize.Tokens(queryNorm)
	candTokens := normalize.Tokens(candNorm)
	if len(queryTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	intersection := 0
	for tok := range queryTokens {
		if candTokens[tok] {
			intersection++
		}
	}
	union := len(queryTokens) + len(candTokens) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func candidate(cdc model.CDCClassification, score float64, method model.MatchMethod) model.ClassificationCandidate {
	return model.ClassificationCandidate{
		CDCName:  cdc.Name,
		Class:    cdc.Class,
		Subclass: cdc.Subclass,
		Score:    score,
		Method:   method,
	}
}

func intersects(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}
