package reference

import (
	"sort"
	"strings"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/normalize"
)

// Info is the result of a combined lookup: an exact match when the
// query resolves to exactly one record, otherwise substring
// suggestions.
type Info struct {
	Count       int
	Match       *model.AnalyteRecord
	Suggestions []string
}

// FindAnalyte returns the first record whose analyte name, CAS number,
// or variable name matches the normalized query, or nil.
func FindAnalyte(query string, records []model.AnalyteRecord) *model.AnalyteRecord {
	qn := normalize.ForSubstringMatch(query)
	if qn == "" {
		return nil
	}
	for i := range records {
		rec := &records[i]
		if qn == normalize.ForSubstringMatch(rec.AnalyteName) ||
			qn == normalize.ForSubstringMatch(rec.CASRN) ||
			qn == normalize.ForSubstringMatch(rec.VariableName) {
			return rec
		}
	}
	return nil
}

// SuggestAnalytes returns up to limit analyte names whose normalized
// form contains the normalized partial, tightest matches first (the
// shorter the containing name, the earlier it sorts).
func SuggestAnalytes(partial string, records []model.AnalyteRecord, limit int) []string {
	p := normalize.ForSubstringMatch(partial)
	if p == "" {
		return nil
	}

	type scored struct {
		slack int
		label string
	}
	best := make(map[string]int)
	for _, rec := range records {
		if rec.AnalyteName == "" {
			continue
		}
		norm := normalize.ForSubstringMatch(rec.AnalyteName)
		if !strings.Contains(norm, p) {
			continue
		}
		slack := len(norm) - len(p)
		if cur, ok := best[rec.AnalyteName]; !ok || slack < cur {
			best[rec.AnalyteName] = slack
		}
	}

	ordered := make([]scored, 0, len(best))
	for label, slack := range best {
		ordered = append(ordered, scored{slack: slack, label: label})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].slack != ordered[j].slack {
			return ordered[i].slack < ordered[j].slack
		}
		return ordered[i].label < ordered[j].label
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	labels := make([]string, len(ordered))
	for i, s := range ordered {
		labels[i] = s.label
	}
	return labels
}

// GetAnalyteInfo matches the query against analyte names (normalized)
// and CAS numbers (verbatim). Exactly one exact match yields a match
// with no suggestions; otherwise substring suggestions are returned.
func GetAnalyteInfo(query string, records []model.AnalyteRecord) Info {
	qn := normalize.ForSubstringMatch(query)

	var exact []*model.AnalyteRecord
	for i := range records {
		rec := &records[i]
		if normalize.ForSubstringMatch(rec.AnalyteName) == qn || (rec.CASRN != "" && rec.CASRN == query) {
			exact = append(exact, rec)
		}
	}

	if len(exact) == 1 {
		return Info{Count: 1, Match: exact[0]}
	}

	info := Info{
		Count:       len(exact),
		Suggestions: SuggestAnalytes(query, records, 10),
	}
	if len(exact) > 0 {
		info.Match = exact[0]
	}
	return info
}
