package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pophealth/analyte-cli/internal/model"
)

func testCDCList() []model.CDCClassification {
	return []model.CDCClassification{
		{Name: "3-phenoxybenzoic acid", Class: "Pyrethroid metabolite"},
		{Name: "2,4-d", Class: "Phenoxy herbicide"},
		{Name: "atrazine", Class: "Triazine herbicide"},
		{Name: "dimethylphosphate", Class: "Organophosphate metabolite"},
	}
}

func TestMatcher_ExactMatch(t *testing.T) {
	m := NewMatcher(testCDCList(), nil, 0)
	candidates := m.Candidates("Atrazine")
	require.NotEmpty(t, candidates)
	assert.Equal(t, model.MatchExact, candidates[0].Method)
	assert.Equal(t, 1.0, candidates[0].Score)
	assert.Equal(t, "Triazine herbicide", candidates[0].Class)
}

func TestMatcher_SynonymBridge(t *testing.T) {
	// "3-PBA" and the CDC name "3-phenoxybenzoic acid" share a PubChem
	// synonym set.
	synIndex := map[string]map[string]bool{
		"3-pba":                 {"3-PBA": true},
		"3-phenoxybenzoic acid": {"3-PBA": true},
	}
	m := NewMatcher(testCDCList(), synIndex, 0)
	candidates := m.Candidates("3-PBA")
	require.NotEmpty(t, candidates)
	assert.Equal(t, model.MatchPubChemSynonym, candidates[0].Method)
	assert.Equal(t, 1.0, candidates[0].Score)
	assert.Equal(t, "Pyrethroid metabolite", candidates[0].Class)
}

func TestMatcher_SynonymDirect(t *testing.T) {
	// The CDC name's normalized form indexes a synonym set containing
	// the analyte's exact name.
	synIndex := map[string]map[string]bool{
		"dimethylphosphate": {"DMP": true},
	}
	m := NewMatcher(testCDCList(), synIndex, 0)
	candidates := m.Candidates("DMP")
	require.NotEmpty(t, candidates)
	assert.Equal(t, model.MatchPubChemSynonym, candidates[0].Method)
	assert.Equal(t, "Organophosphate metabolite", candidates[0].Class)
}

func TestMatcher_FuzzyOnlyWhenNoStrongMatch(t *testing.T) {
	m := NewMatcher(testCDCList(), nil, 0)

	candidates := m.Candidates("3-phenoxybenzoic acid glucuronide")
	require.NotEmpty(t, candidates)
	assert.Equal(t, model.MatchFuzzy, candidates[0].Method)
	assert.Less(t, candidates[0].Score, 1.0)
	assert.GreaterOrEqual(t, candidates[0].Score, DefaultFuzzyThreshold)
}

func TestMatcher_FuzzySuppressedByExact(t *testing.T) {
	m := NewMatcher(testCDCList(), nil, 0)
	for _, c := range m.Candidates("atrazine") {
		assert.NotEqual(t, model.MatchFuzzy, c.Method, "fuzzy pass must not run once an exact match exists")
	}
}

func TestMatcher_NoCandidates(t *testing.T) {
	m := NewMatcher(testCDCList(), nil, 0)
	assert.Empty(t, m.Candidates("perfluorooctane sulfonate"))
}

func TestMatcher_SynonymAndExactBothRanked(t *testing.T) {
	// When the analyte's own name is in the synonym index, the bridge
	// and the exact tier both fire for the same CDC name; the synonym
	// match ranks first on the priority tie-break.
	synIndex := map[string]map[string]bool{
		"atrazine": {"Atrazine": true},
	}
	m := NewMatcher(testCDCList(), synIndex, 0)
	candidates := m.Candidates("Atrazine")
	require.Len(t, candidates, 2)
	assert.Equal(t, model.MatchPubChemSynonym, candidates[0].Method)
	assert.Equal(t, model.MatchExact, candidates[1].Method)
	assert.Equal(t, 1.0, candidates[0].Score)
	assert.Equal(t, 1.0, candidates[1].Score)
}

func TestMatcher_SortedByScoreThenMethod(t *testing.T) {
	m := NewMatcher(testCDCList(), nil, 0)
	candidates := m.Candidates("2,4-d metabolite")
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
}

func TestSimilarity_Exact(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Atrazine", "atrazine"))
}

func TestSimilarity_Substring(t *testing.T) {
	// "atrazine" (8 chars) inside "atrazine mercapturate" (21 chars).
	score := Similarity("atrazine", "atrazine mercapturate")
	assert.InDelta(t, 8.0/21.0, score, 1e-9)
}

func TestSimilarity_TokenJaccard(t *testing.T) {
	// Shared token "atrazine" out of three distinct tokens, no
	// substring relation.
	score := Similarity("atrazine mercapturate", "atrazine desethyl")
	assert.InDelta(t, 1.0/3.0, score, 1e-9)
}

func TestSimilarity_Disjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("glyphosate", "mirex"))
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "atrazine"))
	assert.Equal(t, 0.0, Similarity("atrazine", ""))
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"2,4-d", "2,4-dichlorophenol"},
		{"dimethylphosphate", "dimethyldithiophosphate"},
		{"heptachlor", "heptachlor epoxide"},
	}
	for _, p := range pairs {
		score := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}
