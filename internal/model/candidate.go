package model

// MatchMethod identifies the matching strategy that produced a
// classification candidate.
type MatchMethod string

const (
	// MatchPubChemSynonym means both names are attested aliases of the
	// same compound in the PubChem synonym map.
	MatchPubChemSynonym MatchMethod = "pubchem_synonym"
	// MatchExact means the normalized names are identical.
	MatchExact MatchMethod = "exact_match"
	// MatchFuzzy means the candidate survived the fuzzy-score fallback.
	MatchFuzzy MatchMethod = "fuzzy"
	// MatchNone means no candidate cleared the threshold.
	MatchNone MatchMethod = "none"
)

// methodPriority orders authoritative methods first at equal score.
var methodPriority = map[MatchMethod]int{
	MatchPubChemSynonym: 0,
	MatchExact:          1,
	MatchFuzzy:          2,
}

// Priority returns the tie-break rank of the method; lower sorts first.
// Unknown methods sort last.
func (m MatchMethod) Priority() int {
	if p, ok := methodPriority[m]; ok {
		return p
	}
	return 99
}

// CDCClassification is one row of the curated CDC Fourth Report
// classification table.
type CDCClassification struct {
	Name     string
	Class    string
	Subclass string
}

// ClassificationCandidate is the ephemeral result of one matching
// attempt against the CDC list. Persisted only through evidence rows.
type ClassificationCandidate struct {
	CDCName  string
	Class    string
	Subclass string
	Score    float64
	Method   MatchMethod
}

// EvidenceRow is the persisted audit record of one classification
// attempt, including attempts that found no candidate.
type EvidenceRow struct {
	VariableName     string
	AnalyteName      string
	NormalizedName   string
	CandidateCDCName string
	CandidateClass   string
	CandidateSub     string
	SimilarityScore  float64
	MatchMethod      MatchMethod
}
