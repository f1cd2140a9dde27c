// Package model defines the reference entities shared across the
// curation pipeline: analyte records, synonym entries, classification
// candidates, and evidence rows.
package model

import "regexp"

// CAS verification provenance values. Empty string means unverified;
// downstream consumers must treat empty-source records as unverified
// regardless of whether CASRN is populated.
const (
	CASSourceManual       = "manual"
	CASSourceManualNoCID  = "manual_no_cid"
	CASSourceInvalidCID   = "invalid_cid"
	CASSourcePubChemAPI   = "pubchem_api"
	CASSourceNotInPubChem = "cas_not_in_pubchem"
	CASSourceCIDNotFound  = "cid_not_found"
	CASSourceAPIError     = "api_error"
)

// Matrix values for the biological specimen type.
const (
	MatrixUrine   = "urine"
	MatrixSerum   = "serum"
	MatrixUnknown = "unknown"
)

var casRNPattern = regexp.MustCompile(`^\d{1,7}-\d{2}-\d$`)

// ValidCASRN reports whether s is a well-formed CAS Registry Number.
func ValidCASRN(s string) bool {
	return casRNPattern.MatchString(s)
}

// AnalyteRecord is one row of the analyte reference. Core fields come
// from NHANES variable metadata; CASRN only from external verification;
// the classification fields only from the CDC enrichment pass and stay
// empty when no authoritative match exists.
type AnalyteRecord struct {
	VariableName        string
	AnalyteName         string
	CASRN               string
	CASVerifiedSource   string
	Matrix              string
	Unit                string
	CycleFirst          int
	CycleLast           int
	CycleCount          int
	DataFileDescription string

	// Optional CDC classification enrichment.
	ChemicalClass        string
	ChemicalSubclass     string
	ClassificationSource string
}

// Classified reports whether the record carries a chemical class.
func (r AnalyteRecord) Classified() bool {
	return r.ChemicalClass != ""
}

// CASVerified reports whether the CAS number carries a provenance tag.
// A populated CASRN with an empty source is still unverified.
func (r AnalyteRecord) CASVerified() bool {
	return r.CASRN != "" && r.CASVerifiedSource != ""
}

// SynonymEntry is one alias row of the PubChem synonym map,
// many-to-one with AnalyteRecord via CASRN.
type SynonymEntry struct {
	CASRN             string
	AnalyteName       string
	Synonym           string
	SynonymNormalized string
}

// DiscoveryRow is one raw survey-variable observation scraped from the
// NHANES variable catalog. One row per (variable, cycle).
type DiscoveryRow struct {
	VariableName        string
	VariableDescription string
	DataFileName        string
	DataFileDescription string
	Cycle               int
}

// CuratedCAS is one row of the curated CAS verification table produced
// by the PubChem verification pass.
type CuratedCAS struct {
	AnalyteName       string
	CASRN             string
	CASVerifiedSource string
}
