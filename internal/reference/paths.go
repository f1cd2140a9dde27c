package reference

import "path/filepath"

// Canonical locations within the reference hierarchy, relative to the
// root. The build and enrichment commands write here; the cascade
// loader reads from here.

// MinimalPath returns the canonical minimal reference file.
func MinimalPath(root string) string {
	return filepath.Join(root, minimalFile)
}

// ClassifiedPath returns the canonical classified reference file.
func ClassifiedPath(root string) string {
	return filepath.Join(root, classifiedFile)
}

// DiscoveryPath returns the NHANES variable discovery CSV.
func DiscoveryPath(root string) string {
	return filepath.Join(root, "discovery", "nhanes_analyte_variables_discovered.csv")
}

// CuratedCASPath returns the curated CAS verification table.
func CuratedCASPath(root string) string {
	return filepath.Join(root, "legacy", "analyte_reference_curated.csv")
}

// SynonymMapPath returns the PubChem synonym map CSV.
func SynonymMapPath(root string) string {
	return filepath.Join(root, "config", "pubchem_synonyms.csv")
}

// EvidenceDir returns the directory for dated evidence files.
func EvidenceDir(root string) string {
	return filepath.Join(root, "evidence")
}

// CodeMapPath returns the analyte code translation table.
func CodeMapPath(root string) string {
	return filepath.Join(root, "config", "analyte_code_map.csv")
}

// CDCClassesPath returns the CAS-keyed CDC classification table.
func CDCClassesPath(root string) string {
	return filepath.Join(root, "raw", "cdc", "fourth_report_analyte_classes.csv")
}
