package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pophealth/analyte-cli/internal/model"
)

func TestEnrichByCAS_MatchesByCASOnly(t *testing.T) {
	lookup := map[string]CASClassification{
		"118-74-1": {CASRN: "118-74-1", Class: "Organochlorine", DataSource: "cdc_fourth_report"},
	}
	records := []model.AnalyteRecord{
		{VariableName: "LBXHCB", AnalyteName: "Hexachlorobenzene", CASRN: "118-74-1", CASVerifiedSource: model.CASSourcePubChemAPI},
		{VariableName: "URXUNK", AnalyteName: "Hexachlorobenzene-like"},
	}

	enriched, matched := EnrichByCAS(records, lookup)
	assert.Equal(t, 1, matched)

	assert.Equal(t, "Organochlorine", enriched[0].ChemicalClass)
	assert.Equal(t, "cdc_fourth_report", enriched[0].ClassificationSource)

	assert.Empty(t, enriched[1].ChemicalClass, "name similarity must never assign a class")
	assert.Empty(t, enriched[1].ClassificationSource)
}

func TestEnrichByCAS_InputUntouched(t *testing.T) {
	lookup := map[string]CASClassification{
		"118-74-1": {CASRN: "118-74-1", Class: "Organochlorine"},
	}
	records := []model.AnalyteRecord{
		{VariableName: "LBXHCB", CASRN: "118-74-1"},
	}
	_, _ = EnrichByCAS(records, lookup)
	assert.Empty(t, records[0].ChemicalClass)
}

func TestEnrichByCAS_SameRowCount(t *testing.T) {
	records := []model.AnalyteRecord{
		{VariableName: "A"}, {VariableName: "B"}, {VariableName: "C"},
	}
	enriched, matched := EnrichByCAS(records, nil)
	assert.Zero(t, matched)
	require.Len(t, enriched, len(records), "enrichment never adds or drops rows")
	for i := range records {
		assert.Equal(t, records[i].VariableName, enriched[i].VariableName)
	}
}

func TestClassDistribution(t *testing.T) {
	records := []model.AnalyteRecord{
		{ChemicalClass: "Organochlorine"},
		{ChemicalClass: "Organochlorine"},
		{ChemicalClass: "Chlorophenol"},
		{},
	}
	dist := ClassDistribution(records)
	assert.Equal(t, map[string]int{"Organochlorine": 2, "Chlorophenol": 1}, dist)
}

func TestLoadCASClassifications(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.csv")
	content := "cas_rn,chemical_class,chemical_subclass,data_source\n" +
		"118-74-1,Organochlorine,,cdc_fourth_report\n" +
		"1912-24-9,Triazine herbicide,,cdc_fourth_report\n" +
		",Bogus,,ignored\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lookup, err := LoadCASClassifications(path)
	require.NoError(t, err)
	require.Len(t, lookup, 2)
	assert.Equal(t, "Organochlorine", lookup["118-74-1"].Class)
	assert.Equal(t, "cdc_fourth_report", lookup["1912-24-9"].DataSource)
}

func TestLoadCASClassifications_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("cas_rn,chemical_class\n118-74-1,X\n"), 0o644))
	_, err := LoadCASClassifications(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_source")
}

func TestCDCFourthReport_SubclassesEmpty(t *testing.T) {
	for _, entry := range CDCFourthReport {
		assert.NotEmpty(t, entry.Name)
		assert.NotEmpty(t, entry.Class)
		assert.Empty(t, entry.Subclass, "subclass stays empty until an authoritative source confirms it")
	}
}
