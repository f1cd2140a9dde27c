package synonym

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pophealth/analyte-cli/internal/model"
)

func TestSaveLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "pubchem_synonyms.csv")
	entries := []model.SynonymEntry{
		{CASRN: "3739-38-6", AnalyteName: "3-PBA", Synonym: "3-Phenoxybenzoic acid", SynonymNormalized: "3-phenoxybenzoic acid"},
		{CASRN: "1912-24-9", AnalyteName: "Atrazine", Synonym: "Gesaprim", SynonymNormalized: "gesaprim"},
	}

	require.NoError(t, SaveMap(path, entries))

	loaded, err := LoadMap(path)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestLoadMap_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("cas_rn,synonym\n1,2\n"), 0o644))
	_, err := LoadMap(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyte_name")
}

func TestBuildIndex(t *testing.T) {
	entries := []model.SynonymEntry{
		{CASRN: "3739-38-6", AnalyteName: "3-PBA", SynonymNormalized: "3-phenoxybenzoic acid"},
		{CASRN: "3739-38-6", AnalyteName: "3-PBA", SynonymNormalized: "3-pba"},
		{CASRN: "0000-00-0", AnalyteName: "Other", SynonymNormalized: "3-pba"},
		{CASRN: "1912-24-9", AnalyteName: "Atrazine", SynonymNormalized: ""},
	}
	index := BuildIndex(entries)

	require.Contains(t, index, "3-phenoxybenzoic acid")
	assert.Equal(t, map[string]bool{"3-PBA": true}, index["3-phenoxybenzoic acid"])

	assert.Equal(t, map[string]bool{"3-PBA": true, "Other": true}, index["3-pba"],
		"one synonym can bridge multiple analytes")

	assert.NotContains(t, index, "", "empty normalized synonyms are dropped")
}
