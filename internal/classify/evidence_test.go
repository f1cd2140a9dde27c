package classify

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pophealth/analyte-cli/internal/model"
)

func fixedClock() clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestEvidenceLogger_Path(t *testing.T) {
	logger := NewEvidenceLogger("/data/evidence", fixedClock())
	assert.Equal(t, filepath.Join("/data/evidence", "unclassified_2025-03-14.csv"), logger.Path())
}

func TestEvidenceLogger_Log(t *testing.T) {
	dir := t.TempDir()
	logger := NewEvidenceLogger(dir, fixedClock())
	m := NewMatcher(testCDCList(), nil, 0)

	records := []model.AnalyteRecord{
		{VariableName: "URXATZ", AnalyteName: "Atrazine"},
		{VariableName: "URXPFOS", AnalyteName: "Perfluorooctane sulfonate"},
		{VariableName: "LBXHCB", AnalyteName: "Hexachlorobenzene", ChemicalClass: "Organochlorine"},
	}

	summary, err := logger.Log(records, m)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total, "classified records are skipped")
	assert.Equal(t, 1, summary.WithCandidates)
	assert.Equal(t, 1, summary.ExactMatches)

	rows := readCSV(t, logger.Path())
	require.Len(t, rows, 3, "header plus one row per unclassified analyte")
	assert.Equal(t, evidenceColumns, rows[0])

	byVar := make(map[string][]string)
	for _, row := range rows[1:] {
		byVar[row[0]] = row
	}

	atz := byVar["URXATZ"]
	require.NotNil(t, atz)
	assert.Equal(t, "atrazine", atz[3])
	assert.Equal(t, "1.000", atz[6])
	assert.Equal(t, "exact_match", atz[7])

	pfos := byVar["URXPFOS"]
	require.NotNil(t, pfos)
	assert.Equal(t, "", pfos[3], "no candidate fields for unmatched analytes")
	assert.Equal(t, "0.000", pfos[6])
	assert.Equal(t, "none", pfos[7])
}

func TestEvidenceLogger_AllClassified(t *testing.T) {
	dir := t.TempDir()
	logger := NewEvidenceLogger(dir, fixedClock())
	m := NewMatcher(testCDCList(), nil, 0)

	records := []model.AnalyteRecord{
		{VariableName: "LBXHCB", AnalyteName: "Hexachlorobenzene", ChemicalClass: "Organochlorine"},
	}
	summary, err := logger.Log(records, m)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)

	rows := readCSV(t, logger.Path())
	assert.Len(t, rows, 1, "header only")
}
