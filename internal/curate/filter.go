// Package curate builds the minimal analyte reference from NHANES
// discovery data and cross-references it against PubChem.
package curate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
)

// Survey bookkeeping phrases that mark a variable as something other
// than a chemical concentration.
var nonChemicalKeywords = []string{
	"comment",
	"comment code",
	"weight",
	"jack knife",
	"jackknife",
	"creatinine",
	"pool id",
	"sequence number",
	"age group",
	"gender",
	"ethnicity",
	"race",
	"recode",
	"subsample",
	"number of samples",
	"identification number",
}

// IsChemicalVariable reports whether a survey variable measures a
// chemical analyte concentration. Survey weights ("WT" prefix),
// detection comment codes ("LC" suffix) and administrative or
// demographic variables are excluded.
func IsChemicalVariable(varName, description string) bool {
	v := strings.ToLower(varName)
	d := strings.ToLower(description)

	if strings.HasPrefix(v, "wt") {
		return false
	}
	if strings.HasSuffix(v, "lc") {
		return false
	}
	for _, keyword := range nonChemicalKeywords {
		if strings.Contains(d, keyword) {
			return false
		}
	}
	return true
}

// FilterChemicalVariables drops non-chemical rows from the discovery
// set.
func FilterChemicalVariables(rows []model.DiscoveryRow) []model.DiscoveryRow {
	filtered := make([]model.DiscoveryRow, 0, len(rows))
	for _, row := range rows {
		if IsChemicalVariable(row.VariableName, row.VariableDescription) {
			filtered = append(filtered, row)
		}
	}
	zap.L().Info("filtered discovery rows",
		zap.Int("input", len(rows)),
		zap.Int("removed", len(rows)-len(filtered)),
		zap.Int("retained", len(filtered)),
	)
	return filtered
}
