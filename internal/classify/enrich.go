package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
)

// EnrichByCAS copies authoritative class labels onto records whose
// CAS number appears in the CDC lookup. Records without a CAS match
// keep empty classification fields; nothing is inferred from names
// here. The input slice is not modified.
func EnrichByCAS(records []model.AnalyteRecord, lookup map[string]CASClassification) ([]model.AnalyteRecord, int) {
	out := make([]model.AnalyteRecord, len(records))
	copy(out, records)

	matched := 0
	for i := range out {
		cas := strings.TrimSpace(out[i].CASRN)
		if cas == "" {
			continue
		}
		cdc, ok := lookup[cas]
		if !ok {
			continue
		}
		out[i].ChemicalClass = cdc.Class
		out[i].ChemicalSubclass = cdc.Subclass
		out[i].ClassificationSource = cdc.DataSource
		matched++
	}

	zap.L().Info("CAS classification enrichment",
		zap.Int("total", len(out)),
		zap.Int("matched", matched),
		zap.Int("unclassified", len(out)-matched),
	)
	return out, matched
}

// ClassDistribution tallies records per chemical class, skipping
// unclassified rows.
func ClassDistribution(records []model.AnalyteRecord) map[string]int {
	dist := make(map[string]int)
	for _, rec := range records {
		if rec.ChemicalClass != "" {
			dist[rec.ChemicalClass]++
		}
	}
	return dist
}
