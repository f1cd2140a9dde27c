package curate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/normalize"
)

// unit patterns stripped from variable descriptions when extracting
// the analyte name.
// Longer variants come first so "Lipid Adjusted" is not truncated by
// the "Lipid Adj" strip.
var nameStripPatterns = []string{
	"(ug/L)",
	"(ng/g)",
	"(pg/g)",
	"(mg/dL)",
	" result",
	" Lipid Adjusted",
	" Lipid Adj",
	"Lipid Adjusted",
	"Lipid Adj",
}

// InferMatrix derives the specimen matrix from data file naming
// patterns and the variable description. Serum panels use PSTPOL,
// SSPST and POC file prefixes or lipid-adjusted units; ug/L
// descriptions indicate urine.
func InferMatrix(dataFileName, variableDescription string) string {
	df := strings.ToLower(dataFileName)
	desc := strings.ToLower(variableDescription)

	if strings.Contains(df, "pstpol") || strings.Contains(df, "sspst") || strings.Contains(df, "poc") {
		return model.MatrixSerum
	}
	if strings.Contains(desc, "lipid") || strings.Contains(desc, "ng/g") || strings.Contains(desc, "pg/g") {
		return model.MatrixSerum
	}
	if strings.Contains(strings.ReplaceAll(desc, " ", ""), "ug/l") {
		return model.MatrixUrine
	}
	return model.MatrixUnknown
}

// ExtractUnit pulls the measurement unit out of a variable
// description. Unknown patterns yield "".
func ExtractUnit(variableDescription string) string {
	desc := strings.ToLower(variableDescription)
	switch {
	case strings.Contains(desc, "(ug/l)"):
		return "ug/L"
	case strings.Contains(desc, "(ng/g)"):
		return "ng/g"
	case strings.Contains(desc, "(pg/g)"):
		return "pg/g"
	case strings.Contains(desc, "(mg/dl)"):
		return "mg/dL"
	}
	return ""
}

// ExtractAnalyteName strips unit suffixes and parentheticals from a
// variable description, leaving the core chemical name.
func ExtractAnalyteName(variableDescription string) string {
	desc := strings.TrimSpace(variableDescription)
	for _, pattern := range nameStripPatterns {
		desc = strings.ReplaceAll(desc, pattern, "")
	}
	desc = strings.TrimSpace(desc)
	if i := strings.Index(desc, " ("); i >= 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	return desc
}

// CASIndex resolves analyte names to verified CAS numbers using three
// strategies in order: exact curated name, normalized name, then
// normalized substring containment.
type CASIndex struct {
	byName map[string]model.CuratedCAS
	byNorm map[string]model.CuratedCAS
	order  []string // normalized keys, sorted for deterministic scans
}

// NewCASIndex builds the lookup from curated verification rows.
func NewCASIndex(curated []model.CuratedCAS) *CASIndex {
	idx := &CASIndex{
		byName: make(map[string]model.CuratedCAS, len(curated)),
		byNorm: make(map[string]model.CuratedCAS, len(curated)),
	}
	for _, c := range curated {
		idx.byName[c.AnalyteName] = c
		norm := normalize.ForSubstringMatch(c.AnalyteName)
		if norm == "" {
			continue
		}
		if _, seen := idx.byNorm[norm]; !seen {
			idx.byNorm[norm] = c
			idx.order = append(idx.order, norm)
		}
	}
	sort.Strings(idx.order)
	return idx
}

// Find returns the curated CAS entry for a variable, trying the
// variable name, the normalized analyte name, then substring overlap
// against curated abbreviations.
func (idx *CASIndex) Find(variableName, analyteName string) (model.CuratedCAS, bool) {
	if c, ok := idx.byName[variableName]; ok {
		return c, true
	}
	norm := normalize.ForSubstringMatch(analyteName)
	if norm == "" {
		return model.CuratedCAS{}, false
	}
	if c, ok := idx.byNorm[norm]; ok {
		return c, true
	}
	for _, key := range idx.order {
		if strings.Contains(norm, key) || strings.Contains(key, norm) {
			return idx.byNorm[key], true
		}
	}
	return model.CuratedCAS{}, false
}

// BuildMinimalReference aggregates discovery rows into one record per
// variable and attaches curated CAS numbers. Only directly observable
// fields are produced; classification fields stay empty.
func BuildMinimalReference(rows []model.DiscoveryRow, curated []model.CuratedCAS) []model.AnalyteRecord {
	log := zap.L().With(zap.String("component", "reference_builder"))

	type group struct {
		first  model.DiscoveryRow
		cycles map[int]bool
	}
	groups := make(map[string]*group)
	var order []string
	for _, row := range rows {
		g, ok := groups[row.VariableName]
		if !ok {
			g = &group{first: row, cycles: make(map[int]bool)}
			groups[row.VariableName] = g
			order = append(order, row.VariableName)
		} else if g.first.VariableDescription != row.VariableDescription {
			log.Warn("variable description varies across cycles",
				zap.String("variable_name", row.VariableName),
				zap.String("kept", g.first.VariableDescription),
				zap.String("ignored", row.VariableDescription),
			)
		}
		g.cycles[row.Cycle] = true
	}
	sort.Strings(order)

	idx := NewCASIndex(curated)

	records := make([]model.AnalyteRecord, 0, len(order))
	withCAS := 0
	for _, varName := range order {
		g := groups[varName]

		cycleFirst, cycleLast := 0, 0
		for cycle := range g.cycles {
			if cycleFirst == 0 || cycle < cycleFirst {
				cycleFirst = cycle
			}
			if cycle > cycleLast {
				cycleLast = cycle
			}
		}

		rec := model.AnalyteRecord{
			VariableName:        varName,
			AnalyteName:         ExtractAnalyteName(g.first.VariableDescription),
			Matrix:              InferMatrix(g.first.DataFileName, g.first.VariableDescription),
			Unit:                ExtractUnit(g.first.VariableDescription),
			CycleFirst:          cycleFirst,
			CycleLast:           cycleLast,
			CycleCount:          len(g.cycles),
			DataFileDescription: g.first.DataFileDescription,
		}

		if c, ok := idx.Find(varName, rec.AnalyteName); ok && c.CASRN != "" {
			// Provenance is copied, never assumed. A curated row without
			// a source stays unverified.
			rec.CASRN = c.CASRN
			rec.CASVerifiedSource = c.CASVerifiedSource
			withCAS++
		}

		records = append(records, rec)
	}

	log.Info("built minimal reference",
		zap.Int("variables", len(records)),
		zap.Int("with_verified_cas", withCAS),
	)
	return records
}
