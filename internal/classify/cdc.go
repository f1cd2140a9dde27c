// Package classify matches analytes against the CDC Fourth National
// Report chemical classification tables and records the evidence for
// manual review.
package classify

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
)

// CDCFourthReport is the curated classification list extracted from
// the CDC Fourth National Report on Human Exposure to Environmental
// Chemicals (2021+), Table 1 and supplemental data tables.
//
// Subclass values stay empty until an authoritative source confirms
// them. Earlier structural inferences ("Chlorinated benzene",
// "DDT-related", "Cyclodiene") were stripped because they are not
// direct CDC Fourth Report labels.
var CDCFourthReport = []model.CDCClassification{
	// Organochlorine pesticides
	{Name: "hexachlorobenzene", Class: "Organochlorine"},
	{Name: "mirex", Class: "Organochlorine"},
	{Name: "ddt", Class: "Organochlorine"},
	{Name: "dde", Class: "Organochlorine"},
	{Name: "oxychlordane", Class: "Organochlorine"},
	{Name: "trans-nonachlor", Class: "Organochlorine"},
	{Name: "aldrin", Class: "Organochlorine"},
	{Name: "dieldrin", Class: "Organochlorine"},
	{Name: "endrin", Class: "Organochlorine"},
	{Name: "heptachlor", Class: "Organochlorine"},
	{Name: "beta-hexachlorocyclohexane", Class: "Organochlorine"},
	{Name: "gamma-hexachlorocyclohexane", Class: "Organochlorine"},
	// Pyrethroid metabolites
	{Name: "3-phenoxybenzoic acid", Class: "Pyrethroid metabolite"},
	{Name: "3-pba", Class: "Pyrethroid metabolite"},
	{Name: "4-fluoro-3-phenoxybenzoic acid", Class: "Pyrethroid metabolite"},
	// Organophosphate metabolites (dialkyl phosphates)
	{Name: "dimethylphosphate", Class: "Organophosphate metabolite"},
	{Name: "diethylphosphate", Class: "Organophosphate metabolite"},
	{Name: "dimethylthiophosphate", Class: "Organophosphate metabolite"},
	{Name: "diethylthiophosphate", Class: "Organophosphate metabolite"},
	{Name: "dimethyldithiophosphate", Class: "Organophosphate metabolite"},
	{Name: "diethyldithiophosphate", Class: "Organophosphate metabolite"},
	// Current-use organophosphate pesticides
	{Name: "malathion", Class: "Organophosphate"},
	{Name: "chlorpyrifos", Class: "Organophosphate"},
	// Phenoxy herbicides
	{Name: "2,4-d", Class: "Phenoxy herbicide"},
	{Name: "2,4,5-t", Class: "Phenoxy herbicide"},
	// Triazine herbicides
	{Name: "atrazine", Class: "Triazine herbicide"},
	// Organophosphonate herbicides
	{Name: "glyphosate", Class: "Organophosphonate herbicide"},
	// Chlorophenols
	{Name: "2,5-dichlorophenol", Class: "Chlorophenol"},
	{Name: "2,4-dichlorophenol", Class: "Chlorophenol"},
}

// CASClassification couples a CAS number with its authoritative class
// labels, used for the CAS-keyed enrichment pass.
type CASClassification struct {
	CASRN      string
	Class      string
	Subclass   string
	DataSource string
}

// LoadCASClassifications reads a CDC classification CSV keyed by CAS
// number (columns: cas_rn, chemical_class, chemical_subclass,
// data_source).
func LoadCASClassifications(path string) (map[string]CASClassification, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "classify: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("classify: %s is empty", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{"cas_rn", "chemical_class", "chemical_subclass", "data_source"} {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("classify: %s missing column %q", path, col)
		}
	}

	lookup := make(map[string]CASClassification, len(rows)-1)
	for _, row := range rows[1:] {
		cas := strings.TrimSpace(row[idx["cas_rn"]])
		if cas == "" {
			continue
		}
		lookup[cas] = CASClassification{
			CASRN:      cas,
			Class:      strings.TrimSpace(row[idx["chemical_class"]]),
			Subclass:   strings.TrimSpace(row[idx["chemical_subclass"]]),
			DataSource: strings.TrimSpace(row[idx["data_source"]]),
		}
	}
	zap.L().Info("loaded CDC CAS classifications", zap.String("path", path), zap.Int("count", len(lookup)))
	return lookup, nil
}

// LoadClassificationsXLSX reads name-keyed classifications from a CDC
// report workbook. The first sheet is scanned for chemical_name,
// chemical_class and chemical_subclass columns.
func LoadClassificationsXLSX(path string) ([]model.CDCClassification, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: open workbook %s", path)
	}
	if len(wb.Sheets) == 0 {
		return nil, eris.Errorf("classify: %s has no sheets", path)
	}
	sheet := wb.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("classify: %s sheet %q has no data rows", path, sheet.Name)
	}

	idx := make(map[string]int)
	for i, cell := range sheet.Rows[0].Cells {
		idx[strings.ToLower(strings.TrimSpace(cell.String()))] = i
	}
	nameCol, ok := idx["chemical_name"]
	if !ok {
		return nil, eris.Errorf("classify: %s missing chemical_name column", path)
	}
	classCol, ok := idx["chemical_class"]
	if !ok {
		return nil, eris.Errorf("classify: %s missing chemical_class column", path)
	}
	subCol, hasSub := idx["chemical_subclass"]

	cellAt := func(row *xlsx.Row, i int) string {
		if i < 0 || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i].String())
	}

	var out []model.CDCClassification
	for _, row := range sheet.Rows[1:] {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		entry := model.CDCClassification{
			Name:  name,
			Class: cellAt(row, classCol),
		}
		if hasSub {
			entry.Subclass = cellAt(row, subCol)
		}
		out = append(out, entry)
	}
	zap.L().Info("loaded CDC classifications from workbook",
		zap.String("path", path),
		zap.String("sheet", sheet.Name),
		zap.Int("count", len(out)),
	)
	return out, nil
}
