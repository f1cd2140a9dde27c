// Package reference provides the analyte reference record store: CSV
// persistence, the cascading file loader, and the lookup/suggestion
// query layer consumed by exploratory apps.
package reference

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pophealth/analyte-cli/internal/model"
)

// minimalColumns is the ordered header of the minimal reference CSV.
var minimalColumns = []string{
	"variable_name",
	"analyte_name",
	"cas_rn",
	"cas_verified_source",
	"matrix",
	"unit",
	"cycle_first",
	"cycle_last",
	"cycle_count",
	"data_file_description",
}

// classifiedColumns extends the minimal header with the CDC enrichment
// columns.
var classifiedColumns = append(append([]string{}, minimalColumns...),
	"chemical_class",
	"chemical_subclass",
	"classification_source",
)

// requiredColumns must be present in any reference CSV. The
// classification columns are optional so the same reader handles both
// the minimal and classified schemas.
var requiredColumns = []string{"variable_name", "analyte_name", "cas_rn", "cas_verified_source"}

// LoadRecords reads an analyte reference CSV (minimal or classified
// schema, auto-detected by header).
func LoadRecords(path string) ([]model.AnalyteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reference: open %s", path)
	}
	defer f.Close()

	return ReadRecords(f, path)
}

// ReadRecords parses reference records from r. name is used in error
// messages only.
func ReadRecords(r io.Reader, name string) ([]model.AnalyteRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "reference: read header of %s", name)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf(
				"reference: %s missing required column %q (expected header: %s)",
				name, col, strings.Join(minimalColumns, ","))
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.AnalyteRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "reference: read row of %s", name)
		}

		rec := model.AnalyteRecord{
			VariableName:         field(row, "variable_name"),
			AnalyteName:          field(row, "analyte_name"),
			CASRN:                field(row, "cas_rn"),
			CASVerifiedSource:    field(row, "cas_verified_source"),
			Matrix:               field(row, "matrix"),
			Unit:                 field(row, "unit"),
			DataFileDescription:  field(row, "data_file_description"),
			ChemicalClass:        field(row, "chemical_class"),
			ChemicalSubclass:     field(row, "chemical_subclass"),
			ClassificationSource: field(row, "classification_source"),
		}
		if rec.Matrix == "" {
			rec.Matrix = model.MatrixUnknown
		}

		if rec.CycleFirst, err = cycleInt(field(row, "cycle_first")); err != nil {
			return nil, eris.Wrapf(err, "reference: %s variable %s", name, rec.VariableName)
		}
		if rec.CycleLast, err = cycleInt(field(row, "cycle_last")); err != nil {
			return nil, eris.Wrapf(err, "reference: %s variable %s", name, rec.VariableName)
		}
		if rec.CycleCount, err = cycleInt(field(row, "cycle_count")); err != nil {
			return nil, eris.Wrapf(err, "reference: %s variable %s", name, rec.VariableName)
		}

		records = append(records, rec)
	}

	return records, nil
}

// cycleInt parses a cycle field, treating empty as zero but rejecting
// anything non-numeric so malformed files fail loudly.
func cycleInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("cycle field %q is not an integer", s)
	}
	return n, nil
}

// SaveRecords writes records to path. When classified is true the CDC
// enrichment columns are included. The parent directory is created if
// needed.
func SaveRecords(path string, records []model.AnalyteRecord, classified bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "reference: create dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "reference: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	columns := minimalColumns
	if classified {
		columns = classifiedColumns
	}
	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "reference: write header")
	}

	for _, rec := range records {
		row := []string{
			rec.VariableName,
			rec.AnalyteName,
			rec.CASRN,
			rec.CASVerifiedSource,
			rec.Matrix,
			rec.Unit,
			strconv.Itoa(rec.CycleFirst),
			strconv.Itoa(rec.CycleLast),
			strconv.Itoa(rec.CycleCount),
			rec.DataFileDescription,
		}
		if classified {
			row = append(row, rec.ChemicalClass, rec.ChemicalSubclass, rec.ClassificationSource)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "reference: write row for %s", rec.VariableName)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "reference: flush %s", path)
	}
	return nil
}
