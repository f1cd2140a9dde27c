package curate

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/nhanes"
)

var discoveryColumns = []string{
	"variable_name",
	"variable_description",
	"data_file_name",
	"data_file_description",
	"cycle",
}

// LoadDiscoveryRows reads the NHANES variable discovery CSV. The
// cycle column carries survey labels like "2017-2018"; the start year
// becomes the row's Cycle. Malformed cycles fail the load.
func LoadDiscoveryRows(path string) ([]model.DiscoveryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "curate: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "curate: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("curate: %s is empty", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range discoveryColumns {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("curate: %s missing column %q", path, col)
		}
	}

	out := make([]model.DiscoveryRow, 0, len(rows)-1)
	for n, row := range rows[1:] {
		start, _, err := nhanes.ParseCycleYears(row[idx["cycle"]])
		if err != nil {
			return nil, eris.Wrapf(err, "curate: %s row %d", path, n+2)
		}
		out = append(out, model.DiscoveryRow{
			VariableName:        strings.TrimSpace(row[idx["variable_name"]]),
			VariableDescription: strings.TrimSpace(row[idx["variable_description"]]),
			DataFileName:        strings.TrimSpace(row[idx["data_file_name"]]),
			DataFileDescription: strings.TrimSpace(row[idx["data_file_description"]]),
			Cycle:               start,
		})
	}
	zap.L().Info("loaded discovery rows", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}

// LoadCuratedCAS reads the curated CAS table (columns: analyte_name,
// cas_rn, optional cas_verified_source). A missing file is not an
// error; the builder then produces records without CAS numbers.
func LoadCuratedCAS(path string) ([]model.CuratedCAS, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("curated CAS table not found, proceeding without verified CAS", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrapf(err, "curate: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "curate: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{"analyte_name", "cas_rn"} {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("curate: %s missing column %q", path, col)
		}
	}
	srcCol, hasSrc := idx["cas_verified_source"]

	out := make([]model.CuratedCAS, 0, len(rows)-1)
	for _, row := range rows[1:] {
		c := model.CuratedCAS{
			AnalyteName: strings.TrimSpace(row[idx["analyte_name"]]),
			CASRN:       strings.TrimSpace(row[idx["cas_rn"]]),
		}
		if hasSrc {
			c.CASVerifiedSource = strings.TrimSpace(row[srcCol])
		}
		if c.AnalyteName == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
