package nhanes

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// LoadAnalyteCodeMap reads the variable-code translation table
// (columns: variable_name, analyte_name). A missing file yields an
// empty map so callers can fall back to raw codes.
func LoadAnalyteCodeMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, eris.Wrapf(err, "nhanes: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "nhanes: parse %s", path)
	}
	if len(rows) == 0 {
		return map[string]string{}, nil
	}

	varCol, nameCol := -1, -1
	for i, col := range rows[0] {
		switch strings.TrimSpace(col) {
		case "variable_name":
			varCol = i
		case "analyte_name":
			nameCol = i
		}
	}
	if varCol < 0 || nameCol < 0 {
		return nil, eris.Errorf("nhanes: %s missing variable_name or analyte_name column", path)
	}

	codeMap := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		code := strings.ToUpper(strings.TrimSpace(row[varCol]))
		name := strings.TrimSpace(row[nameCol])
		if code != "" && name != "" {
			codeMap[code] = name
		}
	}
	return codeMap, nil
}
