package synonym

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/pophealth/analyte-cli/internal/model"
)

var mapColumns = []string{"cas_rn", "analyte_name", "synonym", "synonym_normalized"}

// SaveMap writes the synonym map CSV used by later classification runs.
func SaveMap(path string, entries []model.SynonymEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "synonym: create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "synonym: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(mapColumns); err != nil {
		return eris.Wrap(err, "synonym: write header")
	}
	for _, e := range entries {
		row := []string{e.CASRN, e.AnalyteName, e.Synonym, e.SynonymNormalized}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "synonym: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "synonym: flush %s", path)
	}
	return nil
}

// LoadMap reads a synonym map CSV written by SaveMap.
func LoadMap(path string) ([]model.SynonymEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "synonym: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "synonym: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("synonym: %s is empty", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[col] = i
	}
	for _, col := range mapColumns {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("synonym: %s missing column %q", path, col)
		}
	}

	entries := make([]model.SynonymEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, model.SynonymEntry{
			CASRN:             row[idx["cas_rn"]],
			AnalyteName:       row[idx["analyte_name"]],
			Synonym:           row[idx["synonym"]],
			SynonymNormalized: row[idx["synonym_normalized"]],
		})
	}
	return entries, nil
}

// BuildIndex converts synonym entries into the lookup used by the
// classification matcher: normalized synonym text to the set of
// analyte names carrying it.
func BuildIndex(entries []model.SynonymEntry) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for _, e := range entries {
		if e.SynonymNormalized == "" {
			continue
		}
		set, ok := index[e.SynonymNormalized]
		if !ok {
			set = make(map[string]bool)
			index[e.SynonymNormalized] = set
		}
		set[e.AnalyteName] = true
	}
	return index
}
