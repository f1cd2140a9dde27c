package reference

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/model"
)

// Well-known file names within the reference hierarchy.
const (
	minimalFile    = "minimal/analyte_reference_minimal.csv"
	classifiedFile = "classified/analyte_reference_classified.csv"
	shimFile       = "analyte_reference.csv"
	legacyMinimal  = "analyte_reference_minimal.csv"
	legacyClassif  = "analyte_reference_classified.csv"
	referenceGlob  = "*reference*.csv"
)

// Required lookup analytes that downstream consumers key on. When the
// loaded set is missing one and placeholder injection is enabled, an
// explicitly-unverified row is added rather than silently omitting a
// required lookup target.
var requiredAnalytes = []model.AnalyteRecord{
	{VariableName: "URX3PBA", AnalyteName: "3-PBA", Matrix: model.MatrixUrine, Unit: "ug/L"},
	{VariableName: "URXDMP", AnalyteName: "DMP", Matrix: model.MatrixUrine, Unit: "ug/L"},
}

// Loader resolves and reads the best available reference file from an
// ordered candidate cascade. Read-only over all reference files.
type Loader struct {
	// Root is the reference hierarchy base directory.
	Root string

	// InjectPlaceholders enables the packaging-completeness shim.
	InjectPlaceholders bool
}

// resolver returns a candidate path and whether it exists.
type resolver func() (string, bool)

// candidates returns the ordered cascade of resolver strategies.
// The order is fixed: enriched output first, then the canonical
// minimal file, then compatibility shims, then legacy flat locations,
// and finally any reference-looking CSV under the root.
func (l *Loader) candidates() []resolver {
	fixed := []string{
		filepath.Join(l.Root, classifiedFile),
		filepath.Join(l.Root, minimalFile),
		filepath.Join(l.Root, shimFile),
		filepath.Join(l.Root, legacyMinimal),
		filepath.Join(l.Root, legacyClassif),
	}

	resolvers := make([]resolver, 0, len(fixed)+1)
	for _, path := range fixed {
		resolvers = append(resolvers, existing(path))
	}

	resolvers = append(resolvers, func() (string, bool) {
		matches, err := filepath.Glob(filepath.Join(l.Root, referenceGlob))
		if err != nil || len(matches) == 0 {
			return "", false
		}
		// Deterministic independent of filesystem order.
		sort.Strings(matches)
		return matches[0], true
	})

	return resolvers
}

func existing(path string) resolver {
	return func() (string, bool) {
		info, err := os.Stat(path)
		return path, err == nil && !info.IsDir()
	}
}

// Resolve walks the cascade and returns the first existing candidate.
func (l *Loader) Resolve() (string, error) {
	for _, resolve := range l.candidates() {
		if path, ok := resolve(); ok {
			return path, nil
		}
	}
	return "", eris.Wrapf(os.ErrNotExist, "reference: no reference file under %s", l.Root)
}

// Load resolves the cascade and reads the winning file.
func (l *Loader) Load() ([]model.AnalyteRecord, error) {
	path, err := l.Resolve()
	if err != nil {
		return nil, err
	}
	return l.loadFrom(path)
}

// LoadPath reads an explicit caller-supplied file, bypassing the
// cascade. If the explicit path is absent it falls back to the flat
// compatibility shim before failing.
func (l *Loader) LoadPath(path string) ([]model.AnalyteRecord, error) {
	if _, err := os.Stat(path); err != nil {
		shim := filepath.Join(l.Root, shimFile)
		if _, shimErr := os.Stat(shim); shimErr != nil {
			return nil, eris.Wrapf(os.ErrNotExist, "reference: neither %s nor shim %s exists", path, shim)
		}
		zap.L().Info("explicit reference path absent, falling back to shim",
			zap.String("requested", path),
			zap.String("using", shim),
		)
		path = shim
	}
	return l.loadFrom(path)
}

func (l *Loader) loadFrom(path string) ([]model.AnalyteRecord, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}

	zap.L().Info("loaded analyte reference",
		zap.String("file", path),
		zap.Int("records", len(records)),
	)

	if l.InjectPlaceholders {
		records = injectPlaceholders(records)
	}
	return records, nil
}

// injectPlaceholders appends explicitly-unverified rows for required
// lookup analytes absent from the loaded set. Existing rows are never
// duplicated or modified.
func injectPlaceholders(records []model.AnalyteRecord) []model.AnalyteRecord {
	present := make(map[string]bool, len(records))
	for _, rec := range records {
		present[rec.AnalyteName] = true
	}

	for _, placeholder := range requiredAnalytes {
		if present[placeholder.AnalyteName] {
			continue
		}
		zap.L().Warn("injecting placeholder for required analyte missing from packaged reference",
			zap.String("analyte", placeholder.AnalyteName),
		)
		records = append(records, placeholder)
	}
	return records
}
