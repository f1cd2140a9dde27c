package reference

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Source describes one external narrative or structured data source
// registered for analyte context (CDC reports, ATSDR profiles, PDP
// summaries).
type Source struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Kind        string   `yaml:"kind"`
	Analytes    []string `yaml:"analytes,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// LoadSourceRegistry reads the source registry YAML under the
// reference config directory.
func LoadSourceRegistry(root string) ([]Source, error) {
	path := filepath.Join(root, "config", "analyte_sources.yml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reference: read source registry %s", path)
	}

	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, eris.Wrapf(err, "reference: parse source registry %s", path)
	}
	return sources, nil
}
