// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	PubChem   PubChemConfig   `yaml:"pubchem" mapstructure:"pubchem"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ReferenceConfig configures the reference file hierarchy and the
// cascade loader.
type ReferenceConfig struct {
	// Root is the base directory of the reference hierarchy
	// (minimal/, classified/, legacy/, discovery/, evidence/, config/).
	Root string `yaml:"root" mapstructure:"root"`

	// InjectPlaceholders keeps the packaging-completeness shim that adds
	// unverified placeholder rows for required lookup analytes missing
	// from an incomplete install. Deprecated; disable once packaging is
	// verified complete.
	InjectPlaceholders bool `yaml:"inject_placeholders" mapstructure:"inject_placeholders"`
}

// PubChemConfig configures the PubChem REST client.
type PubChemConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// ClassifyConfig configures the classification matcher.
type ClassifyConfig struct {
	// FuzzyThreshold is the minimum fuzzy-fallback score for a candidate
	// to survive. Synonym and exact tiers are unaffected.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// CacheConfig configures the local PubChem response cache.
type CacheConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ANALYTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("reference.root", "data/reference")
	v.SetDefault("reference.inject_placeholders", true)
	v.SetDefault("pubchem.base_url", "https://pubchem.ncbi.nlm.nih.gov/rest/pug")
	v.SetDefault("pubchem.timeout_secs", 10)
	v.SetDefault("pubchem.max_retries", 2)
	// Conservative spacing; PubChem allows ~5 req/sec.
	v.SetDefault("pubchem.rate_limit", 3.3)
	v.SetDefault("classify.fuzzy_threshold", 0.25)
	v.SetDefault("cache.path", "data/cache/pubchem.db")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
