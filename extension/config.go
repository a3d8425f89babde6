package extension

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers understood by the extension.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds the costify extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.costify" or "costify" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Driver selects the store backend built around the grove.DB passed with
	// WithGroveDB: postgres, sqlite or mongo (default: memory).
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// AsyncRecalculation moves recipe cost refreshes after ingredient changes
	// onto a background worker.
	AsyncRecalculation bool `json:"async_recalculation" mapstructure:"async_recalculation" yaml:"async_recalculation"`

	// RecalcBatchSize is the number of changed ingredients to collect before
	// the worker flushes (default: 50).
	RecalcBatchSize int `json:"recalc_batch_size" mapstructure:"recalc_batch_size" yaml:"recalc_batch_size"`

	// RecalcFlushInterval is how frequently the worker flushes even if the
	// batch size has not been reached (default: 2s).
	RecalcFlushInterval time.Duration `json:"recalc_flush_interval" mapstructure:"recalc_flush_interval" yaml:"recalc_flush_interval"`

	// DivisionPrecision is the number of fractional digits kept by decimal
	// division (default: 28).
	DivisionPrecision int32 `json:"division_precision" mapstructure:"division_precision" yaml:"division_precision"`

	// PluginTimeout bounds every plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Driver:              DriverMemory,
		RecalcBatchSize:     50,
		RecalcFlushInterval: 2 * time.Second,
		DivisionPrecision:   28,
		PluginTimeout:       5 * time.Second,
	}
}

// configFile accepts both the namespaced and the top-level layout.
type configFile struct {
	Extensions struct {
		Costify *Config `yaml:"costify"`
	} `yaml:"extensions"`
	Costify *Config `yaml:"costify"`
}

// LoadConfigFile reads a YAML file and returns the costify section found
// under "extensions.costify" or "costify". The bool result reports whether
// either key was present.
func LoadConfigFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("costify: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data the way LoadConfigFile does.
func ParseConfig(data []byte) (Config, bool, error) {
	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, false, fmt.Errorf("costify: parse config: %w", err)
	}

	switch {
	case f.Extensions.Costify != nil:
		return *f.Extensions.Costify, true, nil
	case f.Costify != nil:
		return *f.Costify, true, nil
	default:
		return Config{}, false, nil
	}
}

// Validate reports configuration values the extension cannot use.
func (c Config) Validate() error {
	switch c.Driver {
	case "", DriverMemory, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("costify: unknown store driver %q", c.Driver)
	}
	if c.RecalcBatchSize < 0 {
		return fmt.Errorf("costify: recalc_batch_size must not be negative, got %d", c.RecalcBatchSize)
	}
	if c.DivisionPrecision < 0 {
		return fmt.Errorf("costify: division_precision must not be negative, got %d", c.DivisionPrecision)
	}
	return nil
}
