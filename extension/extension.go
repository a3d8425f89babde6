// Package extension provides the Forge extension adapter for costify.
//
// It implements the forge.Extension interface to integrate the costing
// engine into a Forge application with DI registration and lifecycle
// management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.costify" or "costify" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	"github.com/xraph/costify"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/store"
	"github.com/xraph/costify/store/memory"
	"github.com/xraph/costify/store/mongo"
	"github.com/xraph/costify/store/postgres"
	"github.com/xraph/costify/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "costify"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Recipe costing engine with exact decimal arithmetic"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the costify engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	configFile string
	engine     *costify.Engine
	store      store.Store
	groveDB    *grove.DB
	engineOpts []costify.Option
}

// New creates a new costify Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying costify engine.
// This is nil until Register is called.
func (e *Extension) Engine() *costify.Engine { return e.engine }

// ResolvedConfig returns the configuration after file loading and defaults.
func (e *Extension) ResolvedConfig() Config { return e.config }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	dec := numeric.NewShopspring(numeric.WithDivisionPrecision(e.config.DivisionPrecision))

	if e.store == nil {
		s, err := e.buildStore(dec)
		if err != nil {
			return err
		}
		e.store = s
	}

	e.engine = costify.New(e.store, e.buildEngineOpts(dec)...)

	return vessel.Provide(fapp.Container(), func() (*costify.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("costify: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("costify: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildStore picks the store backend for the configured driver.
func (e *Extension) buildStore(dec numeric.Provider) (store.Store, error) {
	return newStore(e.config.Driver, e.groveDB, dec)
}

func newStore(driver string, db *grove.DB, dec numeric.Provider) (store.Store, error) {
	if driver == "" || driver == DriverMemory {
		return memory.New(), nil
	}
	if db == nil {
		return nil, fmt.Errorf("costify: driver %q requires a grove database (use WithGroveDB)", driver)
	}

	switch driver {
	case DriverPostgres:
		return postgres.New(db, dec), nil
	case DriverSQLite:
		return sqlite.New(db, dec), nil
	case DriverMongo:
		return mongo.New(db, dec), nil
	default:
		return nil, fmt.Errorf("costify: unknown store driver %q", driver)
	}
}

// buildEngineOpts constructs costify.Option values from the resolved config.
func (e *Extension) buildEngineOpts(dec numeric.Provider) []costify.Option {
	opts := make([]costify.Option, 0, len(e.engineOpts)+5)

	opts = append(opts, costify.WithDecimalProvider(dec))

	if e.config.DisableMigrate {
		opts = append(opts, costify.WithoutMigrate())
	}
	if e.config.AsyncRecalculation {
		opts = append(opts, costify.WithAsyncRecalculation(e.config.RecalcBatchSize, e.config.RecalcFlushInterval))
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, costify.WithPluginTimeout(e.config.PluginTimeout))
	}

	// Pass-through engine options go last so they win.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded, err := e.tryLoadFromConfigFile()
	if err != nil {
		return err
	}

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("costify: configuration is required but not found in config files; " +
				"ensure 'extensions.costify' or 'costify' key exists in your config")
		}

		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	if err := e.config.Validate(); err != nil {
		return err
	}

	e.Logger().Debug("costify: configuration loaded",
		forge.F("driver", e.config.Driver),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("async_recalculation", e.config.AsyncRecalculation),
		forge.F("recalc_batch_size", e.config.RecalcBatchSize),
		forge.F("recalc_flush_interval", e.config.RecalcFlushInterval),
		forge.F("division_precision", e.config.DivisionPrecision),
		forge.F("plugin_timeout", e.config.PluginTimeout),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from an explicit YAML file
// or from the Forge config manager.
func (e *Extension) tryLoadFromConfigFile() (Config, bool, error) {
	if e.configFile != "" {
		cfg, ok, err := LoadConfigFile(e.configFile)
		if err != nil {
			return Config{}, false, err
		}
		if ok {
			e.Logger().Debug("costify: loaded config from file",
				forge.F("path", e.configFile),
			)
		}
		return cfg, ok, nil
	}

	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.costify", "costify"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("costify: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true, nil
		}
		e.Logger().Warn("costify: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false, nil
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Driver == "" {
		cfg.Driver = defaults.Driver
	}
	if cfg.RecalcBatchSize == 0 {
		cfg.RecalcBatchSize = defaults.RecalcBatchSize
	}
	if cfg.RecalcFlushInterval == 0 {
		cfg.RecalcFlushInterval = defaults.RecalcFlushInterval
	}
	if cfg.DivisionPrecision == 0 {
		cfg.DivisionPrecision = defaults.DivisionPrecision
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.AsyncRecalculation {
		yamlConfig.AsyncRecalculation = true
	}

	if yamlConfig.Driver == "" && programmaticConfig.Driver != "" {
		yamlConfig.Driver = programmaticConfig.Driver
	}

	if yamlConfig.RecalcBatchSize == 0 && programmaticConfig.RecalcBatchSize != 0 {
		yamlConfig.RecalcBatchSize = programmaticConfig.RecalcBatchSize
	}
	if yamlConfig.RecalcFlushInterval == 0 && programmaticConfig.RecalcFlushInterval != 0 {
		yamlConfig.RecalcFlushInterval = programmaticConfig.RecalcFlushInterval
	}
	if yamlConfig.DivisionPrecision == 0 && programmaticConfig.DivisionPrecision != 0 {
		yamlConfig.DivisionPrecision = programmaticConfig.DivisionPrecision
	}
	if yamlConfig.PluginTimeout == 0 && programmaticConfig.PluginTimeout != 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}

	return mergeWithDefaults(yamlConfig)
}
