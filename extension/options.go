package extension

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/costify"
	"github.com/xraph/costify/plugin"
	"github.com/xraph/costify/store"
)

// Option configures the costify Forge extension.
type Option func(*Extension)

// WithStore sets the store for the costify engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB builds the store from db using the configured driver.
func WithGroveDB(db *grove.DB, driver string) Option {
	return func(e *Extension) {
		e.groveDB = db
		e.config.Driver = driver
	}
}

// WithEngineOption passes a costify.Option through to the underlying engine.
func WithEngineOption(opt costify.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a costify plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, costify.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithConfigFile loads configuration from a YAML file instead of the Forge
// config manager.
func WithConfigFile(path string) Option {
	return func(e *Extension) { e.configFile = path }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithAsyncRecalculation enables the background recalculation worker.
func WithAsyncRecalculation(batchSize int, flushInterval time.Duration) Option {
	return func(e *Extension) {
		e.config.AsyncRecalculation = true
		e.config.RecalcBatchSize = batchSize
		e.config.RecalcFlushInterval = flushInterval
	}
}

// WithDivisionPrecision sets the number of fractional digits kept by
// decimal division.
func WithDivisionPrecision(places int32) Option {
	return func(e *Extension) { e.config.DivisionPrecision = places }
}

// WithPluginTimeout bounds every plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}
