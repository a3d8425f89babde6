package costify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/plugin"
	"github.com/xraph/costify/store"
	"github.com/xraph/costify/unit"
)

// Engine is the main recipe costing engine. It orchestrates the catalog
// store, the cost calculator and registered plugins.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	dec     numeric.Provider
	ids     id.Generator
	calc    *costing.Calculator

	// Serializes read-calculate-write cycles per recipe.
	recipeLocks keyedMutex

	// Background recalculation
	async        bool
	skipMigrate  bool
	recalcBuffer chan id.IngredientID
	stopMu       sync.RWMutex
	stopped      bool
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup

	// Configuration
	recalcBatchSize     int
	recalcFlushInterval time.Duration
	recalcBufferSize    int
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:               s,
		plugins:             plugin.NewRegistry(),
		logger:              slog.Default(),
		dec:                 numeric.Default(),
		ids:                 id.TypeIDGenerator{},
		stopChan:            make(chan struct{}),
		recalcBatchSize:     50,
		recalcFlushInterval: 2 * time.Second,
		recalcBufferSize:    1000,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.calc = costing.NewCalculator(e.dec)
	e.recalcBuffer = make(chan id.IngredientID, e.recalcBufferSize)

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds every plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.plugins.WithTimeout(d)
	}
}

// WithDecimalProvider sets the decimal implementation used for all money and
// quantity arithmetic.
func WithDecimalProvider(p numeric.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.dec = p
		}
	}
}

// WithIDGenerator sets the generator used for new ingredient and recipe IDs.
func WithIDGenerator(g id.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithAsyncRecalculation moves the recipe cost refresh that follows an
// ingredient price or unit change onto a background worker. Changes are
// deduplicated per ingredient and flushed every flushInterval or once
// batchSize distinct ingredients are pending.
func WithAsyncRecalculation(batchSize int, flushInterval time.Duration) Option {
	return func(e *Engine) {
		e.async = true
		if batchSize > 0 {
			e.recalcBatchSize = batchSize
		}
		if flushInterval > 0 {
			e.recalcFlushInterval = flushInterval
		}
	}
}

// WithoutMigrate makes Start skip store migrations.
func WithoutMigrate() Option {
	return func(e *Engine) {
		e.skipMigrate = true
	}
}

// Start migrates the store, initializes plugins and starts background workers.
func (e *Engine) Start(ctx context.Context) error {
	if !e.skipMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return err
		}
	}

	e.plugins.EmitInit(ctx, e)

	if e.async {
		e.wg.Add(1)
		go e.recalculationWorker(context.WithoutCancel(ctx))
	}

	e.logger.Info("costify started",
		"async_recalculation", e.async,
		"batch_size", e.recalcBatchSize,
		"flush_interval", e.recalcFlushInterval,
	)

	return nil
}

// Stop drains pending recalculations, shuts plugins down and closes the store.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		e.stopMu.Lock()
		e.stopped = true
		close(e.stopChan)
		e.stopMu.Unlock()
	})
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// Store returns the underlying store.
func (e *Engine) Store() store.Store { return e.store }

// Calculator returns the cost calculator.
func (e *Engine) Calculator() *costing.Calculator { return e.calc }

// Decimals returns the decimal provider used by the engine.
func (e *Engine) Decimals() numeric.Provider { return e.dec }

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Units lists every supported unit with its base unit, category and factor.
func (e *Engine) Units() []unit.Info { return unit.Describe() }
