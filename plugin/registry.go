package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/recipe"
)

// DefaultTimeout bounds every plugin hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit                  []OnInit
	onShutdown              []OnShutdown
	onIngredientRegistered  []OnIngredientRegistered
	onIngredientUpdated     []OnIngredientUpdated
	onIngredientDeleted     []OnIngredientDeleted
	onRecipeRegistered      []OnRecipeRegistered
	onRecipeUpdated         []OnRecipeUpdated
	onRecipeDeleted         []OnRecipeDeleted
	onRecipeCostCalculated  []OnRecipeCostCalculated
	onCostCalculationFailed []OnCostCalculationFailed
	onRecipesRecalculated   []OnRecipesRecalculated
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-call hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnIngredientRegistered); ok {
		r.onIngredientRegistered = append(r.onIngredientRegistered, v)
	}
	if v, ok := p.(OnIngredientUpdated); ok {
		r.onIngredientUpdated = append(r.onIngredientUpdated, v)
	}
	if v, ok := p.(OnIngredientDeleted); ok {
		r.onIngredientDeleted = append(r.onIngredientDeleted, v)
	}
	if v, ok := p.(OnRecipeRegistered); ok {
		r.onRecipeRegistered = append(r.onRecipeRegistered, v)
	}
	if v, ok := p.(OnRecipeUpdated); ok {
		r.onRecipeUpdated = append(r.onRecipeUpdated, v)
	}
	if v, ok := p.(OnRecipeDeleted); ok {
		r.onRecipeDeleted = append(r.onRecipeDeleted, v)
	}
	if v, ok := p.(OnRecipeCostCalculated); ok {
		r.onRecipeCostCalculated = append(r.onRecipeCostCalculated, v)
	}
	if v, ok := p.(OnCostCalculationFailed); ok {
		r.onCostCalculationFailed = append(r.onCostCalculationFailed, v)
	}
	if v, ok := p.(OnRecipesRecalculated); ok {
		r.onRecipesRecalculated = append(r.onRecipesRecalculated, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnIngredientRegistered)(nil)).Elem(), "OnIngredientRegistered")
	checkInterface(reflect.TypeOf((*OnIngredientUpdated)(nil)).Elem(), "OnIngredientUpdated")
	checkInterface(reflect.TypeOf((*OnIngredientDeleted)(nil)).Elem(), "OnIngredientDeleted")
	checkInterface(reflect.TypeOf((*OnRecipeRegistered)(nil)).Elem(), "OnRecipeRegistered")
	checkInterface(reflect.TypeOf((*OnRecipeUpdated)(nil)).Elem(), "OnRecipeUpdated")
	checkInterface(reflect.TypeOf((*OnRecipeDeleted)(nil)).Elem(), "OnRecipeDeleted")
	checkInterface(reflect.TypeOf((*OnRecipeCostCalculated)(nil)).Elem(), "OnRecipeCostCalculated")
	checkInterface(reflect.TypeOf((*OnCostCalculationFailed)(nil)).Elem(), "OnCostCalculationFailed")
	checkInterface(reflect.TypeOf((*OnRecipesRecalculated)(nil)).Elem(), "OnRecipesRecalculated")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit snapshots the cached hook list under the read lock and invokes call
// for each plugin, logging failures.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, list *[]T, call func(T) error) {
	r.mu.RLock()
	plugins := *list
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return call(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	emit(ctx, r, "OnInit", &r.onInit, func(p OnInit) error {
		return p.OnInit(ctx, engine)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", &r.onShutdown, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitIngredientRegistered emits an ingredient registered event.
func (r *Registry) EmitIngredientRegistered(ctx context.Context, ing *ingredient.Ingredient) {
	emit(ctx, r, "OnIngredientRegistered", &r.onIngredientRegistered, func(p OnIngredientRegistered) error {
		return p.OnIngredientRegistered(ctx, ing)
	})
}

// EmitIngredientUpdated emits an ingredient updated event.
func (r *Registry) EmitIngredientUpdated(ctx context.Context, oldIng, newIng *ingredient.Ingredient) {
	emit(ctx, r, "OnIngredientUpdated", &r.onIngredientUpdated, func(p OnIngredientUpdated) error {
		return p.OnIngredientUpdated(ctx, oldIng, newIng)
	})
}

// EmitIngredientDeleted emits an ingredient deleted event.
func (r *Registry) EmitIngredientDeleted(ctx context.Context, ingredientID id.IngredientID) {
	emit(ctx, r, "OnIngredientDeleted", &r.onIngredientDeleted, func(p OnIngredientDeleted) error {
		return p.OnIngredientDeleted(ctx, ingredientID)
	})
}

// EmitRecipeRegistered emits a recipe registered event.
func (r *Registry) EmitRecipeRegistered(ctx context.Context, rec *recipe.Recipe) {
	emit(ctx, r, "OnRecipeRegistered", &r.onRecipeRegistered, func(p OnRecipeRegistered) error {
		return p.OnRecipeRegistered(ctx, rec)
	})
}

// EmitRecipeUpdated emits a recipe updated event.
func (r *Registry) EmitRecipeUpdated(ctx context.Context, rec *recipe.Recipe) {
	emit(ctx, r, "OnRecipeUpdated", &r.onRecipeUpdated, func(p OnRecipeUpdated) error {
		return p.OnRecipeUpdated(ctx, rec)
	})
}

// EmitRecipeDeleted emits a recipe deleted event.
func (r *Registry) EmitRecipeDeleted(ctx context.Context, recipeID id.RecipeID) {
	emit(ctx, r, "OnRecipeDeleted", &r.onRecipeDeleted, func(p OnRecipeDeleted) error {
		return p.OnRecipeDeleted(ctx, recipeID)
	})
}

// EmitRecipeCostCalculated emits a recipe cost calculated event.
func (r *Registry) EmitRecipeCostCalculated(ctx context.Context, rec *recipe.Recipe, cost *costing.RecipeCost) {
	emit(ctx, r, "OnRecipeCostCalculated", &r.onRecipeCostCalculated, func(p OnRecipeCostCalculated) error {
		return p.OnRecipeCostCalculated(ctx, rec, cost)
	})
}

// EmitCostCalculationFailed emits a cost calculation failure event.
func (r *Registry) EmitCostCalculationFailed(ctx context.Context, recipeID id.RecipeID, calcErr error) {
	emit(ctx, r, "OnCostCalculationFailed", &r.onCostCalculationFailed, func(p OnCostCalculationFailed) error {
		return p.OnCostCalculationFailed(ctx, recipeID, calcErr)
	})
}

// EmitRecipesRecalculated emits a recipes recalculated event.
func (r *Registry) EmitRecipesRecalculated(ctx context.Context, ingredientID id.IngredientID, count int, elapsed time.Duration) {
	emit(ctx, r, "OnRecipesRecalculated", &r.onRecipesRecalculated, func(p OnRecipesRecalculated) error {
		return p.OnRecipesRecalculated(ctx, ingredientID, count, elapsed)
	})
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the costing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.timeout):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
