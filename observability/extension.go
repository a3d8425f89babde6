// Package observability provides a metrics extension for costify that records
// lifecycle event counts and costing latencies via a MetricFactory.
package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/plugin"
	"github.com/xraph/costify/recipe"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                  = (*MetricsExtension)(nil)
	_ plugin.OnInit                  = (*MetricsExtension)(nil)
	_ plugin.OnIngredientRegistered  = (*MetricsExtension)(nil)
	_ plugin.OnIngredientUpdated     = (*MetricsExtension)(nil)
	_ plugin.OnIngredientDeleted     = (*MetricsExtension)(nil)
	_ plugin.OnRecipeRegistered      = (*MetricsExtension)(nil)
	_ plugin.OnRecipeUpdated         = (*MetricsExtension)(nil)
	_ plugin.OnRecipeDeleted         = (*MetricsExtension)(nil)
	_ plugin.OnRecipeCostCalculated  = (*MetricsExtension)(nil)
	_ plugin.OnCostCalculationFailed = (*MetricsExtension)(nil)
	_ plugin.OnRecipesRecalculated   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a costify plugin to automatically track costing metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Ingredient metrics
	IngredientRegistered Counter
	IngredientUpdated    Counter
	IngredientRepriced   Counter
	IngredientDeleted    Counter

	// Recipe metrics
	RecipeRegistered Counter
	RecipeUpdated    Counter
	RecipeDeleted    Counter
	RecipeLines      Histogram

	// Costing metrics
	CostCalculated       Counter
	CostFailed           Counter
	RecipeTotalCost      Histogram
	RecipesRecalculated  Counter
	RecalculationLatency Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Ingredient metrics
		IngredientRegistered: factory.Counter("costify.ingredient.registered"),
		IngredientUpdated:    factory.Counter("costify.ingredient.updated"),
		IngredientRepriced:   factory.Counter("costify.ingredient.repriced"),
		IngredientDeleted:    factory.Counter("costify.ingredient.deleted"),

		// Recipe metrics
		RecipeRegistered: factory.Counter("costify.recipe.registered"),
		RecipeUpdated:    factory.Counter("costify.recipe.updated"),
		RecipeDeleted:    factory.Counter("costify.recipe.deleted"),
		RecipeLines:      factory.Histogram("costify.recipe.lines"),

		// Costing metrics
		CostCalculated:       factory.Counter("costify.cost.calculated"),
		CostFailed:           factory.Counter("costify.cost.failed"),
		RecipeTotalCost:      factory.Histogram("costify.cost.recipe_total"),
		RecipesRecalculated:  factory.Counter("costify.recalculation.recipes"),
		RecalculationLatency: factory.Histogram("costify.recalculation.latency_ms"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Ingredient lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered implements plugin.OnIngredientRegistered.
func (m *MetricsExtension) OnIngredientRegistered(_ context.Context, _ *ingredient.Ingredient) error {
	m.IngredientRegistered.Inc()
	return nil
}

// OnIngredientUpdated implements plugin.OnIngredientUpdated.
func (m *MetricsExtension) OnIngredientUpdated(_ context.Context, oldIng, newIng *ingredient.Ingredient) error {
	m.IngredientUpdated.Inc()
	if !oldIng.PricePerUnit().Equal(newIng.PricePerUnit()) || oldIng.Unit() != newIng.Unit() {
		m.IngredientRepriced.Inc()
	}
	return nil
}

// OnIngredientDeleted implements plugin.OnIngredientDeleted.
func (m *MetricsExtension) OnIngredientDeleted(_ context.Context, _ id.IngredientID) error {
	m.IngredientDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Recipe lifecycle hooks
// ──────────────────────────────────────────────────

// OnRecipeRegistered implements plugin.OnRecipeRegistered.
func (m *MetricsExtension) OnRecipeRegistered(_ context.Context, r *recipe.Recipe) error {
	m.RecipeRegistered.Inc()
	m.RecipeLines.Observe(float64(r.LineCount()))
	return nil
}

// OnRecipeUpdated implements plugin.OnRecipeUpdated.
func (m *MetricsExtension) OnRecipeUpdated(_ context.Context, r *recipe.Recipe) error {
	m.RecipeUpdated.Inc()
	m.RecipeLines.Observe(float64(r.LineCount()))
	return nil
}

// OnRecipeDeleted implements plugin.OnRecipeDeleted.
func (m *MetricsExtension) OnRecipeDeleted(_ context.Context, _ id.RecipeID) error {
	m.RecipeDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Costing hooks
// ──────────────────────────────────────────────────

// OnRecipeCostCalculated implements plugin.OnRecipeCostCalculated. The
// histogram sees the total rounded to display precision.
func (m *MetricsExtension) OnRecipeCostCalculated(_ context.Context, _ *recipe.Recipe, cost *costing.RecipeCost) error {
	m.CostCalculated.Inc()
	if total, err := strconv.ParseFloat(cost.TotalCost().Display(), 64); err == nil {
		m.RecipeTotalCost.Observe(total)
	}
	return nil
}

// OnCostCalculationFailed implements plugin.OnCostCalculationFailed.
func (m *MetricsExtension) OnCostCalculationFailed(_ context.Context, _ id.RecipeID, _ error) error {
	m.CostFailed.Inc()
	return nil
}

// OnRecipesRecalculated implements plugin.OnRecipesRecalculated.
func (m *MetricsExtension) OnRecipesRecalculated(_ context.Context, _ id.IngredientID, count int, elapsed time.Duration) error {
	m.RecipesRecalculated.Add(float64(count))
	m.RecalculationLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
