// Package audithook bridges costify lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit backend. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/plugin"
	"github.com/xraph/costify/recipe"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                  = (*Extension)(nil)
	_ plugin.OnIngredientRegistered  = (*Extension)(nil)
	_ plugin.OnIngredientUpdated     = (*Extension)(nil)
	_ plugin.OnIngredientDeleted     = (*Extension)(nil)
	_ plugin.OnRecipeRegistered      = (*Extension)(nil)
	_ plugin.OnRecipeUpdated         = (*Extension)(nil)
	_ plugin.OnRecipeDeleted         = (*Extension)(nil)
	_ plugin.OnRecipeCostCalculated  = (*Extension)(nil)
	_ plugin.OnCostCalculationFailed = (*Extension)(nil)
	_ plugin.OnRecipesRecalculated   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges costify lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ingredient lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered implements plugin.OnIngredientRegistered.
func (e *Extension) OnIngredientRegistered(ctx context.Context, ing *ingredient.Ingredient) error {
	return e.record(ctx, ActionIngredientRegistered, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, ing.ID().String(), CategoryCatalog, nil,
		"name", ing.Name(),
		"price_per_unit", ing.PricePerUnit().String(),
		"unit", ing.Unit().String(),
	)
}

// OnIngredientUpdated implements plugin.OnIngredientUpdated. Price or unit
// changes are recorded as a repricing.
func (e *Extension) OnIngredientUpdated(ctx context.Context, oldIng, newIng *ingredient.Ingredient) error {
	action := ActionIngredientUpdated
	if !oldIng.PricePerUnit().Equal(newIng.PricePerUnit()) || oldIng.Unit() != newIng.Unit() {
		action = ActionIngredientRepriced
	}

	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, newIng.ID().String(), CategoryCatalog, nil,
		"name", newIng.Name(),
		"old_price_per_unit", oldIng.PricePerUnit().String(),
		"new_price_per_unit", newIng.PricePerUnit().String(),
		"old_unit", oldIng.Unit().String(),
		"new_unit", newIng.Unit().String(),
	)
}

// OnIngredientDeleted implements plugin.OnIngredientDeleted.
func (e *Extension) OnIngredientDeleted(ctx context.Context, ingredientID id.IngredientID) error {
	return e.record(ctx, ActionIngredientDeleted, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, ingredientID.String(), CategoryCatalog, nil,
	)
}

// ──────────────────────────────────────────────────
// Recipe lifecycle hooks
// ──────────────────────────────────────────────────

// OnRecipeRegistered implements plugin.OnRecipeRegistered.
func (e *Extension) OnRecipeRegistered(ctx context.Context, r *recipe.Recipe) error {
	return e.record(ctx, ActionRecipeRegistered, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, r.ID().String(), CategoryCatalog, nil,
		"name", r.Name(),
		"lines", r.LineCount(),
	)
}

// OnRecipeUpdated implements plugin.OnRecipeUpdated.
func (e *Extension) OnRecipeUpdated(ctx context.Context, r *recipe.Recipe) error {
	return e.record(ctx, ActionRecipeUpdated, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, r.ID().String(), CategoryCatalog, nil,
		"name", r.Name(),
		"lines", r.LineCount(),
	)
}

// OnRecipeDeleted implements plugin.OnRecipeDeleted.
func (e *Extension) OnRecipeDeleted(ctx context.Context, recipeID id.RecipeID) error {
	return e.record(ctx, ActionRecipeDeleted, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, recipeID.String(), CategoryCatalog, nil,
	)
}

// ──────────────────────────────────────────────────
// Costing hooks
// ──────────────────────────────────────────────────

// OnRecipeCostCalculated implements plugin.OnRecipeCostCalculated.
func (e *Extension) OnRecipeCostCalculated(ctx context.Context, r *recipe.Recipe, cost *costing.RecipeCost) error {
	return e.record(ctx, ActionRecipeCostCalculated, SeverityInfo, OutcomeSuccess,
		ResourceRecipe, r.ID().String(), CategoryCosting, nil,
		"name", r.Name(),
		"total_cost", cost.TotalCost().String(),
		"ingredients", cost.Len(),
	)
}

// OnCostCalculationFailed implements plugin.OnCostCalculationFailed.
func (e *Extension) OnCostCalculationFailed(ctx context.Context, recipeID id.RecipeID, calcErr error) error {
	return e.record(ctx, ActionRecipeCostFailed, SeverityError, OutcomeFailure,
		ResourceRecipe, recipeID.String(), CategoryCosting, calcErr,
	)
}

// OnRecipesRecalculated implements plugin.OnRecipesRecalculated.
func (e *Extension) OnRecipesRecalculated(ctx context.Context, ingredientID id.IngredientID, count int, elapsed time.Duration) error {
	return e.record(ctx, ActionRecipesRecalculated, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, ingredientID.String(), CategoryCosting, nil,
		"recipes", count,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
