// Package plugin provides an extensible plugin system for Costify.
// Plugins can hook into catalog and costing lifecycle events to extend
// functionality (audit trails, metrics, cache invalidation, notifications).
package plugin

import (
	"context"
	"time"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/recipe"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts. engine is the *costify.Engine.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ingredient hooks
// ──────────────────────────────────────────────────

// OnIngredientRegistered is called after a new ingredient is stored.
type OnIngredientRegistered interface {
	Plugin
	OnIngredientRegistered(ctx context.Context, ing *ingredient.Ingredient) error
}

// OnIngredientUpdated is called after an ingredient change is stored.
type OnIngredientUpdated interface {
	Plugin
	OnIngredientUpdated(ctx context.Context, oldIng, newIng *ingredient.Ingredient) error
}

// OnIngredientDeleted is called after an ingredient is deleted.
type OnIngredientDeleted interface {
	Plugin
	OnIngredientDeleted(ctx context.Context, ingredientID id.IngredientID) error
}

// ──────────────────────────────────────────────────
// Recipe hooks
// ──────────────────────────────────────────────────

// OnRecipeRegistered is called after a new recipe is stored.
type OnRecipeRegistered interface {
	Plugin
	OnRecipeRegistered(ctx context.Context, r *recipe.Recipe) error
}

// OnRecipeUpdated is called after a recipe rename or line change is stored.
type OnRecipeUpdated interface {
	Plugin
	OnRecipeUpdated(ctx context.Context, r *recipe.Recipe) error
}

// OnRecipeDeleted is called after a recipe is deleted.
type OnRecipeDeleted interface {
	Plugin
	OnRecipeDeleted(ctx context.Context, recipeID id.RecipeID) error
}

// ──────────────────────────────────────────────────
// Costing hooks
// ──────────────────────────────────────────────────

// OnRecipeCostCalculated is called after a recipe total is recomputed and
// persisted.
type OnRecipeCostCalculated interface {
	Plugin
	OnRecipeCostCalculated(ctx context.Context, r *recipe.Recipe, cost *costing.RecipeCost) error
}

// OnCostCalculationFailed is called when a calculation fails.
type OnCostCalculationFailed interface {
	Plugin
	OnCostCalculationFailed(ctx context.Context, recipeID id.RecipeID, err error) error
}

// OnRecipesRecalculated is called after the recipes referencing a changed
// ingredient have been recalculated.
type OnRecipesRecalculated interface {
	Plugin
	OnRecipesRecalculated(ctx context.Context, ingredientID id.IngredientID, count int, elapsed time.Duration) error
}
