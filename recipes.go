package costify

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// LineInput is one ingredient line of a recipe request.
type LineInput struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
}

// RegisterRecipeInput carries the fields of a new recipe.
type RegisterRecipeInput struct {
	Name  string      `json:"name"`
	Lines []LineInput `json:"lines"`
}

// UpdateRecipeInput carries a partial recipe update. A nil Name or Lines
// leaves that field unchanged; a non-nil Lines replaces every line.
type UpdateRecipeInput struct {
	ID    string      `json:"id"`
	Name  *string     `json:"name,omitempty"`
	Lines []LineInput `json:"lines,omitempty"`
}

// RegisterRecipe creates a recipe and stores it with its freshly calculated
// total cost. Every referenced ingredient must exist and be priced in a unit
// convertible to the line's unit.
func (e *Engine) RegisterRecipe(ctx context.Context, in RegisterRecipeInput) (*recipe.Recipe, error) {
	lines, err := e.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	r, err := recipe.New(e.ids.Generate(id.PrefixRecipe), in.Name, lines, types.Zero(e.dec))
	if err != nil {
		return nil, err
	}

	if err := e.ensureRecipeNameFree(ctx, r.Name(), id.Nil); err != nil {
		return nil, err
	}

	cost, err := e.calculate(ctx, r)
	if err != nil {
		return nil, err
	}
	r.UpdateTotalCost(cost.TotalCost())

	if err := e.store.CreateRecipe(ctx, r); err != nil {
		return nil, err
	}

	e.plugins.EmitRecipeRegistered(ctx, r)
	e.plugins.EmitRecipeCostCalculated(ctx, r, cost)
	e.logger.Debug("recipe registered",
		"recipe_id", r.ID(),
		"name", r.Name(),
		"lines", r.LineCount(),
		"total_cost", cost.TotalCost(),
	)

	return r, nil
}

// UpdateRecipe applies a partial update and recalculates the total cost.
func (e *Engine) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*recipe.Recipe, error) {
	recipeID, err := id.Of(in.ID)
	if err != nil {
		return nil, invalidField("id", err)
	}

	unlock := e.recipeLocks.Lock(recipeID.String())
	defer unlock()

	current, err := e.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	updated := current.Clone()

	if in.Name != nil {
		if err := updated.UpdateName(*in.Name); err != nil {
			return nil, err
		}
		if err := e.ensureRecipeNameFree(ctx, updated.Name(), recipeID); err != nil {
			return nil, err
		}
	}

	if in.Lines != nil {
		lines, err := e.buildLines(in.Lines)
		if err != nil {
			return nil, err
		}
		if err := updated.ReplaceLines(lines); err != nil {
			return nil, err
		}
	}

	cost, err := e.calculate(ctx, updated)
	if err != nil {
		e.plugins.EmitCostCalculationFailed(ctx, recipeID, err)
		return nil, err
	}
	updated.UpdateTotalCost(cost.TotalCost())

	if err := e.store.UpdateRecipe(ctx, updated); err != nil {
		return nil, err
	}

	e.plugins.EmitRecipeUpdated(ctx, updated)
	e.plugins.EmitRecipeCostCalculated(ctx, updated, cost)
	e.logger.Debug("recipe updated",
		"recipe_id", recipeID,
		"total_cost", cost.TotalCost(),
	)

	return updated, nil
}

// GetRecipe retrieves a recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	return e.store.GetRecipe(ctx, recipeID)
}

// GetRecipeByName retrieves a recipe by its exact trimmed name.
func (e *Engine) GetRecipeByName(ctx context.Context, name string) (*recipe.Recipe, error) {
	return e.store.GetRecipeByName(ctx, name)
}

// ListRecipes lists recipes in creation order.
func (e *Engine) ListRecipes(ctx context.Context, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	return e.store.ListRecipes(ctx, opts)
}

// ListRecipesByIngredient lists every recipe with a line for the ingredient.
func (e *Engine) ListRecipesByIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	return e.store.ListRecipesByIngredient(ctx, ingredientID)
}

// DeleteRecipe deletes a recipe.
func (e *Engine) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	unlock := e.recipeLocks.Lock(recipeID.String())
	defer unlock()

	if err := e.store.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	e.plugins.EmitRecipeDeleted(ctx, recipeID)
	return nil
}

// ──────────────────────────────────────────────────
// Cost calculation
// ──────────────────────────────────────────────────

// CalculateRecipeCost computes the full cost breakdown of a stored recipe
// from current ingredient prices and persists the new total on the recipe.
func (e *Engine) CalculateRecipeCost(ctx context.Context, recipeID id.RecipeID) (*costing.RecipeCost, error) {
	unlock := e.recipeLocks.Lock(recipeID.String())
	defer unlock()

	r, err := e.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	cost, err := e.calculate(ctx, r)
	if err != nil {
		e.plugins.EmitCostCalculationFailed(ctx, recipeID, err)
		e.logger.Warn("recipe cost calculation failed",
			"recipe_id", recipeID,
			"error", err,
		)
		return nil, err
	}

	if !r.TotalCost().Equal(cost.TotalCost()) {
		r.UpdateTotalCost(cost.TotalCost())
		if err := e.store.UpdateRecipe(ctx, r); err != nil {
			return nil, err
		}
	}

	e.plugins.EmitRecipeCostCalculated(ctx, r, cost)
	return cost, nil
}

// PreviewRecipeCost prices an unsaved recipe against the stored ingredients
// without persisting anything.
func (e *Engine) PreviewRecipeCost(ctx context.Context, lines []LineInput) (*costing.RecipeCost, error) {
	built, err := e.buildLines(lines)
	if err != nil {
		return nil, err
	}
	r, err := recipe.New(id.MustOf("preview"), "preview", built, types.Zero(e.dec))
	if err != nil {
		return nil, err
	}
	return e.calculate(ctx, r)
}

// calculate loads every ingredient the recipe references and runs the
// calculator over them.
func (e *Engine) calculate(ctx context.Context, r *recipe.Recipe) (*costing.RecipeCost, error) {
	ingredients, err := e.resolveIngredients(ctx, r)
	if err != nil {
		return nil, err
	}
	return e.calc.CalculateRecipeCost(r, ingredients)
}

func (e *Engine) resolveIngredients(ctx context.Context, r *recipe.Recipe) ([]*ingredient.Ingredient, error) {
	ids := r.IngredientIDs()
	ingredients := make([]*ingredient.Ingredient, 0, len(ids))
	for _, ingredientID := range ids {
		ing, err := e.store.GetIngredient(ctx, ingredientID)
		if errors.Is(err, ingredient.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s referenced by recipe %q", costing.ErrIngredientNotFound, ingredientID, r.Name())
		}
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func (e *Engine) buildLines(in []LineInput) ([]recipe.Line, error) {
	lines := make([]recipe.Line, 0, len(in))
	for i, l := range in {
		ingredientID, err := id.Of(l.IngredientID)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("lines[%d].ingredient_id", i), err)
		}
		u, err := unit.Parse(l.Unit)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("lines[%d].unit", i), err)
		}
		line, err := recipe.NewLine(e.dec, ingredientID, l.Quantity, u)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("lines[%d].quantity", i), err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (e *Engine) ensureRecipeNameFree(ctx context.Context, name string, self id.RecipeID) error {
	existing, err := e.store.GetRecipeByName(ctx, name)
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID() == self:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrRecipeAlreadyExists, name)
	}
}
