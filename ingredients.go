package costify

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// RegisterIngredientInput carries the fields of a new ingredient.
type RegisterIngredientInput struct {
	Name         string `json:"name"`
	PricePerUnit string `json:"price_per_unit"`
	Unit         string `json:"unit"`
}

// UpdateIngredientInput carries a partial ingredient update. Nil fields are
// left unchanged.
type UpdateIngredientInput struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	PricePerUnit *string `json:"price_per_unit,omitempty"`
	Unit         *string `json:"unit,omitempty"`
}

// RegisterIngredient creates an ingredient. Names are unique.
func (e *Engine) RegisterIngredient(ctx context.Context, in RegisterIngredientInput) (*ingredient.Ingredient, error) {
	price, err := types.NewMoney(e.dec, in.PricePerUnit)
	if err != nil {
		return nil, invalidField("price_per_unit", err)
	}
	u, err := unit.Parse(in.Unit)
	if err != nil {
		return nil, invalidField("unit", err)
	}

	ing, err := ingredient.New(e.ids.Generate(id.PrefixIngredient), in.Name, price, u)
	if err != nil {
		return nil, err
	}

	if err := e.ensureIngredientNameFree(ctx, ing.Name(), id.Nil); err != nil {
		return nil, err
	}

	if err := e.store.CreateIngredient(ctx, ing); err != nil {
		return nil, err
	}

	e.plugins.EmitIngredientRegistered(ctx, ing)
	e.logger.Debug("ingredient registered",
		"ingredient_id", ing.ID(),
		"name", ing.Name(),
	)

	return ing, nil
}

// UpdateIngredient applies a partial update. When the price or unit
// changes, every recipe referencing the ingredient has its cached total
// recalculated, inline or through the background worker.
//
// A unit change that would leave a referencing recipe with an unconvertible
// line is rejected with ErrIncompatibleUnitTypes before anything is stored.
func (e *Engine) UpdateIngredient(ctx context.Context, in UpdateIngredientInput) (*ingredient.Ingredient, error) {
	ingredientID, err := id.Of(in.ID)
	if err != nil {
		return nil, invalidField("id", err)
	}

	current, err := e.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	updated := current.Clone()

	if in.Name != nil {
		if err := updated.UpdateName(*in.Name); err != nil {
			return nil, err
		}
		if err := e.ensureIngredientNameFree(ctx, updated.Name(), ingredientID); err != nil {
			return nil, err
		}
	}

	if in.PricePerUnit != nil {
		price, err := types.NewMoney(e.dec, *in.PricePerUnit)
		if err != nil {
			return nil, invalidField("price_per_unit", err)
		}
		if err := updated.UpdatePrice(price); err != nil {
			return nil, err
		}
	}

	if in.Unit != nil {
		u, err := unit.Parse(*in.Unit)
		if err != nil {
			return nil, invalidField("unit", err)
		}
		if err := updated.UpdateUnit(u); err != nil {
			return nil, err
		}
		if u != current.Unit() {
			if err := e.ensureUnitCompatible(ctx, updated); err != nil {
				return nil, err
			}
		}
	}

	if err := e.store.UpdateIngredient(ctx, updated); err != nil {
		return nil, err
	}

	e.plugins.EmitIngredientUpdated(ctx, current, updated)
	e.logger.Debug("ingredient updated",
		"ingredient_id", ingredientID,
		"name", updated.Name(),
	)

	if !updated.PricePerUnit().Equal(current.PricePerUnit()) || updated.Unit() != current.Unit() {
		e.scheduleRecalculation(ctx, ingredientID)
	}

	return updated, nil
}

// GetIngredient retrieves an ingredient by ID.
func (e *Engine) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	return e.store.GetIngredient(ctx, ingredientID)
}

// GetIngredientByName retrieves an ingredient by its exact trimmed name.
func (e *Engine) GetIngredientByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	return e.store.GetIngredientByName(ctx, name)
}

// ListIngredients lists ingredients in creation order.
func (e *Engine) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	return e.store.ListIngredients(ctx, opts)
}

// DeleteIngredient deletes an ingredient that no recipe references.
func (e *Engine) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	recipes, err := e.store.ListRecipesByIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	if len(recipes) > 0 {
		return fmt.Errorf("%w: %s is referenced by %d recipes", ErrIngredientInUse, ingredientID, len(recipes))
	}

	if err := e.store.DeleteIngredient(ctx, ingredientID); err != nil {
		return err
	}

	e.plugins.EmitIngredientDeleted(ctx, ingredientID)
	return nil
}

func (e *Engine) ensureIngredientNameFree(ctx context.Context, name string, self id.IngredientID) error {
	existing, err := e.store.GetIngredientByName(ctx, name)
	switch {
	case errors.Is(err, ingredient.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID() == self:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrIngredientAlreadyExists, name)
	}
}

func (e *Engine) ensureUnitCompatible(ctx context.Context, ing *ingredient.Ingredient) error {
	recipes, err := e.store.ListRecipesByIngredient(ctx, ing.ID())
	if err != nil {
		return err
	}
	for _, r := range recipes {
		line, ok := r.Line(ing.ID())
		if !ok {
			continue
		}
		if !unit.CanConvert(line.Unit(), ing.Unit()) {
			return fmt.Errorf("%w for ingredient %s: recipe %q requires %s, but ingredient would be priced per %s",
				costing.ErrIncompatibleUnitTypes, ing.Name(), r.Name(), line.Unit(), ing.Unit())
		}
	}
	return nil
}
