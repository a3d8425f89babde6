// Package costing computes recipe costs from ingredient unit prices.
//
// The Calculator is pure: it performs no I/O and holds no mutable state, so
// a single instance may be shared across goroutines. Callers resolve the
// ingredients a recipe references and pass them in.
package costing

import (
	"fmt"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// Calculator aggregates per-line ingredient costs into a recipe total.
type Calculator struct {
	dec   numeric.Provider
	units *unit.Converter
}

// NewCalculator returns a Calculator using dec for all arithmetic.
func NewCalculator(dec numeric.Provider) *Calculator {
	return &Calculator{
		dec:   dec,
		units: unit.NewConverter(dec),
	}
}

// Converter returns the unit converter used by the calculator.
func (c *Calculator) Converter() *unit.Converter { return c.units }

// CalculateRecipeCost prices every line of r against the matching entry in
// ingredients, in line order, and returns the verified total.
//
// Lines whose ingredient is missing from ingredients fail with
// ErrIngredientNotFound. Lines whose unit cannot be converted into the
// ingredient's pricing unit fail with ErrIncompatibleUnitTypes. If several
// entries share an identifier the first one wins.
func (c *Calculator) CalculateRecipeCost(r *recipe.Recipe, ingredients []*ingredient.Ingredient) (*RecipeCost, error) {
	if r == nil || r.LineCount() == 0 {
		return nil, fmt.Errorf("costing: %w", recipe.ErrEmptyRecipe)
	}

	index := make(map[id.IngredientID]*ingredient.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		if ing == nil {
			continue
		}
		if _, ok := index[ing.ID()]; !ok {
			index[ing.ID()] = ing
		}
	}

	total := types.Zero(c.dec)
	costs := make([]IngredientCost, 0, r.LineCount())
	for _, line := range r.Lines() {
		ing, ok := index[line.IngredientID()]
		if !ok {
			return nil, fmt.Errorf("%w: %s (recipe %s)", ErrIngredientNotFound, line.IngredientID(), r.ID())
		}

		cost, err := c.CalculateLineCost(line, ing)
		if err != nil {
			return nil, err
		}

		total = total.Add(cost.totalCost)
		costs = append(costs, cost)
	}

	return NewRecipeCost(total, costs)
}

// CalculateLineCost prices a single line against its ingredient.
func (c *Calculator) CalculateLineCost(line recipe.Line, ing *ingredient.Ingredient) (IngredientCost, error) {
	if !c.units.CanConvert(line.Unit(), ing.Unit()) {
		return IngredientCost{}, fmt.Errorf(
			"%w for ingredient %s (%s): recipe requires %s, but ingredient is priced per %s",
			ErrIncompatibleUnitTypes, ing.Name(), ing.ID(), line.Unit(), ing.Unit())
	}

	quantity, err := c.units.Convert(line.Quantity(), line.Unit(), ing.Unit())
	if err != nil {
		return IngredientCost{}, fmt.Errorf("costing: ingredient %s (%s): %w", ing.Name(), ing.ID(), err)
	}

	lineTotal, err := ing.CalculateCost(quantity)
	if err != nil {
		return IngredientCost{}, err
	}

	return NewIngredientCost(ing.ID(), ing.Name(), ing.PricePerUnit(), ing.Unit(), quantity, lineTotal)
}
