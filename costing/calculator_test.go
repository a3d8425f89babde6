package costing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

var dec = numeric.Default()

func newIngredient(t *testing.T, name, price string, u unit.Unit) *ingredient.Ingredient {
	t.Helper()
	ing, err := ingredient.New(id.NewIngredientID(), name, types.MustMoney(dec, price), u)
	if err != nil {
		t.Fatal(err)
	}
	return ing
}

func newRecipe(t *testing.T, lines ...recipe.Line) *recipe.Recipe {
	t.Helper()
	r, err := recipe.New(id.NewRecipeID(), "Test recipe", lines, types.Zero(dec))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newLine(t *testing.T, ing *ingredient.Ingredient, qty string, u unit.Unit) recipe.Line {
	t.Helper()
	l, err := recipe.NewLine(dec, ing.ID(), qty, u)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestCalculateRecipeCostConvertsUnits(t *testing.T) {
	calc := costing.NewCalculator(dec)
	flour := newIngredient(t, "Flour", "2.50", unit.Kilogram)
	r := newRecipe(t, newLine(t, flour, "500", unit.Gram))

	cost, err := calc.CalculateRecipeCost(r, []*ingredient.Ingredient{flour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := types.MustMoney(dec, "1.25")
	if !cost.TotalCost().Equal(want) {
		t.Errorf("total: got %s, want %s", cost.TotalCost(), want)
	}
	if cost.Len() != 1 {
		t.Fatalf("expected 1 ingredient cost, got %d", cost.Len())
	}
	line := cost.IngredientCosts()[0]
	if !line.TotalCost().Equal(want) {
		t.Errorf("line total: got %s, want %s", line.TotalCost(), want)
	}
	if line.Unit() != unit.Kilogram || !line.Quantity().Equal(numeric.MustParse(dec, "0.5")) {
		t.Errorf("line should be expressed in the pricing unit, got %s", line)
	}
	if line.IngredientName() != "Flour" || line.IngredientID() != flour.ID() {
		t.Errorf("unexpected snapshot %s", line)
	}
}

func TestCalculateRecipeCostSumsLines(t *testing.T) {
	calc := costing.NewCalculator(dec)
	flour := newIngredient(t, "Flour", "2.50", unit.Kilogram)
	sugar := newIngredient(t, "Sugar", "1.75", unit.Kilogram)
	r := newRecipe(t,
		newLine(t, flour, "1", unit.Kilogram),
		newLine(t, sugar, "0.5", unit.Kilogram),
	)

	cost, err := calc.CalculateRecipeCost(r, []*ingredient.Ingredient{sugar, flour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cost.TotalCost().Equal(types.MustMoney(dec, "3.375")) {
		t.Errorf("total: got %s, want 3.375", cost.TotalCost())
	}
	if got := cost.TotalCost().StringFixed(2); got != "3.38" {
		t.Errorf("StringFixed(2): got %s, want 3.38", got)
	}

	costs := cost.IngredientCosts()
	if costs[0].IngredientID() != flour.ID() || costs[1].IngredientID() != sugar.ID() {
		t.Error("breakdown must follow recipe line order")
	}
	if c, ok := cost.IngredientCost(sugar.ID()); !ok || !c.TotalCost().Equal(types.MustMoney(dec, "0.875")) {
		t.Errorf("sugar line: got %v", c)
	}
}

func TestCalculateRecipeCostIncompatibleUnits(t *testing.T) {
	calc := costing.NewCalculator(dec)
	flour := newIngredient(t, "Flour", "2.50", unit.Kilogram)
	r := newRecipe(t, newLine(t, flour, "2", unit.Piece))

	_, err := calc.CalculateRecipeCost(r, []*ingredient.Ingredient{flour})
	if !errors.Is(err, costing.ErrIncompatibleUnitTypes) {
		t.Fatalf("expected ErrIncompatibleUnitTypes, got %v", err)
	}
	for _, want := range []string{"Flour", flour.ID().String(), "PIECE", "KILOGRAM"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestCalculateRecipeCostMissingIngredient(t *testing.T) {
	calc := costing.NewCalculator(dec)
	flour := newIngredient(t, "Flour", "2.50", unit.Kilogram)
	sugar := newIngredient(t, "Sugar", "1.75", unit.Kilogram)
	r := newRecipe(t, newLine(t, flour, "1", unit.Kilogram), newLine(t, sugar, "1", unit.Kilogram))

	_, err := calc.CalculateRecipeCost(r, []*ingredient.Ingredient{flour})
	if !errors.Is(err, costing.ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), sugar.ID().String()) {
		t.Errorf("error %q should name the missing ingredient", err)
	}
}

func TestCalculateRecipeCostNilRecipe(t *testing.T) {
	calc := costing.NewCalculator(dec)
	if _, err := calc.CalculateRecipeCost(nil, nil); !errors.Is(err, recipe.ErrEmptyRecipe) {
		t.Fatalf("expected ErrEmptyRecipe, got %v", err)
	}
}

func TestCalculateRecipeCostMixedCategories(t *testing.T) {
	calc := costing.NewCalculator(dec)
	milk := newIngredient(t, "Milk", "1.20", unit.Liter)
	eggs := newIngredient(t, "Eggs", "0.30", unit.Piece)
	butter := newIngredient(t, "Butter", "10", unit.Kilogram)
	r := newRecipe(t,
		newLine(t, milk, "250", unit.Milliliter),
		newLine(t, eggs, "3", unit.Piece),
		newLine(t, butter, "2", unit.TablespoonButter),
	)

	cost, err := calc.CalculateRecipeCost(r, []*ingredient.Ingredient{milk, eggs, butter, nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.25 * 1.20 + 3 * 0.30 + 0.028 * 10
	if !cost.TotalCost().Equal(types.MustMoney(dec, "1.48")) {
		t.Errorf("total: got %s, want 1.48", cost.TotalCost())
	}
}

func TestNewRecipeCostInvariant(t *testing.T) {
	ic, err := costing.NewIngredientCost(id.MustOf("flour"), "Flour",
		types.MustMoney(dec, "2.50"), unit.Kilogram, numeric.MustParse(dec, "0.5"), types.MustMoney(dec, "1.25"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := costing.NewRecipeCost(types.MustMoney(dec, "1.25"), []costing.IngredientCost{ic}); err != nil {
		t.Errorf("matching total rejected: %v", err)
	}
	if _, err := costing.NewRecipeCost(types.MustMoney(dec, "1.26"), []costing.IngredientCost{ic}); !errors.Is(err, costing.ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation, got %v", err)
	}
	if _, err := costing.NewRecipeCost(types.Zero(dec), nil); !errors.Is(err, costing.ErrNoIngredientCosts) {
		t.Errorf("expected ErrNoIngredientCosts, got %v", err)
	}
}

func TestNewIngredientCostValidation(t *testing.T) {
	price := types.MustMoney(dec, "1")
	qty := dec.FromInt(1)

	tests := []struct {
		name string
		fn   func() (costing.IngredientCost, error)
	}{
		{"nil id", func() (costing.IngredientCost, error) {
			return costing.NewIngredientCost(id.Nil, "Flour", price, unit.Gram, qty, price)
		}},
		{"empty name", func() (costing.IngredientCost, error) {
			return costing.NewIngredientCost(id.MustOf("x"), "", price, unit.Gram, qty, price)
		}},
		{"unset total", func() (costing.IngredientCost, error) {
			return costing.NewIngredientCost(id.MustOf("x"), "Flour", price, unit.Gram, qty, types.Money{})
		}},
		{"bad unit", func() (costing.IngredientCost, error) {
			return costing.NewIngredientCost(id.MustOf("x"), "Flour", price, unit.Unit("?"), qty, price)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); !errors.Is(err, costing.ErrInvalidIngredientCost) {
				t.Errorf("expected ErrInvalidIngredientCost, got %v", err)
			}
		})
	}
}
