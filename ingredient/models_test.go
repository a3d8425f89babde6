package ingredient_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

var dec = numeric.Default()

func TestNew(t *testing.T) {
	price := types.MustMoney(dec, "2.50")

	tests := []struct {
		name    string
		id      id.ID
		ingName string
		price   types.Money
		unit    unit.Unit
		wantErr error
	}{
		{"valid", id.NewIngredientID(), "Flour", price, unit.Kilogram, nil},
		{"trims name", id.NewIngredientID(), "  Flour  ", price, unit.Kilogram, nil},
		{"nil id", id.Nil, "Flour", price, unit.Kilogram, id.ErrEmpty},
		{"empty name", id.NewIngredientID(), "   ", price, unit.Kilogram, ingredient.ErrInvalidName},
		{"long name", id.NewIngredientID(), strings.Repeat("a", 256), price, unit.Kilogram, ingredient.ErrInvalidName},
		{"unset price", id.NewIngredientID(), "Flour", types.Money{}, unit.Kilogram, ingredient.ErrInvalidPrice},
		{"unknown unit", id.NewIngredientID(), "Flour", price, unit.Unit("STONE"), unit.ErrInvalidUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, err := ingredient.New(tt.id, tt.ingName, tt.price, tt.unit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ing.Name() != "Flour" {
				t.Errorf("Name: got %q", ing.Name())
			}
			if ing.CreatedAt.IsZero() {
				t.Error("CreatedAt should be set")
			}
		})
	}
}

func TestMaxLengthNameAccepted(t *testing.T) {
	name := strings.Repeat("é", ingredient.MaxNameLength)
	if _, err := ingredient.New(id.NewIngredientID(), name, types.Zero(dec), unit.Gram); err != nil {
		t.Fatalf("255-character name should be accepted: %v", err)
	}
}

func TestUpdates(t *testing.T) {
	ing, err := ingredient.New(id.NewIngredientID(), "Sugar", types.MustMoney(dec, "1.75"), unit.Kilogram)
	if err != nil {
		t.Fatal(err)
	}

	if err := ing.UpdateName(" Brown sugar "); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if ing.Name() != "Brown sugar" {
		t.Errorf("Name: got %q", ing.Name())
	}
	if err := ing.UpdateName(""); !errors.Is(err, ingredient.ErrInvalidName) {
		t.Errorf("UpdateName(\"\"): expected ErrInvalidName, got %v", err)
	}
	if ing.Name() != "Brown sugar" {
		t.Error("failed rename must not change the name")
	}

	if err := ing.UpdatePrice(types.MustMoney(dec, "2")); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if !ing.PricePerUnit().Equal(types.MustMoney(dec, "2")) {
		t.Errorf("PricePerUnit: got %s", ing.PricePerUnit())
	}
	if err := ing.UpdatePrice(types.Money{}); !errors.Is(err, ingredient.ErrInvalidPrice) {
		t.Errorf("UpdatePrice(unset): expected ErrInvalidPrice, got %v", err)
	}

	if err := ing.UpdateUnit(unit.Pound); err != nil {
		t.Fatalf("UpdateUnit: %v", err)
	}
	if ing.Unit() != unit.Pound {
		t.Errorf("Unit: got %s", ing.Unit())
	}
	if err := ing.UpdateUnit(""); !errors.Is(err, unit.ErrInvalidUnit) {
		t.Errorf("UpdateUnit(\"\"): expected ErrInvalidUnit, got %v", err)
	}
}

func TestCalculateCost(t *testing.T) {
	ing, err := ingredient.New(id.NewIngredientID(), "Flour", types.MustMoney(dec, "2.50"), unit.Kilogram)
	if err != nil {
		t.Fatal(err)
	}

	cost, err := ing.CalculateCost(numeric.MustParse(dec, "0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if !cost.Equal(types.MustMoney(dec, "1.25")) {
		t.Errorf("got %s, want 1.25", cost)
	}
}

func TestClone(t *testing.T) {
	ing, err := ingredient.New(id.NewIngredientID(), "Salt", types.MustMoney(dec, "0.40"), unit.Kilogram)
	if err != nil {
		t.Fatal(err)
	}
	c := ing.Clone()
	if err := c.UpdateName("Sea salt"); err != nil {
		t.Fatal(err)
	}
	if ing.Name() != "Salt" {
		t.Error("clone mutation leaked into original")
	}
}

func TestMarshalJSON(t *testing.T) {
	ing, err := ingredient.New(id.MustOf("ingr-1"), "Milk", types.MustMoney(dec, "1.20"), unit.Liter)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(ing)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["id"] != "ingr-1" || out["name"] != "Milk" || out["unit"] != "LITER" {
		t.Errorf("unexpected JSON: %s", data)
	}
}
