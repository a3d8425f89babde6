package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/costify"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/store/memory"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

var dec = numeric.Default()

func newIngredient(t *testing.T, name string) *ingredient.Ingredient {
	t.Helper()
	ing, err := ingredient.New(id.NewIngredientID(), name, types.MustMoney(dec, "2.50"), unit.Kilogram)
	if err != nil {
		t.Fatal(err)
	}
	return ing
}

func newRecipe(t *testing.T, name string, ings ...*ingredient.Ingredient) *recipe.Recipe {
	t.Helper()
	lines := make([]recipe.Line, 0, len(ings))
	for _, ing := range ings {
		l, err := recipe.NewLine(dec, ing.ID(), "100", unit.Gram)
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, l)
	}
	r, err := recipe.New(id.NewRecipeID(), name, lines, types.Zero(dec))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestIngredientCRUD(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	flour := newIngredient(t, "Flour")
	if err := s.CreateIngredient(ctx, flour); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateIngredient(ctx, flour); !errors.Is(err, costify.ErrIngredientAlreadyExists) {
		t.Errorf("duplicate id: got %v", err)
	}
	if err := s.CreateIngredient(ctx, newIngredient(t, "Flour")); !errors.Is(err, costify.ErrIngredientAlreadyExists) {
		t.Errorf("duplicate name: got %v", err)
	}

	got, err := s.GetIngredient(ctx, flour.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "Flour" || !got.PricePerUnit().Equal(flour.PricePerUnit()) {
		t.Errorf("got %s", got)
	}

	byName, err := s.GetIngredientByName(ctx, "  Flour ")
	if err != nil {
		t.Fatal(err)
	}
	if byName.ID() != flour.ID() {
		t.Errorf("by name: got %s", byName.ID())
	}

	if err := got.UpdatePrice(types.MustMoney(dec, "3")); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateIngredient(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := s.GetIngredient(ctx, flour.ID())
	if err != nil {
		t.Fatal(err)
	}
	if again.PricePerUnit().String() != "3" {
		t.Errorf("price: got %s", again.PricePerUnit())
	}

	if err := s.DeleteIngredient(ctx, flour.ID()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetIngredient(ctx, flour.ID()); !errors.Is(err, ingredient.ErrNotFound) {
		t.Errorf("after delete: got %v", err)
	}
	if err := s.DeleteIngredient(ctx, flour.ID()); !errors.Is(err, ingredient.ErrNotFound) {
		t.Errorf("delete missing: got %v", err)
	}
	if err := s.UpdateIngredient(ctx, flour); !errors.Is(err, ingredient.ErrNotFound) {
		t.Errorf("update missing: got %v", err)
	}
}

func TestStoredIngredientsAreIsolated(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	flour := newIngredient(t, "Flour")
	if err := s.CreateIngredient(ctx, flour); err != nil {
		t.Fatal(err)
	}
	if err := flour.UpdateName("Changed"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetIngredient(ctx, flour.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "Flour" {
		t.Errorf("caller mutation leaked into store: %s", got.Name())
	}
}

func TestListIngredientsPaging(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		if err := s.CreateIngredient(ctx, newIngredient(t, n)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		opts ingredient.ListOpts
		want []string
	}{
		{"all", ingredient.ListOpts{}, names},
		{"limit", ingredient.ListOpts{Limit: 2}, []string{"A", "B"}},
		{"offset", ingredient.ListOpts{Offset: 3}, []string{"D", "E"}},
		{"window", ingredient.ListOpts{Offset: 1, Limit: 2}, []string{"B", "C"}},
		{"past end", ingredient.ListOpts{Offset: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListIngredients(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d ingredients, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name() != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, got[i].Name(), tt.want[i])
				}
			}
		})
	}
}

func TestRecipeCRUD(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	flour := newIngredient(t, "Flour")
	salt := newIngredient(t, "Salt")
	bread := newRecipe(t, "Bread", flour, salt)
	pasta := newRecipe(t, "Pasta", flour)

	for _, r := range []*recipe.Recipe{bread, pasta} {
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateRecipe(ctx, newRecipe(t, "Bread", salt)); !errors.Is(err, costify.ErrRecipeAlreadyExists) {
		t.Errorf("duplicate name: got %v", err)
	}

	byFlour, err := s.ListRecipesByIngredient(ctx, flour.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(byFlour) != 2 {
		t.Errorf("recipes using flour: got %d, want 2", len(byFlour))
	}
	bySalt, err := s.ListRecipesByIngredient(ctx, salt.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(bySalt) != 1 || bySalt[0].ID() != bread.ID() {
		t.Errorf("recipes using salt: got %v", bySalt)
	}

	got, err := s.GetRecipe(ctx, bread.ID())
	if err != nil {
		t.Fatal(err)
	}
	got.UpdateTotalCost(types.MustMoney(dec, "0.5"))
	if err := got.UpdateName("Pasta"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateRecipe(ctx, got); !errors.Is(err, costify.ErrRecipeAlreadyExists) {
		t.Errorf("rename onto existing: got %v", err)
	}
	if err := got.UpdateName("Loaf"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateRecipe(ctx, got); err != nil {
		t.Fatal(err)
	}

	loaf, err := s.GetRecipeByName(ctx, "Loaf")
	if err != nil {
		t.Fatal(err)
	}
	if loaf.TotalCost().String() != "0.5" || loaf.LineCount() != 2 {
		t.Errorf("got %s", loaf)
	}

	all, err := s.ListRecipes(ctx, recipe.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID() != bread.ID() {
		t.Errorf("list order: got %v", all)
	}

	if err := s.DeleteRecipe(ctx, bread.ID()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRecipe(ctx, bread.ID()); !errors.Is(err, recipe.ErrNotFound) {
		t.Errorf("after delete: got %v", err)
	}
	if _, err := s.GetRecipeByName(ctx, "Loaf"); !errors.Is(err, recipe.ErrNotFound) {
		t.Errorf("by name after delete: got %v", err)
	}
}

func TestPingAfterClose(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); !errors.Is(err, costify.ErrStoreClosed) {
		t.Errorf("got %v", err)
	}
}
