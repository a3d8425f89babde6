package audithook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xraph/costify"
	audithook "github.com/xraph/costify/audit_hook"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/store/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []*audithook.AuditEvent
}

func (r *recorder) Record(_ context.Context, evt *audithook.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

func (r *recorder) find(action string) *audithook.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Action == action {
			return e
		}
	}
	return nil
}

func setup(t *testing.T, opts ...audithook.Option) (*costify.Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	eng := costify.New(memory.New(), costify.WithPlugin(audithook.New(rec, opts...)))
	if err := eng.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = eng.Stop() })
	return eng, rec
}

func TestAuditTrail(t *testing.T) {
	eng, rec := setup(t)
	ctx := context.Background()

	flour, err := eng.RegisterIngredient(ctx, costify.RegisterIngredientInput{
		Name: "Flour", PricePerUnit: "2.50", Unit: "KILOGRAM",
	})
	if err != nil {
		t.Fatal(err)
	}
	bread, err := eng.RegisterRecipe(ctx, costify.RegisterRecipeInput{
		Name:  "Bread",
		Lines: []costify.LineInput{{IngredientID: flour.ID().String(), Quantity: "500", Unit: "GRAM"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	price := "3.00"
	if _, err := eng.UpdateIngredient(ctx, costify.UpdateIngredientInput{ID: flour.ID().String(), PricePerUnit: &price}); err != nil {
		t.Fatal(err)
	}
	if err := eng.DeleteRecipe(ctx, bread.ID()); err != nil {
		t.Fatal(err)
	}

	want := []string{
		audithook.ActionIngredientRegistered,
		audithook.ActionRecipeRegistered,
		audithook.ActionRecipeCostCalculated,
		audithook.ActionIngredientRepriced,
		audithook.ActionRecipeCostCalculated,
		audithook.ActionRecipesRecalculated,
		audithook.ActionRecipeDeleted,
	}
	got := rec.actions()
	if len(got) != len(want) {
		t.Fatalf("got actions %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d: got %s, want %s", i, got[i], want[i])
		}
	}

	repriced := rec.find(audithook.ActionIngredientRepriced)
	if repriced.Resource != audithook.ResourceIngredient || repriced.ResourceID != flour.ID().String() {
		t.Errorf("repriced event: %+v", repriced)
	}
	if repriced.Metadata["old_price_per_unit"] != "2.5" || repriced.Metadata["new_price_per_unit"] != "3" {
		t.Errorf("repriced metadata: %v", repriced.Metadata)
	}

	recalc := rec.find(audithook.ActionRecipesRecalculated)
	if recalc.Metadata["recipes"] != 1 {
		t.Errorf("recalculated metadata: %v", recalc.Metadata)
	}
}

func TestAuditRenameIsNotRepricing(t *testing.T) {
	eng, rec := setup(t)
	ctx := context.Background()

	flour, err := eng.RegisterIngredient(ctx, costify.RegisterIngredientInput{
		Name: "Flour", PricePerUnit: "2.50", Unit: "KILOGRAM",
	})
	if err != nil {
		t.Fatal(err)
	}
	name := "Bread Flour"
	if _, err := eng.UpdateIngredient(ctx, costify.UpdateIngredientInput{ID: flour.ID().String(), Name: &name}); err != nil {
		t.Fatal(err)
	}

	if rec.find(audithook.ActionIngredientUpdated) == nil {
		t.Error("expected ingredient.updated")
	}
	if rec.find(audithook.ActionIngredientRepriced) != nil {
		t.Error("rename must not be recorded as a repricing")
	}
}

func TestAuditFailedCalculation(t *testing.T) {
	rec := &recorder{}
	ext := audithook.New(rec)

	if err := ext.OnCostCalculationFailed(context.Background(), id.NewRecipeID(), errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	evt := rec.find(audithook.ActionRecipeCostFailed)
	if evt == nil {
		t.Fatal("expected recipe.cost_failed")
	}
	if evt.Outcome != audithook.OutcomeFailure || evt.Severity != audithook.SeverityError || evt.Reason != "boom" {
		t.Errorf("got %+v", evt)
	}
}

func TestEnabledActions(t *testing.T) {
	tests := []struct {
		name string
		opts []audithook.Option
		want []string
	}{
		{
			name: "only recipes",
			opts: []audithook.Option{audithook.WithEnabledActions(audithook.ActionRecipeRegistered)},
			want: []string{audithook.ActionRecipeRegistered},
		},
		{
			name: "skip costing",
			opts: []audithook.Option{audithook.WithDisabledActions(audithook.ActionRecipeCostCalculated)},
			want: []string{audithook.ActionIngredientRegistered, audithook.ActionRecipeRegistered},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, rec := setup(t, tt.opts...)
			ctx := context.Background()

			flour, err := eng.RegisterIngredient(ctx, costify.RegisterIngredientInput{
				Name: "Flour", PricePerUnit: "2.50", Unit: "KILOGRAM",
			})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := eng.RegisterRecipe(ctx, costify.RegisterRecipeInput{
				Name:  "Bread",
				Lines: []costify.LineInput{{IngredientID: flour.ID().String(), Quantity: "1", Unit: "KILOGRAM"}},
			}); err != nil {
				t.Fatal(err)
			}

			got := rec.actions()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("action %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
