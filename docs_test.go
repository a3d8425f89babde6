package costify_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/costify"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/store/memory"
	"github.com/xraph/costify/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		engine := costify.New(store,
			costify.WithLogger(slog.Default()),
			costify.WithAsyncRecalculation(50, 2*time.Second),
		)

		ctx := context.Background()
		if err := engine.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer engine.Stop()

		flour, err := engine.RegisterIngredient(ctx, costify.RegisterIngredientInput{
			Name:         "Flour",
			PricePerUnit: "2.50",
			Unit:         "KILOGRAM",
		})
		if err != nil {
			t.Fatal(err)
		}

		bread, err := engine.RegisterRecipe(ctx, costify.RegisterRecipeInput{
			Name: "Bread",
			Lines: []costify.LineInput{
				{IngredientID: flour.ID().String(), Quantity: "500", Unit: "GRAM"},
			},
		})
		if err != nil {
			t.Fatal(err)
		}

		cost, err := engine.CalculateRecipeCost(ctx, bread.ID())
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("Bread costs %s\n", cost.TotalCost().Display())
		if got := cost.TotalCost().Display(); got != "1.25" {
			t.Errorf("total: got %s, want 1.25", got)
		}
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		dec := numeric.Default()

		price := types.MustMoney(dec, "3.375")
		_ = price.Display() // "3.38"
		_ = price.String()  // "3.375"

		total := types.Sum(dec, price, types.MustMoney(dec, "1.25"))
		if total.Display() != "4.63" {
			t.Errorf("sum: got %s", total.Display())
		}

		if _, err := price.Subtract(total); err == nil {
			t.Error("money never goes negative")
		}
	})
}
