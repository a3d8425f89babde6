// Package costify provides a recipe costing engine for Go applications.
//
// Costify is designed as a library, not a service. It keeps a catalog of
// priced ingredients and recipes, and computes what each recipe costs:
//
//   - Exact decimal arithmetic behind a pluggable numeric.Provider
//   - Weight, volume and count units with conversion inside a category
//   - Per-ingredient cost breakdowns that always sum to the recipe total
//   - Automatic recalculation of recipe totals when an ingredient changes
//   - PostgreSQL, SQLite, MongoDB and in-memory stores
//   - Plugin hooks for auditing and metrics
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/costify"
//	    "github.com/xraph/costify/store/memory"
//	)
//
//	engine := costify.New(memory.New())
//	if err := engine.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Stop()
//
//	flour, err := engine.RegisterIngredient(ctx, costify.RegisterIngredientInput{
//	    Name:         "Flour",
//	    PricePerUnit: "2.50",
//	    Unit:         "KILOGRAM",
//	})
//
//	bread, err := engine.RegisterRecipe(ctx, costify.RegisterRecipeInput{
//	    Name: "Bread",
//	    Lines: []costify.LineInput{
//	        {IngredientID: flour.ID().String(), Quantity: "500", Unit: "GRAM"},
//	    },
//	})
//
//	cost, err := engine.CalculateRecipeCost(ctx, bread.ID())
//	fmt.Println(cost.TotalCost().Display()) // 1.25
//
// # Units
//
// Every unit belongs to one category and converts to the category's base
// unit (GRAM, MILLILITER or PIECE) by a fixed factor. A recipe line can use
// any unit of the same category as the ingredient's price unit; lines in
// another category fail with ErrIncompatibleUnitTypes.
//
// # Money
//
// Money is a non-negative decimal amount. Calculations keep full precision
// and only Display rounds, half-up to two places:
//
//	3.375 -> "3.38"
//
// # TypeID
//
// Entities created by the engine use TypeIDs:
//
//	ingr_01h2xcejqtf2nbrexx3vqjhp41  // Ingredient ID
//	rcp_01h2xcejqtf2nbrexx3vqjhp41   // Recipe ID
package costify
