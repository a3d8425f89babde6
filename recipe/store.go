package recipe

import (
	"context"

	"github.com/xraph/costify/id"
)

// Store persists recipes together with their lines. Lookups that find
// nothing return an error wrapping ErrNotFound.
type Store interface {
	CreateRecipe(ctx context.Context, r *Recipe) error
	GetRecipe(ctx context.Context, recipeID id.RecipeID) (*Recipe, error)
	GetRecipeByName(ctx context.Context, name string) (*Recipe, error)
	ListRecipes(ctx context.Context, opts ListOpts) ([]*Recipe, error)
	ListRecipesByIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*Recipe, error)
	UpdateRecipe(ctx context.Context, r *Recipe) error
	DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error
}

type ListOpts struct {
	Limit  int
	Offset int
}
