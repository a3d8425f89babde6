package ingredient

import (
	"context"

	"github.com/xraph/costify/id"
)

// Store persists ingredients. Lookups that find nothing return an error
// wrapping ErrNotFound.
type Store interface {
	CreateIngredient(ctx context.Context, i *Ingredient) error
	GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*Ingredient, error)
	GetIngredientByName(ctx context.Context, name string) (*Ingredient, error)
	ListIngredients(ctx context.Context, opts ListOpts) ([]*Ingredient, error)
	UpdateIngredient(ctx context.Context, i *Ingredient) error
	DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error
}

type ListOpts struct {
	Limit  int
	Offset int
}
