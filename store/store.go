// Package store defines the unified persistence contract for Costify.
package store

import (
	"context"

	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/recipe"
)

// Store is the unified storage interface for all Costify entities.
// Ingredient and recipe method names are prefixed with their aggregate, so
// the sub-interfaces embed without conflicts.
type Store interface {
	ingredient.Store
	recipe.Store

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
