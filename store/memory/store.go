// Package memory provides an in-memory store for tests and prototyping.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xraph/costify"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps entities in maps guarded by a single RWMutex. Entities are
// cloned on the way in and out, so callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	closed bool

	// Ingredient storage
	ingredients     map[string]*ingredient.Ingredient
	ingredientOrder []string

	// Recipe storage
	recipes     map[string]*recipe.Recipe
	recipeOrder []string
}

func New() *Store {
	return &Store{
		ingredients: make(map[string]*ingredient.Ingredient),
		recipes:     make(map[string]*recipe.Recipe),
	}
}

// ──────────────────────────────────────────────────
// Ingredient Store implementation
// ──────────────────────────────────────────────────

func (s *Store) CreateIngredient(_ context.Context, i *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := i.ID().String()
	if _, exists := s.ingredients[key]; exists {
		return fmt.Errorf("%w: id %s", costify.ErrIngredientAlreadyExists, key)
	}
	if s.ingredientNamedLocked(i.Name()) != nil {
		return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
	}

	s.ingredients[key] = i.Clone()
	s.ingredientOrder = append(s.ingredientOrder, key)
	return nil
}

func (s *Store) GetIngredient(_ context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.ingredients[ingredientID.String()]; ok {
		return i.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ingredient.ErrNotFound, ingredientID)
}

func (s *Store) GetIngredientByName(_ context.Context, name string) (*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.ingredientNamedLocked(name); i != nil {
		return i.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ingredient.ErrNotFound, strings.TrimSpace(name))
}

func (s *Store) ListIngredients(_ context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := window(len(s.ingredientOrder), opts.Offset, opts.Limit)
	result := make([]*ingredient.Ingredient, 0, end-start)
	for _, key := range s.ingredientOrder[start:end] {
		result = append(result, s.ingredients[key].Clone())
	}
	return result, nil
}

func (s *Store) UpdateIngredient(_ context.Context, i *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := i.ID().String()
	if _, exists := s.ingredients[key]; !exists {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, key)
	}
	if other := s.ingredientNamedLocked(i.Name()); other != nil && other.ID() != i.ID() {
		return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
	}

	s.ingredients[key] = i.Clone()
	return nil
}

func (s *Store) DeleteIngredient(_ context.Context, ingredientID id.IngredientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ingredientID.String()
	if _, exists := s.ingredients[key]; !exists {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, key)
	}
	delete(s.ingredients, key)
	s.ingredientOrder = removeKey(s.ingredientOrder, key)
	return nil
}

func (s *Store) ingredientNamedLocked(name string) *ingredient.Ingredient {
	n := strings.TrimSpace(name)
	for _, key := range s.ingredientOrder {
		if i := s.ingredients[key]; i.Name() == n {
			return i
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Recipe Store implementation
// ──────────────────────────────────────────────────

func (s *Store) CreateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.ID().String()
	if _, exists := s.recipes[key]; exists {
		return fmt.Errorf("%w: id %s", costify.ErrRecipeAlreadyExists, key)
	}
	if s.recipeNamedLocked(r.Name()) != nil {
		return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
	}

	s.recipes[key] = r.Clone()
	s.recipeOrder = append(s.recipeOrder, key)
	return nil
}

func (s *Store) GetRecipe(_ context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.recipes[recipeID.String()]; ok {
		return r.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", recipe.ErrNotFound, recipeID)
}

func (s *Store) GetRecipeByName(_ context.Context, name string) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := s.recipeNamedLocked(name); r != nil {
		return r.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", recipe.ErrNotFound, strings.TrimSpace(name))
}

func (s *Store) ListRecipes(_ context.Context, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := window(len(s.recipeOrder), opts.Offset, opts.Limit)
	result := make([]*recipe.Recipe, 0, end-start)
	for _, key := range s.recipeOrder[start:end] {
		result = append(result, s.recipes[key].Clone())
	}
	return result, nil
}

func (s *Store) ListRecipesByIngredient(_ context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*recipe.Recipe, 0)
	for _, key := range s.recipeOrder {
		if r := s.recipes[key]; r.HasIngredient(ingredientID) {
			result = append(result, r.Clone())
		}
	}
	return result, nil
}

func (s *Store) UpdateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.ID().String()
	if _, exists := s.recipes[key]; !exists {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, key)
	}
	if other := s.recipeNamedLocked(r.Name()); other != nil && other.ID() != r.ID() {
		return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
	}

	s.recipes[key] = r.Clone()
	return nil
}

func (s *Store) DeleteRecipe(_ context.Context, recipeID id.RecipeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recipeID.String()
	if _, exists := s.recipes[key]; !exists {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, key)
	}
	delete(s.recipes, key)
	s.recipeOrder = removeKey(s.recipeOrder, key)
	return nil
}

func (s *Store) recipeNamedLocked(name string) *recipe.Recipe {
	n := strings.TrimSpace(name)
	for _, key := range s.recipeOrder {
		if r := s.recipes[key]; r.Name() == n {
			return r
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Core methods
// ──────────────────────────────────────────────────

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

// Ping reports ErrStoreClosed once Close has been called.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return costify.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// window clamps offset and limit to a slice of length n. A zero limit
// means no limit.
func window(n, offset, limit int) (start, end int) {
	start = offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end = start + limit
	if limit <= 0 || end > n {
		end = n
	}
	return start, end
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
