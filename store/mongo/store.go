package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/costify"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	costifystore "github.com/xraph/costify/store"
)

// Collection name constants.
const (
	colIngredients = "costify_ingredients"
	colRecipes     = "costify_recipes"
)

// compile-time interface check
var _ costifystore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
	dec numeric.Provider
}

// New creates a new MongoDB store backed by Grove ORM. Stored decimals are
// parsed with dec, or the default provider when dec is nil.
func New(db *grove.DB, dec numeric.Provider) *Store {
	if dec == nil {
		dec = numeric.Default()
	}
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
		dec: dec,
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all costify collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("costify/mongo: %w: %s indexes: %w", costify.ErrMigrationFailed, col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Ingredient Store ====================

func (s *Store) CreateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	m := toIngredientModel(i)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
		}
		return fmt.Errorf("costify/mongo: create ingredient: %w", err)
	}
	return nil
}

func (s *Store) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	var m ingredientModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": ingredientID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", ingredient.ErrNotFound, ingredientID)
		}
		return nil, fmt.Errorf("costify/mongo: get ingredient: %w", err)
	}
	return fromIngredientModel(&m, s.dec)
}

func (s *Store) GetIngredientByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	var m ingredientModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"name": trimName(name)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %q", ingredient.ErrNotFound, trimName(name))
		}
		return nil, fmt.Errorf("costify/mongo: get ingredient by name: %w", err)
	}
	return fromIngredientModel(&m, s.dec)
}

func (s *Store) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	var models []ingredientModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("costify/mongo: list ingredients: %w", err)
	}

	result := make([]*ingredient.Ingredient, len(models))
	for i := range models {
		ing, err := fromIngredientModel(&models[i], s.dec)
		if err != nil {
			return nil, err
		}
		result[i] = ing
	}
	return result, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	m := toIngredientModel(i)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
		}
		return fmt.Errorf("costify/mongo: update ingredient: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, i.ID())
	}
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	res, err := s.mdb.NewDelete((*ingredientModel)(nil)).
		Filter(bson.M{"_id": ingredientID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("costify/mongo: delete ingredient: %w", err)
	}
	if res.DeletedCount() == 0 {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, ingredientID)
	}
	return nil
}

// ==================== Recipe Store ====================

func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m := toRecipeModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
		}
		return fmt.Errorf("costify/mongo: create recipe: %w", err)
	}
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	var m recipeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": recipeID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", recipe.ErrNotFound, recipeID)
		}
		return nil, fmt.Errorf("costify/mongo: get recipe: %w", err)
	}
	return fromRecipeModel(&m, s.dec)
}

func (s *Store) GetRecipeByName(ctx context.Context, name string) (*recipe.Recipe, error) {
	var m recipeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"name": trimName(name)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %q", recipe.ErrNotFound, trimName(name))
		}
		return nil, fmt.Errorf("costify/mongo: get recipe by name: %w", err)
	}
	return fromRecipeModel(&m, s.dec)
}

func (s *Store) ListRecipes(ctx context.Context, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	var models []recipeModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("costify/mongo: list recipes: %w", err)
	}
	return s.fromRecipeModels(models)
}

func (s *Store) ListRecipesByIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	var models []recipeModel

	err := s.mdb.NewFind(&models).
		Filter(bson.M{"lines.ingredient_id": ingredientID.String()}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("costify/mongo: list recipes by ingredient: %w", err)
	}
	return s.fromRecipeModels(models)
}

func (s *Store) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m := toRecipeModel(r)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
		}
		return fmt.Errorf("costify/mongo: update recipe: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, r.ID())
	}
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	res, err := s.mdb.NewDelete((*recipeModel)(nil)).
		Filter(bson.M{"_id": recipeID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("costify/mongo: delete recipe: %w", err)
	}
	if res.DeletedCount() == 0 {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, recipeID)
	}
	return nil
}

// ==================== Helpers ====================

func (s *Store) fromRecipeModels(models []recipeModel) ([]*recipe.Recipe, error) {
	result := make([]*recipe.Recipe, len(models))
	for i := range models {
		r, err := fromRecipeModel(&models[i], s.dec)
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

// migrationIndexes returns the index definitions for all costify collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colIngredients: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colRecipes: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "lines.ingredient_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
