package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/costify"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	costifystore "github.com/xraph/costify/store"
)

// compile-time interface check
var _ costifystore.Store = (*Store)(nil)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db  *grove.DB
	pg  *pgdriver.PgDB
	dec numeric.Provider
}

// New creates a new PostgreSQL store backed by Grove ORM. Stored decimals are
// parsed with dec, or the default provider when dec is nil.
func New(db *grove.DB, dec numeric.Provider) *Store {
	if dec == nil {
		dec = numeric.Default()
	}
	return &Store{
		db:  db,
		pg:  pgdriver.Unwrap(db),
		dec: dec,
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("costify/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("costify/postgres: %w: %w", costify.ErrMigrationFailed, err)
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
	}
	return err
}

func (s *Store) GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	m := new(ingredientModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", ingredientID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %s", ingredient.ErrNotFound, ingredientID)
		}
		return nil, err
	}
	return fromIngredientModel(m, s.dec)
}

func (s *Store) GetIngredientByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	m := new(ingredientModel)
	err := s.pg.NewSelect(m).
		Where("name = $1", trimName(name)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %q", ingredient.ErrNotFound, trimName(name))
		}
		return nil, err
	}
	return fromIngredientModel(m, s.dec)
}

func (s *Store) ListIngredients(ctx context.Context, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	var models []ingredientModel
	q := s.pg.NewSelect(&models)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", costify.ErrIngredientAlreadyExists, i.Name())
		}
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, i.ID())
	}
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error {
	res, err := s.pg.NewDelete((*ingredientModel)(nil)).
		Where("id = $1", ingredientID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ingredient.ErrNotFound, ingredientID)
	}
	return nil
}

// ==================== Recipe Store ====================

func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m, err := toRecipeModel(r)
	if err != nil {
		return err
	}
	_, err = s.pg.NewInsert(m).Exec(ctx)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
	}
	return err
}

func (s *Store) GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	m := new(recipeModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", recipeID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %s", recipe.ErrNotFound, recipeID)
		}
		return nil, err
	}
	return fromRecipeModel(m, s.dec)
}

func (s *Store) GetRecipeByName(ctx context.Context, name string) (*recipe.Recipe, error) {
	m := new(recipeModel)
	err := s.pg.NewSelect(m).
		Where("name = $1", trimName(name)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %q", recipe.ErrNotFound, trimName(name))
		}
		return nil, err
	}
	return fromRecipeModel(m, s.dec)
}

func (s *Store) ListRecipes(ctx context.Context, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	var models []recipeModel
	q := s.pg.NewSelect(&models)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return s.fromRecipeModels(models)
}

func (s *Store) ListRecipesByIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	operand, err := containsIngredient(ingredientID)
	if err != nil {
		return nil, err
	}

	var models []recipeModel
	err = s.pg.NewSelect(&models).
		Where("lines @> $1::jsonb", operand).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.fromRecipeModels(models)
}

func (s *Store) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	m, err := toRecipeModel(r)
	if err != nil {
		return err
	}
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", costify.ErrRecipeAlreadyExists, r.Name())
		}
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, r.ID())
	}
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error {
	res, err := s.pg.NewDelete((*recipeModel)(nil)).
		Where("id = $1", recipeID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
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

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
