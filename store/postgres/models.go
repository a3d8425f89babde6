package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// ==================== Ingredient models ====================

type ingredientModel struct {
	grove.BaseModel `grove:"table:costify_ingredients"`

	ID           string    `grove:"id,pk"`
	Name         string    `grove:"name"`
	PricePerUnit string    `grove:"price_per_unit"`
	Unit         string    `grove:"unit"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toIngredientModel(i *ingredient.Ingredient) *ingredientModel {
	return &ingredientModel{
		ID:           i.ID().String(),
		Name:         i.Name(),
		PricePerUnit: i.PricePerUnit().String(),
		Unit:         i.Unit().String(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func fromIngredientModel(m *ingredientModel, dec numeric.Provider) (*ingredient.Ingredient, error) {
	ingredientID, err := id.Of(m.ID)
	if err != nil {
		return nil, err
	}
	price, err := types.NewMoney(dec, m.PricePerUnit)
	if err != nil {
		return nil, fmt.Errorf("ingredient %s: price: %w", m.ID, err)
	}
	u, err := unit.Parse(m.Unit)
	if err != nil {
		return nil, fmt.Errorf("ingredient %s: %w", m.ID, err)
	}

	i, err := ingredient.New(ingredientID, m.Name, price, u)
	if err != nil {
		return nil, err
	}
	i.Entity = types.Entity{
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	return i, nil
}

// ==================== Recipe models ====================

type recipeModel struct {
	grove.BaseModel `grove:"table:costify_recipes"`

	ID        string          `grove:"id,pk"`
	Name      string          `grove:"name"`
	TotalCost string          `grove:"total_cost"`
	Lines     json.RawMessage `grove:"lines,type:jsonb"`
	CreatedAt time.Time       `grove:"created_at"`
	UpdatedAt time.Time       `grove:"updated_at"`
}

type lineModel struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
}

func toRecipeModel(r *recipe.Recipe) (*recipeModel, error) {
	lines := make([]lineModel, 0, r.LineCount())
	for _, l := range r.Lines() {
		lines = append(lines, lineModel{
			IngredientID: l.IngredientID().String(),
			Quantity:     l.Quantity().String(),
			Unit:         l.Unit().String(),
		})
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}

	return &recipeModel{
		ID:        r.ID().String(),
		Name:      r.Name(),
		TotalCost: r.TotalCost().String(),
		Lines:     raw,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func fromRecipeModel(m *recipeModel, dec numeric.Provider) (*recipe.Recipe, error) {
	recipeID, err := id.Of(m.ID)
	if err != nil {
		return nil, err
	}
	total, err := types.NewMoney(dec, m.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: total cost: %w", m.ID, err)
	}

	var stored []lineModel
	if err := json.Unmarshal(m.Lines, &stored); err != nil {
		return nil, fmt.Errorf("recipe %s: lines: %w", m.ID, err)
	}
	lines := make([]recipe.Line, 0, len(stored))
	for _, l := range stored {
		ingredientID, err := id.Of(l.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", m.ID, err)
		}
		u, err := unit.Parse(l.Unit)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", m.ID, err)
		}
		line, err := recipe.NewLine(dec, ingredientID, l.Quantity, u)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", m.ID, err)
		}
		lines = append(lines, line)
	}

	r, err := recipe.New(recipeID, m.Name, lines, total)
	if err != nil {
		return nil, err
	}
	r.Entity = types.Entity{
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	return r, nil
}

// containsIngredient is the jsonb containment operand matching any recipe
// with a line for the ingredient.
func containsIngredient(ingredientID id.IngredientID) (string, error) {
	raw, err := json.Marshal([]map[string]string{{"ingredient_id": ingredientID.String()}})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func trimName(name string) string {
	return strings.TrimSpace(name)
}
