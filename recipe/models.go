package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// MaxNameLength is the maximum recipe name length in characters.
const MaxNameLength = 255

var (
	ErrInvalidName           = errors.New("recipe: invalid name")
	ErrInvalidQuantity       = errors.New("recipe: quantity must be positive")
	ErrEmptyRecipe           = errors.New("recipe: must contain at least one ingredient")
	ErrDuplicateIngredient   = errors.New("recipe: duplicate ingredient")
	ErrIngredientNotInRecipe = errors.New("recipe: ingredient not in recipe")
	ErrNotFound              = errors.New("recipe: not found")
)

// Line is one ingredient usage in a recipe: a strictly positive quantity
// measured in unit. It references the ingredient by identifier only.
type Line struct {
	ingredientID id.IngredientID
	quantity     numeric.Decimal
	unit         unit.Unit
}

// NewLine parses quantity with dec and returns a validated Line.
func NewLine(dec numeric.Provider, ingredientID id.IngredientID, quantity string, u unit.Unit) (Line, error) {
	q, err := dec.Parse(quantity)
	if err != nil {
		return Line{}, fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	}
	return LineOf(ingredientID, q, u)
}

// LineOf returns a validated Line for an already-parsed quantity.
func LineOf(ingredientID id.IngredientID, quantity numeric.Decimal, u unit.Unit) (Line, error) {
	if ingredientID.IsNil() {
		return Line{}, fmt.Errorf("recipe line: %w", id.ErrEmpty)
	}
	if quantity == nil || !quantity.IsPositive() {
		return Line{}, fmt.Errorf("%w: ingredient %s has quantity %v", ErrInvalidQuantity, ingredientID, quantity)
	}
	if !u.Valid() {
		return Line{}, fmt.Errorf("recipe line %s: %w: %q", ingredientID, unit.ErrInvalidUnit, u)
	}
	return Line{ingredientID: ingredientID, quantity: quantity, unit: u}, nil
}

func (l Line) IngredientID() id.IngredientID { return l.ingredientID }

func (l Line) Quantity() numeric.Decimal { return l.quantity }

func (l Line) Unit() unit.Unit { return l.unit }

// Equal reports whether two lines reference the same ingredient with the
// same quantity and unit.
func (l Line) Equal(other Line) bool {
	return l.ingredientID == other.ingredientID &&
		l.unit == other.unit &&
		l.quantity.Equal(other.quantity)
}

func (l Line) String() string {
	return fmt.Sprintf("%s %s of %s", l.quantity, l.unit, l.ingredientID)
}

type lineJSON struct {
	IngredientID id.IngredientID `json:"ingredient_id"`
	Quantity     string          `json:"quantity"`
	Unit         unit.Unit       `json:"unit"`
}

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		IngredientID: l.ingredientID,
		Quantity:     l.quantity.String(),
		Unit:         l.unit,
	})
}

// Recipe is an ordered set of ingredient lines with a cached total cost.
// The total is only as fresh as the last calculation written into it.
type Recipe struct {
	types.Entity
	id        id.RecipeID
	name      string
	lines     []Line
	totalCost types.Money
}

// New validates its arguments and returns a Recipe. The lines slice is
// copied.
func New(recipeID id.RecipeID, name string, lines []Line, totalCost types.Money) (*Recipe, error) {
	if recipeID.IsNil() {
		return nil, fmt.Errorf("recipe: %w", id.ErrEmpty)
	}
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := validateLines(lines); err != nil {
		return nil, fmt.Errorf("recipe %q: %w", n, err)
	}
	if totalCost.IsNil() {
		return nil, fmt.Errorf("recipe %q: total cost: %w", n, types.ErrUnset)
	}

	return &Recipe{
		Entity:    types.NewEntity(),
		id:        recipeID,
		name:      n,
		lines:     cloneLines(lines),
		totalCost: totalCost,
	}, nil
}

func validateName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(n) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}
	return n, nil
}

func validateLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrEmptyRecipe
	}
	seen := make(map[id.IngredientID]struct{}, len(lines))
	for _, l := range lines {
		if l.ingredientID.IsNil() {
			return fmt.Errorf("line: %w", id.ErrEmpty)
		}
		if l.quantity == nil || !l.quantity.IsPositive() {
			return fmt.Errorf("%w: ingredient %s", ErrInvalidQuantity, l.ingredientID)
		}
		if !l.unit.Valid() {
			return fmt.Errorf("line %s: %w: %q", l.ingredientID, unit.ErrInvalidUnit, l.unit)
		}
		if _, dup := seen[l.ingredientID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateIngredient, l.ingredientID)
		}
		seen[l.ingredientID] = struct{}{}
	}
	return nil
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func (r *Recipe) ID() id.RecipeID { return r.id }

func (r *Recipe) Name() string { return r.name }

func (r *Recipe) TotalCost() types.Money { return r.totalCost }

// Lines returns a copy of the recipe lines in insertion order.
func (r *Recipe) Lines() []Line { return cloneLines(r.lines) }

// LineCount returns the number of lines.
func (r *Recipe) LineCount() int { return len(r.lines) }

// IngredientIDs returns the referenced ingredient identifiers in line order.
func (r *Recipe) IngredientIDs() []id.IngredientID {
	out := make([]id.IngredientID, len(r.lines))
	for i, l := range r.lines {
		out[i] = l.ingredientID
	}
	return out
}

// HasIngredient reports whether a line references ingredientID.
func (r *Recipe) HasIngredient(ingredientID id.IngredientID) bool {
	return r.indexOf(ingredientID) >= 0
}

// Line returns the line referencing ingredientID.
func (r *Recipe) Line(ingredientID id.IngredientID) (Line, bool) {
	i := r.indexOf(ingredientID)
	if i < 0 {
		return Line{}, false
	}
	return r.lines[i], true
}

func (r *Recipe) indexOf(ingredientID id.IngredientID) int {
	for i, l := range r.lines {
		if l.ingredientID == ingredientID {
			return i
		}
	}
	return -1
}

// UpdateName renames the recipe.
func (r *Recipe) UpdateName(name string) error {
	n, err := validateName(name)
	if err != nil {
		return err
	}
	r.name = n
	r.Touch()
	return nil
}

// AddIngredient appends a line. Fails if the ingredient is already present.
func (r *Recipe) AddIngredient(line Line) error {
	if err := validateLines([]Line{line}); err != nil {
		return err
	}
	if r.HasIngredient(line.ingredientID) {
		return fmt.Errorf("%w: %s", ErrDuplicateIngredient, line.ingredientID)
	}
	r.lines = append(r.lines, line)
	r.Touch()
	return nil
}

// RemoveIngredient removes the line referencing ingredientID. It fails
// without mutating the recipe if the ingredient is absent or is the last
// remaining line.
func (r *Recipe) RemoveIngredient(ingredientID id.IngredientID) error {
	i := r.indexOf(ingredientID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrIngredientNotInRecipe, ingredientID)
	}
	if len(r.lines) == 1 {
		return fmt.Errorf("%w: cannot remove last ingredient %s", ErrEmptyRecipe, ingredientID)
	}
	lines := make([]Line, 0, len(r.lines)-1)
	lines = append(lines, r.lines[:i]...)
	lines = append(lines, r.lines[i+1:]...)
	r.lines = lines
	r.Touch()
	return nil
}

// UpdateIngredientQuantity replaces the quantity of the line referencing
// ingredientID, keeping its position and unit.
func (r *Recipe) UpdateIngredientQuantity(ingredientID id.IngredientID, quantity numeric.Decimal) error {
	i := r.indexOf(ingredientID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrIngredientNotInRecipe, ingredientID)
	}
	line, err := LineOf(ingredientID, quantity, r.lines[i].unit)
	if err != nil {
		return err
	}
	lines := cloneLines(r.lines)
	lines[i] = line
	r.lines = lines
	r.Touch()
	return nil
}

// ReplaceLines swaps the whole line set, validated as in New.
func (r *Recipe) ReplaceLines(lines []Line) error {
	if err := validateLines(lines); err != nil {
		return fmt.Errorf("recipe %q: %w", r.name, err)
	}
	r.lines = cloneLines(lines)
	r.Touch()
	return nil
}

// UpdateTotalCost overwrites the cached total cost.
func (r *Recipe) UpdateTotalCost(total types.Money) {
	r.totalCost = total
	r.Touch()
}

// Clone returns an independent copy.
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.lines = cloneLines(r.lines)
	return &c
}

func (r *Recipe) String() string {
	return fmt.Sprintf("%s (%d ingredients, total %s)", r.name, len(r.lines), r.totalCost)
}

// MarshalJSON implements json.Marshaler.
func (r *Recipe) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		types.Entity
		ID        id.RecipeID `json:"id"`
		Name      string      `json:"name"`
		Lines     []Line      `json:"lines"`
		TotalCost types.Money `json:"total_cost"`
	}{
		Entity:    r.Entity,
		ID:        r.id,
		Name:      r.name,
		Lines:     r.lines,
		TotalCost: r.totalCost,
	})
}
