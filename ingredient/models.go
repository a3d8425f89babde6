package ingredient

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

// MaxNameLength is the maximum ingredient name length in characters.
const MaxNameLength = 255

var (
	ErrInvalidName  = errors.New("ingredient: invalid name")
	ErrInvalidPrice = errors.New("ingredient: invalid price")
	ErrNotFound     = errors.New("ingredient: not found")
)

// Ingredient is a purchasable input priced per one unit of its pricing unit.
type Ingredient struct {
	types.Entity
	id           id.IngredientID
	name         string
	pricePerUnit types.Money
	unit         unit.Unit
}

// New validates its arguments and returns an Ingredient.
func New(ingredientID id.IngredientID, name string, pricePerUnit types.Money, u unit.Unit) (*Ingredient, error) {
	if ingredientID.IsNil() {
		return nil, fmt.Errorf("ingredient: %w", id.ErrEmpty)
	}
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if pricePerUnit.IsNil() {
		return nil, fmt.Errorf("%w: price per unit is required", ErrInvalidPrice)
	}
	if !u.Valid() {
		return nil, fmt.Errorf("ingredient %q: %w: %q", n, unit.ErrInvalidUnit, u)
	}

	return &Ingredient{
		Entity:       types.NewEntity(),
		id:           ingredientID,
		name:         n,
		pricePerUnit: pricePerUnit,
		unit:         u,
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

func (i *Ingredient) ID() id.IngredientID { return i.id }

func (i *Ingredient) Name() string { return i.name }

func (i *Ingredient) PricePerUnit() types.Money { return i.pricePerUnit }

func (i *Ingredient) Unit() unit.Unit { return i.unit }

// UpdateName renames the ingredient.
func (i *Ingredient) UpdateName(name string) error {
	n, err := validateName(name)
	if err != nil {
		return err
	}
	i.name = n
	i.Touch()
	return nil
}

// UpdatePrice replaces the price per unit.
func (i *Ingredient) UpdatePrice(price types.Money) error {
	if price.IsNil() {
		return fmt.Errorf("%w: price per unit is required", ErrInvalidPrice)
	}
	i.pricePerUnit = price
	i.Touch()
	return nil
}

// UpdateUnit replaces the pricing unit.
func (i *Ingredient) UpdateUnit(u unit.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("ingredient %q: %w: %q", i.name, unit.ErrInvalidUnit, u)
	}
	i.unit = u
	i.Touch()
	return nil
}

// CalculateCost returns pricePerUnit * quantity, where quantity is already
// expressed in the ingredient's pricing unit.
func (i *Ingredient) CalculateCost(quantity numeric.Decimal) (types.Money, error) {
	cost, err := i.pricePerUnit.Multiply(quantity)
	if err != nil {
		return types.Money{}, fmt.Errorf("ingredient %s: %w", i.id, err)
	}
	return cost, nil
}

// Clone returns an independent copy.
func (i *Ingredient) Clone() *Ingredient {
	c := *i
	return &c
}

func (i *Ingredient) String() string {
	return fmt.Sprintf("%s (%s per %s)", i.name, i.pricePerUnit, i.unit)
}

// MarshalJSON implements json.Marshaler.
func (i *Ingredient) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		types.Entity
		ID           id.IngredientID `json:"id"`
		Name         string          `json:"name"`
		PricePerUnit types.Money     `json:"price_per_unit"`
		Unit         unit.Unit       `json:"unit"`
	}{
		Entity:       i.Entity,
		ID:           i.id,
		Name:         i.name,
		PricePerUnit: i.pricePerUnit,
		Unit:         i.unit,
	})
}
