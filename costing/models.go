package costing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xraph/costify/id"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

var (
	ErrIngredientNotFound    = errors.New("costing: ingredient not found")
	ErrIncompatibleUnitTypes = errors.New("costing: incompatible unit types")
	ErrInvariantViolation    = errors.New("costing: total does not match sum of ingredient costs")
	ErrNoIngredientCosts     = errors.New("costing: at least one ingredient cost is required")
	ErrInvalidIngredientCost = errors.New("costing: invalid ingredient cost")
)

// IngredientCost is an immutable snapshot of the cost contributed by one
// recipe line: the ingredient's price at calculation time, the quantity
// expressed in the ingredient's pricing unit and the resulting line total.
type IngredientCost struct {
	ingredientID   id.IngredientID
	ingredientName string
	unitPrice      types.Money
	unit           unit.Unit
	quantity       numeric.Decimal
	totalCost      types.Money
}

// NewIngredientCost validates and returns an IngredientCost.
func NewIngredientCost(
	ingredientID id.IngredientID,
	ingredientName string,
	unitPrice types.Money,
	u unit.Unit,
	quantity numeric.Decimal,
	totalCost types.Money,
) (IngredientCost, error) {
	switch {
	case ingredientID.IsNil():
		return IngredientCost{}, fmt.Errorf("%w: %w", ErrInvalidIngredientCost, id.ErrEmpty)
	case ingredientName == "":
		return IngredientCost{}, fmt.Errorf("%w: ingredient %s has no name", ErrInvalidIngredientCost, ingredientID)
	case unitPrice.IsNil() || totalCost.IsNil():
		return IngredientCost{}, fmt.Errorf("%w: ingredient %s: %w", ErrInvalidIngredientCost, ingredientID, types.ErrUnset)
	case quantity == nil || quantity.IsNegative():
		return IngredientCost{}, fmt.Errorf("%w: ingredient %s has quantity %v", ErrInvalidIngredientCost, ingredientID, quantity)
	case !u.Valid():
		return IngredientCost{}, fmt.Errorf("%w: ingredient %s: %w", ErrInvalidIngredientCost, ingredientID, unit.ErrInvalidUnit)
	}

	return IngredientCost{
		ingredientID:   ingredientID,
		ingredientName: ingredientName,
		unitPrice:      unitPrice,
		unit:           u,
		quantity:       quantity,
		totalCost:      totalCost,
	}, nil
}

func (c IngredientCost) IngredientID() id.IngredientID { return c.ingredientID }

func (c IngredientCost) IngredientName() string { return c.ingredientName }

func (c IngredientCost) UnitPrice() types.Money { return c.unitPrice }

func (c IngredientCost) Unit() unit.Unit { return c.unit }

// Quantity is the line quantity converted into Unit.
func (c IngredientCost) Quantity() numeric.Decimal { return c.quantity }

func (c IngredientCost) TotalCost() types.Money { return c.totalCost }

func (c IngredientCost) String() string {
	return fmt.Sprintf("%s: %s %s x %s = %s", c.ingredientName, c.quantity, c.unit, c.unitPrice, c.totalCost)
}

// MarshalJSON implements json.Marshaler.
func (c IngredientCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IngredientID   id.IngredientID `json:"ingredient_id"`
		IngredientName string          `json:"ingredient_name"`
		UnitPrice      types.Money     `json:"unit_price"`
		Unit           unit.Unit       `json:"unit"`
		Quantity       string          `json:"quantity"`
		TotalCost      types.Money     `json:"total_cost"`
	}{
		IngredientID:   c.ingredientID,
		IngredientName: c.ingredientName,
		UnitPrice:      c.unitPrice,
		Unit:           c.unit,
		Quantity:       c.quantity.String(),
		TotalCost:      c.totalCost,
	})
}

// RecipeCost is the immutable result of a calculation: a total and the
// per-ingredient breakdown it was summed from, in recipe line order.
type RecipeCost struct {
	totalCost       types.Money
	ingredientCosts []IngredientCost
}

// NewRecipeCost returns a RecipeCost after verifying that total equals the
// exact sum of the ingredient line totals.
func NewRecipeCost(total types.Money, costs []IngredientCost) (*RecipeCost, error) {
	if total.IsNil() {
		return nil, fmt.Errorf("costing: total: %w", types.ErrUnset)
	}
	if len(costs) == 0 {
		return nil, ErrNoIngredientCosts
	}

	sum := costs[0].totalCost
	for _, c := range costs[1:] {
		sum = sum.Add(c.totalCost)
	}
	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: total %s, sum %s", ErrInvariantViolation, total, sum)
	}

	out := make([]IngredientCost, len(costs))
	copy(out, costs)
	return &RecipeCost{totalCost: total, ingredientCosts: out}, nil
}

func (r *RecipeCost) TotalCost() types.Money { return r.totalCost }

// IngredientCosts returns a copy of the breakdown in recipe line order.
func (r *RecipeCost) IngredientCosts() []IngredientCost {
	out := make([]IngredientCost, len(r.ingredientCosts))
	copy(out, r.ingredientCosts)
	return out
}

// IngredientCost returns the breakdown entry for ingredientID.
func (r *RecipeCost) IngredientCost(ingredientID id.IngredientID) (IngredientCost, bool) {
	for _, c := range r.ingredientCosts {
		if c.ingredientID == ingredientID {
			return c, true
		}
	}
	return IngredientCost{}, false
}

// Len returns the number of breakdown entries.
func (r *RecipeCost) Len() int { return len(r.ingredientCosts) }

func (r *RecipeCost) String() string {
	return fmt.Sprintf("total %s over %d ingredients", r.totalCost, len(r.ingredientCosts))
}

// MarshalJSON implements json.Marshaler.
func (r *RecipeCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalCost       types.Money      `json:"total_cost"`
		IngredientCosts []IngredientCost `json:"ingredient_costs"`
	}{
		TotalCost:       r.totalCost,
		IngredientCosts: r.ingredientCosts,
	})
}
