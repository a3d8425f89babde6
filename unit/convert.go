package unit

import (
	"fmt"

	"github.com/xraph/costify/numeric"
)

// Converter converts quantities between units of the same category using
// decimal arithmetic from an injected numeric.Provider.
type Converter struct {
	factors map[Unit]numeric.Decimal
}

// NewConverter builds a Converter whose factors are parsed by dec.
// It panics if a factor in the static table cannot be parsed, which only
// happens with a broken Provider (programming error).
func NewConverter(dec numeric.Provider) *Converter {
	factors := make(map[Unit]numeric.Decimal, len(table))
	for u, def := range table {
		f, err := dec.Parse(def.factor)
		if err != nil {
			panic(fmt.Sprintf("unit: invalid factor %q for %s: %v", def.factor, u, err))
		}
		factors[u] = f
	}
	return &Converter{factors: factors}
}

// CanConvert reports whether from and to share a base unit.
func (c *Converter) CanConvert(from, to Unit) bool {
	return CanConvert(from, to)
}

// Convert expresses quantity, measured in from, in the unit to:
// quantity * factor(from) / factor(to). Identical units return quantity
// unchanged.
func (c *Converter) Convert(quantity numeric.Decimal, from, to Unit) (numeric.Decimal, error) {
	fromFactor, ok := c.factors[from]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, from)
	}
	toFactor, ok := c.factors[to]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, to)
	}
	if from.Base() != to.Base() {
		return nil, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
			ErrIncompatibleUnits, from, from.Category(), to, to.Category())
	}
	if from == to {
		return quantity, nil
	}
	return quantity.Mul(fromFactor).Div(toFactor)
}
