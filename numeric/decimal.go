// Package numeric defines the arbitrary-precision decimal abstraction used for
// every monetary and quantity computation in Costify.
//
// Binary floating point is never used. Callers obtain values through a
// Provider, which is injected explicitly into every factory that needs to
// create numbers (money, recipe lines, unit converters, stores).
package numeric

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero is returned when dividing by a zero Decimal.
	ErrDivisionByZero = errors.New("numeric: division by zero")

	// ErrInvalidNumber is returned when a string cannot be parsed as a decimal.
	ErrInvalidNumber = errors.New("numeric: invalid number")
)

// Decimal is an immutable arbitrary-precision decimal number.
//
// Add, Sub and Mul are exact. Div keeps the precision configured on the
// Provider that created the receiver.
type Decimal interface {
	Add(other Decimal) Decimal
	Sub(other Decimal) Decimal
	Mul(other Decimal) Decimal
	Div(other Decimal) (Decimal, error)

	// Cmp returns -1, 0 or +1 depending on whether the receiver is less than,
	// equal to or greater than other.
	Cmp(other Decimal) int
	Equal(other Decimal) bool

	IsZero() bool
	IsNegative() bool
	IsPositive() bool

	// StringFixed renders the value with exactly places fractional digits,
	// rounding half-up on the discarded digits.
	StringFixed(places int32) string

	// String renders the value at full precision without trailing zeros.
	String() string
}

// Provider creates Decimal values.
type Provider interface {
	// Parse parses a base-10 string such as "2.50" or "-0.01".
	Parse(value string) (Decimal, error)

	// FromInt returns the Decimal equal to v.
	FromInt(v int64) Decimal

	// Zero returns the additive identity.
	Zero() Decimal
}

// MustParse is like Provider.Parse but panics on error. Use for hardcoded
// literals only.
func MustParse(p Provider, value string) Decimal {
	d, err := p.Parse(value)
	if err != nil {
		panic(fmt.Sprintf("numeric: must parse %q: %v", value, err))
	}
	return d
}

// Sum adds values starting from p.Zero().
func Sum(p Provider, values ...Decimal) Decimal {
	total := p.Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
