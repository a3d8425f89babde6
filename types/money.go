// Package types provides common value types used across Costify.
package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xraph/costify/numeric"
)

var (
	// ErrNegativeAmount is returned when constructing Money from a negative amount.
	ErrNegativeAmount = errors.New("money: amount cannot be negative")

	// ErrNegativeResult is returned when an operation would produce negative Money.
	ErrNegativeResult = errors.New("money: result would be negative")

	// ErrUnset is returned when a zero-value Money is used where an amount is required.
	ErrUnset = errors.New("money: amount is not set")
)

// DisplayPlaces is the number of fractional digits used by Display.
const DisplayPlaces int32 = 2

// Money is a non-negative monetary amount in a single implicit currency.
// Arithmetic is arbitrary-precision decimal; rounding only happens when
// rendering through StringFixed or Display.
//
// Examples:
//   - NewMoney(p, "2.50") = 2.50
//   - NewMoney(p, "-0.01") fails with ErrNegativeAmount
//   - Zero(p).IsZero() == true
type Money struct {
	amount numeric.Decimal
}

// NewMoney parses amount with p and returns it as Money.
func NewMoney(p numeric.Provider, amount string) (Money, error) {
	d, err := p.Parse(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: %w", err)
	}
	return MoneyOf(d)
}

// MustMoney is like NewMoney but panics on error. Use for hardcoded values.
func MustMoney(p numeric.Provider, amount string) Money {
	m, err := NewMoney(p, amount)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// MoneyOf wraps an existing Decimal.
func MoneyOf(amount numeric.Decimal) (Money, error) {
	if amount == nil {
		return Money{}, ErrUnset
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return Money{amount: amount}, nil
}

// Zero returns zero Money created by p.
func Zero(p numeric.Provider) Money { return Money{amount: p.Zero()} }

// Amount returns the underlying decimal amount.
func (m Money) Amount() numeric.Decimal { return m.amount }

// IsNil reports whether m is the zero value with no amount set. Arithmetic
// and comparisons treat such a value as zero; constructors that require a
// price reject it.
func (m Money) IsNil() bool { return m.amount == nil }

// operands returns both amounts with an unset side replaced by zero.
func operands(a, b numeric.Decimal) (numeric.Decimal, numeric.Decimal) {
	switch {
	case a == nil && b == nil:
		z := numeric.Default().Zero()
		return z, z
	case a == nil:
		return b.Sub(b), b
	case b == nil:
		return a, a.Sub(a)
	default:
		return a, b
	}
}

// value returns the amount, or zero when unset.
func (m Money) value() numeric.Decimal {
	if m.amount == nil {
		return numeric.Default().Zero()
	}
	return m.amount
}

// Arithmetic operations

// Add adds two Money values.
func (m Money) Add(other Money) Money {
	a, b := operands(m.amount, other.amount)
	return Money{amount: a.Add(b)}
}

// Subtract subtracts other. Fails with ErrNegativeResult if other is larger.
func (m Money) Subtract(other Money) (Money, error) {
	a, b := operands(m.amount, other.amount)
	result := a.Sub(b)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, a, b)
	}
	return Money{amount: result}, nil
}

// Multiply multiplies the Money by a scalar. Fails with ErrNegativeResult
// for a negative factor.
func (m Money) Multiply(factor numeric.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s * %s", ErrNegativeResult, m.value(), factor)
	}
	return Money{amount: m.value().Mul(factor)}, nil
}

// Divide divides the Money by a scalar. Fails with numeric.ErrDivisionByZero
// for a zero divisor and ErrNegativeResult for a negative one.
func (m Money) Divide(divisor numeric.Decimal) (Money, error) {
	if divisor.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s / %s", ErrNegativeResult, m.value(), divisor)
	}
	q, err := m.value().Div(divisor)
	if err != nil {
		return Money{}, fmt.Errorf("money: %w", err)
	}
	return Money{amount: q}, nil
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.amount == nil || m.amount.IsZero() }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount != nil && m.amount.IsPositive() }

// Equal returns true if both amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	a, b := operands(m.amount, other.amount)
	return a.Equal(b)
}

// Cmp compares two Money values.
func (m Money) Cmp(other Money) int {
	a, b := operands(m.amount, other.amount)
	return a.Cmp(b)
}

// LessThan returns true if this Money is less than other.
func (m Money) LessThan(other Money) bool { return m.Cmp(other) < 0 }

// GreaterThan returns true if this Money is greater than other.
func (m Money) GreaterThan(other Money) bool { return m.Cmp(other) > 0 }

// Formatting methods

// StringFixed renders the amount with exactly places fractional digits,
// rounding half-up. This is the only place display rounding happens.
func (m Money) StringFixed(places int32) string {
	return m.value().StringFixed(places)
}

// Display renders the amount with DisplayPlaces fractional digits.
func (m Money) Display() string { return m.StringFixed(DisplayPlaces) }

// String returns the full-precision amount, or "<nil>" when unset.
func (m Money) String() string {
	if m.amount == nil {
		return "<nil>"
	}
	return m.amount.String()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	if m.amount == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Amount  string `json:"amount"`
		Display string `json:"display"`
	}{
		Amount:  m.amount.String(),
		Display: m.Display(),
	})
}

// Sum adds values starting from Zero(p).
func Sum(p numeric.Provider, values ...Money) Money {
	result := Zero(p)
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
