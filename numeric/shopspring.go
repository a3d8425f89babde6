package numeric

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDivisionPrecision is the number of fractional digits kept by Div
// when no other precision is configured.
const DefaultDivisionPrecision int32 = 28

// ShopspringOption configures the shopspring-backed provider.
type ShopspringOption func(*shopspringProvider)

// WithDivisionPrecision sets the number of fractional digits kept by Div.
func WithDivisionPrecision(places int32) ShopspringOption {
	return func(p *shopspringProvider) {
		if places > 0 {
			p.divPrecision = places
		}
	}
}

type shopspringProvider struct {
	divPrecision int32
}

// NewShopspring returns a Provider backed by github.com/shopspring/decimal.
func NewShopspring(opts ...ShopspringOption) Provider {
	p := &shopspringProvider{divPrecision: DefaultDivisionPrecision}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultProvider = NewShopspring()

// Default returns the shared shopspring-backed Provider with default precision.
func Default() Provider { return defaultProvider }

func (p *shopspringProvider) Parse(value string) (Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return p.wrap(d), nil
}

func (p *shopspringProvider) FromInt(v int64) Decimal {
	return p.wrap(decimal.NewFromInt(v))
}

func (p *shopspringProvider) Zero() Decimal {
	return p.wrap(decimal.Zero)
}

func (p *shopspringProvider) wrap(d decimal.Decimal) shopspringDecimal {
	return shopspringDecimal{d: d, divPrecision: p.divPrecision}
}

type shopspringDecimal struct {
	d            decimal.Decimal
	divPrecision int32
}

// unwrap converts any Decimal into a shopspring value. Foreign
// implementations round-trip through their string form.
func unwrap(other Decimal) decimal.Decimal {
	if v, ok := other.(shopspringDecimal); ok {
		return v.d
	}
	return decimal.RequireFromString(other.String())
}

func (v shopspringDecimal) with(d decimal.Decimal) shopspringDecimal {
	return shopspringDecimal{d: d, divPrecision: v.divPrecision}
}

func (v shopspringDecimal) Add(other Decimal) Decimal { return v.with(v.d.Add(unwrap(other))) }

func (v shopspringDecimal) Sub(other Decimal) Decimal { return v.with(v.d.Sub(unwrap(other))) }

func (v shopspringDecimal) Mul(other Decimal) Decimal { return v.with(v.d.Mul(unwrap(other))) }

func (v shopspringDecimal) Div(other Decimal) (Decimal, error) {
	divisor := unwrap(other)
	if divisor.IsZero() {
		return nil, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, v.d.String())
	}
	return v.with(v.d.DivRound(divisor, v.divPrecision)), nil
}

func (v shopspringDecimal) Cmp(other Decimal) int { return v.d.Cmp(unwrap(other)) }

func (v shopspringDecimal) Equal(other Decimal) bool {
	if other == nil {
		return false
	}
	return v.d.Equal(unwrap(other))
}

func (v shopspringDecimal) IsZero() bool { return v.d.IsZero() }

func (v shopspringDecimal) IsNegative() bool { return v.d.IsNegative() }

func (v shopspringDecimal) IsPositive() bool { return v.d.IsPositive() }

// StringFixed rounds half away from zero, which is half-up for the
// non-negative amounts Costify displays.
func (v shopspringDecimal) StringFixed(places int32) string { return v.d.StringFixed(places) }

func (v shopspringDecimal) String() string { return v.d.String() }
