package numeric_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/xraph/costify/numeric"
)

func TestParse(t *testing.T) {
	p := numeric.Default()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"integer", "42", "42", false},
		{"fraction", "2.50", "2.5", false},
		{"negative", "-0.01", "-0.01", false},
		{"padded", "  1.75 ", "1.75", false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"garbage", "abc", "", true},
		{"double dot", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, numeric.ErrInvalidNumber) {
					t.Fatalf("expected ErrInvalidNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	p := numeric.Default()
	a := numeric.MustParse(p, "2.50")
	b := numeric.MustParse(p, "0.5")

	if got := a.Add(b).String(); got != "3" {
		t.Errorf("Add: got %s", got)
	}
	if got := a.Sub(b).String(); got != "2" {
		t.Errorf("Sub: got %s", got)
	}
	if got := a.Mul(b).String(); got != "1.25" {
		t.Errorf("Mul: got %s", got)
	}

	q, err := a.Div(b)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !q.Equal(p.FromInt(5)) {
		t.Errorf("Div: got %s, want 5", q)
	}
}

func TestDivisionByZero(t *testing.T) {
	p := numeric.Default()
	_, err := p.FromInt(1).Div(numeric.MustParse(p, "0"))
	if !errors.Is(err, numeric.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestDivisionPrecision(t *testing.T) {
	p := numeric.NewShopspring(numeric.WithDivisionPrecision(4))
	q, err := p.FromInt(1).Div(p.FromInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if q.String() != "0.3333" {
		t.Errorf("got %s, want 0.3333", q)
	}
}

func TestStringFixedHalfUp(t *testing.T) {
	p := numeric.Default()
	tests := []struct {
		input  string
		places int32
		want   string
	}{
		{"3.375", 2, "3.38"},
		{"1.25", 2, "1.25"},
		{"0.005", 2, "0.01"},
		{"0.004", 2, "0.00"},
		{"10", 2, "10.00"},
		{"2.345", 1, "2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := numeric.MustParse(p, tt.input).StringFixed(tt.places)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	p := numeric.Default()
	if !p.Zero().IsZero() {
		t.Error("zero should be zero")
	}
	if !numeric.MustParse(p, "-1").IsNegative() {
		t.Error("-1 should be negative")
	}
	if !numeric.MustParse(p, "0.0001").IsPositive() {
		t.Error("0.0001 should be positive")
	}
	if numeric.MustParse(p, "1.50").Cmp(numeric.MustParse(p, "1.5")) != 0 {
		t.Error("1.50 and 1.5 should compare equal")
	}
	if p.Zero().Equal(nil) {
		t.Error("Equal(nil) should be false")
	}
}

func TestSum(t *testing.T) {
	p := numeric.Default()
	got := numeric.Sum(p, p.FromInt(1), numeric.MustParse(p, "0.25"), numeric.MustParse(p, "0.125"))
	if got.String() != "1.375" {
		t.Errorf("got %s", got)
	}
	if !numeric.Sum(p).IsZero() {
		t.Error("empty sum should be zero")
	}
}

func TestAddSubInverse(t *testing.T) {
	p := numeric.Default()
	rapid.Check(t, func(t *rapid.T) {
		a := p.FromInt(rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "a"))
		b := p.FromInt(rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "b"))
		if !a.Add(b).Sub(b).Equal(a) {
			t.Fatalf("(%s + %s) - %s != %s", a, b, b, a)
		}
	})
}
