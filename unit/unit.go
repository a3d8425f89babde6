// Package unit defines the closed set of measurement units and the static
// conversion table that relates each unit to its base unit.
//
// Every unit belongs to exactly one category, derived from its base unit:
// weight (GRAM), volume (MILLILITER) or count (PIECE). Factors are exact
// decimal strings; they are evaluated through a numeric.Provider by the
// Converter, never as binary floating point.
package unit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidUnit is returned for unknown unit tokens.
	ErrInvalidUnit = errors.New("unit: invalid unit")

	// ErrIncompatibleUnits is returned when converting across categories.
	ErrIncompatibleUnits = errors.New("unit: incompatible units")
)

// Unit is a canonical unit name.
type Unit string

// Weight units (base GRAM).
const (
	Gram             Unit = "GRAM"
	Kilogram         Unit = "KILOGRAM"
	Ounce            Unit = "OUNCE"
	Pound            Unit = "POUND"
	TablespoonButter Unit = "TBSP_BUTTER" // tablespoon of butter, measured by weight
)

// Volume units (base MILLILITER).
const (
	Milliliter Unit = "MILLILITER"
	Liter      Unit = "LITER"
	Teaspoon   Unit = "TEASPOON"
	Tablespoon Unit = "TABLESPOON"
	Cup        Unit = "CUP"
)

// Count units (base PIECE).
const (
	Piece Unit = "PIECE"
)

// Category groups units that can be converted into one another.
type Category string

// Unit categories.
const (
	CategoryWeight Category = "weight"
	CategoryVolume Category = "volume"
	CategoryCount  Category = "count"
)

type definition struct {
	base   Unit
	factor string
}

// table maps every unit to its base unit and the exact number of base units
// one of it represents.
var table = map[Unit]definition{
	Gram:             {Gram, "1"},
	Kilogram:         {Gram, "1000"},
	Ounce:            {Gram, "28.349523125"},
	Pound:            {Gram, "453.59237"},
	TablespoonButter: {Gram, "14"},

	Milliliter: {Milliliter, "1"},
	Liter:      {Milliliter, "1000"},
	Teaspoon:   {Milliliter, "4.92892159375"},
	Tablespoon: {Milliliter, "14.78676478125"},
	Cup:        {Milliliter, "236.5882365"},

	Piece: {Piece, "1"},
}

var categories = map[Unit]Category{
	Gram:       CategoryWeight,
	Milliliter: CategoryVolume,
	Piece:      CategoryCount,
}

// order is the stable listing order returned by All.
var order = []Unit{
	Gram, Kilogram, Ounce, Pound, TablespoonButter,
	Milliliter, Liter, Teaspoon, Tablespoon, Cup,
	Piece,
}

// aliases maps upper-cased alternative spellings to canonical units.
var aliases = map[string]Unit{
	"G":          Gram,
	"GR":         Gram,
	"GRAMS":      Gram,
	"KG":         Kilogram,
	"KGS":        Kilogram,
	"KILOS":      Kilogram,
	"OZ":         Ounce,
	"OUNCES":     Ounce,
	"LB":         Pound,
	"LBS":        Pound,
	"POUNDS":     Pound,
	"ML":         Milliliter,
	"MILLILITRE": Milliliter,
	"L":          Liter,
	"LITRE":      Liter,
	"LITERS":     Liter,
	"TSP":        Teaspoon,
	"TBSP":       Tablespoon,
	"TBS":        Tablespoon,
	"CUPS":       Cup,
	"PC":         Piece,
	"PCS":        Piece,
	"PIECES":     Piece,
	"UN":         Piece,
	"UNIT":       Piece,
	"UNITS":      Piece,
}

// Parse resolves a unit token case-insensitively, accepting canonical names,
// aliases and short symbols such as "kg" or "tbsp".
func Parse(s string) (Unit, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := table[Unit(token)]; ok {
		return Unit(token), nil
	}
	if u, ok := aliases[token]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return u
}

// All returns every known unit in a stable order.
func All() []Unit {
	out := make([]Unit, len(order))
	copy(out, order)
	return out
}

// Valid reports whether u is a known canonical unit.
func (u Unit) Valid() bool {
	_, ok := table[u]
	return ok
}

// Base returns the base unit of u, or "" for an unknown unit.
func (u Unit) Base() Unit {
	return table[u].base
}

// Factor returns the exact decimal string giving how many base units one u
// represents, or "" for an unknown unit.
func (u Unit) Factor() string {
	return table[u].factor
}

// Category returns the category of u, or "" for an unknown unit.
func (u Unit) Category() Category {
	return categories[u.Base()]
}

func (u Unit) String() string { return string(u) }

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (u *Unit) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// CanConvert reports whether quantities in a can be expressed in b, which
// holds exactly when both units share a base unit.
func CanConvert(a, b Unit) bool {
	return a.Valid() && b.Valid() && a.Base() == b.Base()
}

// Info describes a unit for listing purposes.
type Info struct {
	Unit     Unit     `json:"unit"`
	Base     Unit     `json:"base"`
	Category Category `json:"category"`
	Factor   string   `json:"factor"`
}

// Describe returns an Info for every unit, in the order of All.
func Describe() []Info {
	out := make([]Info, 0, len(order))
	for _, u := range order {
		out = append(out, Info{
			Unit:     u,
			Base:     u.Base(),
			Category: u.Category(),
			Factor:   u.Factor(),
		})
	}
	return out
}
