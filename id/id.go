// Package id defines the identifier type shared by all Costify entities.
//
// An ID is an opaque, non-empty string token compared by value. Identifiers
// minted by Costify are TypeIDs in the format "prefix_suffix" (K-sortable,
// UUIDv7-based, URL-safe), but any non-empty token supplied by a caller is
// accepted through Of, so records created by other systems (for example
// plain UUIDs) remain addressable.
package id

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// ErrEmpty is returned when an identifier is empty after trimming.
var ErrEmpty = errors.New("id: identifier cannot be empty")

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Costify entity types.
const (
	PrefixIngredient Prefix = "ingr" // Priced ingredient
	PrefixRecipe     Prefix = "rcp"  // Recipe
)

// ID is the primary identifier type for all Costify entities.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	value string
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique TypeID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{value: tid.String()}
}

// Of wraps an arbitrary token as an ID. Surrounding whitespace is trimmed
// and an empty result is rejected with ErrEmpty.
func Of(s string) (ID, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Nil, ErrEmpty
	}

	return ID{value: v}, nil
}

// MustOf is like Of but panics on error. Use for hardcoded ID values.
func MustOf(s string) ID {
	i, err := Of(s)
	if err != nil {
		panic(fmt.Sprintf("id: must of %q: %v", s, err))
	}

	return i
}

// Parse parses a TypeID string (e.g., "rcp_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Unlike Of, the token must be a well-formed TypeID.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: %w", s, ErrEmpty)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{value: tid.String()}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// IngredientID identifies an ingredient (prefix: "ingr").
type IngredientID = ID

// RecipeID identifies a recipe (prefix: "rcp").
type RecipeID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewIngredientID generates a new unique ingredient ID.
func NewIngredientID() ID { return New(PrefixIngredient) }

// NewRecipeID generates a new unique recipe ID.
func NewRecipeID() ID { return New(PrefixRecipe) }

// ParseIngredientID parses a string and validates the "ingr" prefix.
func ParseIngredientID(s string) (ID, error) { return ParseWithPrefix(s, PrefixIngredient) }

// ParseRecipeID parses a string and validates the "rcp" prefix.
func ParseRecipeID(s string) (ID, error) { return ParseWithPrefix(s, PrefixRecipe) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the identifier token. Returns an empty string for Nil.
func (i ID) String() string {
	return i.value
}

// Prefix returns the TypeID prefix of this ID, or "" if the token is not a
// TypeID.
func (i ID) Prefix() Prefix {
	if i.value == "" {
		return ""
	}

	tid, err := typeid.Parse(i.value)
	if err != nil {
		return ""
	}

	return Prefix(tid.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return i.value == ""
}

// Equal reports whether two IDs carry the same token.
func (i ID) Equal(other ID) bool {
	return i.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields Nil.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Of(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if i.value == "" {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.value, nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
