package id_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/xraph/costify/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"IngredientID", id.NewIngredientID, "ingr_"},
		{"RecipeID", id.NewRecipeID, "rcp_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixRecipe)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixRecipe {
		t.Errorf("expected prefix %q, got %q", id.PrefixRecipe, i.Prefix())
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "flour", "flour", false},
		{"trimmed", "  flour  ", "flour", false},
		{"uuid", "8c4e6a2e-5d7b-4b2f-9d53-0b6a1c3f7e21", "8c4e6a2e-5d7b-4b2f-9d53-0b6a1c3f7e21", false},
		{"empty", "", "", true},
		{"whitespace", " \t ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := id.Of(tt.input)
			if tt.wantErr {
				if !errors.Is(err, id.ErrEmpty) {
					t.Fatalf("expected ErrEmpty, got %v", err)
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

func TestEqual(t *testing.T) {
	a := id.MustOf("abc")
	b := id.MustOf(" abc ")
	if !a.Equal(b) || a != b {
		t.Error("IDs with the same token should be equal")
	}
	if a.Equal(id.MustOf("abd")) {
		t.Error("different tokens should not be equal")
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"IngredientID", id.NewIngredientID, id.ParseIngredientID},
		{"RecipeID", id.NewRecipeID, id.ParseRecipeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	if _, err := id.ParseIngredientID(id.NewRecipeID().String()); err == nil {
		t.Error("ParseIngredientID should reject rcp_")
	}
	if _, err := id.ParseRecipeID(id.NewIngredientID().String()); err == nil {
		t.Error("ParseRecipeID should reject ingr_")
	}
}

func TestParseRejectsNonTypeID(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
	if _, err := id.Parse("not a typeid"); err == nil {
		t.Error("expected error for malformed TypeID")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
	if id.MustOf("flour").Prefix() != "" {
		t.Error("non-TypeID tokens have no prefix")
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.NewIngredientID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if unmarshalErr := restored.UnmarshalText(data); unmarshalErr != nil {
		t.Fatalf("UnmarshalText failed: %v", unmarshalErr)
	}
	if restored.String() != original.String() {
		t.Errorf("mismatch: %q != %q", restored.String(), original.String())
	}

	// Nil round-trip.
	var nilID id.ID
	data, err = nilID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText(nil) failed: %v", err)
	}
	var restored2 id.ID
	if err := restored2.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText(nil) failed: %v", err)
	}
	if !restored2.IsNil() {
		t.Error("expected nil after round-trip of nil ID")
	}
}

func TestValueScan(t *testing.T) {
	original := id.NewRecipeID()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned id.ID
	if scanErr := scanned.Scan(val); scanErr != nil {
		t.Fatalf("Scan failed: %v", scanErr)
	}
	if scanned.String() != original.String() {
		t.Errorf("mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromBytes id.ID
	if err := fromBytes.Scan([]byte("legacy-42")); err != nil {
		t.Fatalf("Scan([]byte) failed: %v", err)
	}
	if fromBytes.String() != "legacy-42" {
		t.Errorf("got %q", fromBytes.String())
	}

	// Nil round-trip.
	var nilID id.ID
	val, err = nilID.Value()
	if err != nil {
		t.Fatalf("Value(nil) failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for nil ID, got %v", val)
	}

	var scanned2 id.ID
	if err := scanned2.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !scanned2.IsNil() {
		t.Error("expected nil after scan of nil")
	}

	if err := scanned2.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestGenerators(t *testing.T) {
	typeGen := id.TypeIDGenerator{}
	if got := typeGen.Generate(id.PrefixIngredient); got.Prefix() != id.PrefixIngredient {
		t.Errorf("TypeIDGenerator: expected prefix %q, got %q", id.PrefixIngredient, got.Prefix())
	}

	uuidGen := id.UUIDGenerator{}
	got := uuidGen.Generate(id.PrefixRecipe)
	if _, err := uuid.Parse(got.String()); err != nil {
		t.Errorf("UUIDGenerator: %q is not a UUID: %v", got, err)
	}

	fixed := id.GeneratorFunc(func(p id.Prefix) id.ID { return id.MustOf(string(p) + "-1") })
	if fixed.Generate(id.PrefixRecipe).String() != "rcp-1" {
		t.Error("GeneratorFunc did not delegate")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewRecipeID()
	b := id.NewRecipeID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewRecipeID() calls returned the same ID: %q", a.String())
	}
}
