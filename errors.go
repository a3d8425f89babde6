package costify

import (
	"errors"
	"fmt"

	"github.com/xraph/costify/costing"
	"github.com/xraph/costify/id"
	"github.com/xraph/costify/ingredient"
	"github.com/xraph/costify/numeric"
	"github.com/xraph/costify/recipe"
	"github.com/xraph/costify/types"
	"github.com/xraph/costify/unit"
)

// Sentinel errors for common failure scenarios. Domain sentinels are
// re-exported from the package that raises them so callers can match with
// errors.Is without importing every subpackage.
var (
	// General errors
	ErrInvalidInput = errors.New("costify: invalid input")

	// Validation errors
	ErrEmptyID               = id.ErrEmpty
	ErrInvalidNumber         = numeric.ErrInvalidNumber
	ErrInvalidUnit           = unit.ErrInvalidUnit
	ErrNegativeAmount        = types.ErrNegativeAmount
	ErrInvalidIngredientName = ingredient.ErrInvalidName
	ErrInvalidPrice          = ingredient.ErrInvalidPrice
	ErrInvalidRecipeName     = recipe.ErrInvalidName
	ErrInvalidQuantity       = recipe.ErrInvalidQuantity

	// Consistency errors
	ErrEmptyRecipe           = recipe.ErrEmptyRecipe
	ErrDuplicateIngredient   = recipe.ErrDuplicateIngredient
	ErrIngredientNotInRecipe = recipe.ErrIngredientNotInRecipe
	ErrIncompatibleUnits     = unit.ErrIncompatibleUnits
	ErrIncompatibleUnitTypes = costing.ErrIncompatibleUnitTypes
	ErrIngredientNotResolved = costing.ErrIngredientNotFound
	ErrInvariantViolation    = costing.ErrInvariantViolation
	ErrNoIngredientCosts     = costing.ErrNoIngredientCosts
	ErrInvalidIngredientCost = costing.ErrInvalidIngredientCost

	// Arithmetic errors
	ErrDivisionByZero = numeric.ErrDivisionByZero
	ErrNegativeResult = types.ErrNegativeResult

	// Ingredient errors
	ErrIngredientNotFound      = ingredient.ErrNotFound
	ErrIngredientAlreadyExists = errors.New("costify: ingredient already exists")
	ErrIngredientInUse         = errors.New("costify: ingredient is in use by recipes")

	// Recipe errors
	ErrRecipeNotFound      = recipe.ErrNotFound
	ErrRecipeAlreadyExists = errors.New("costify: recipe already exists")

	// Store errors
	ErrStoreClosed     = errors.New("costify: store is closed")
	ErrMigrationFailed = errors.New("costify: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("costify: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap matches ErrInvalidInput and the underlying cause, if any.
func (e ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

func invalidField(field string, err error) error {
	return ValidationError{Field: field, Message: err.Error(), Err: err}
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "costify: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("costify: %d errors occurred (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// ErrOrNil returns e if it holds any errors and nil otherwise.
func (e MultiError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrRecipeNotFound)
}

// IsConflict returns true if the error is a uniqueness or reference conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrIngredientAlreadyExists) ||
		errors.Is(err, ErrRecipeAlreadyExists) ||
		errors.Is(err, ErrIngredientInUse)
}

// IsValidation returns true if the error was caused by malformed input.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyID) ||
		errors.Is(err, ErrInvalidNumber) ||
		errors.Is(err, ErrInvalidUnit) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidIngredientName) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidRecipeName) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsConsistency returns true if the error reports data that cannot be
// combined: missing references, incompatible units or a broken invariant.
func IsConsistency(err error) bool {
	return errors.Is(err, ErrEmptyRecipe) ||
		errors.Is(err, ErrDuplicateIngredient) ||
		errors.Is(err, ErrIngredientNotInRecipe) ||
		errors.Is(err, ErrIncompatibleUnits) ||
		errors.Is(err, ErrIncompatibleUnitTypes) ||
		errors.Is(err, ErrIngredientNotResolved) ||
		errors.Is(err, ErrInvariantViolation) ||
		errors.Is(err, ErrNoIngredientCosts) ||
		errors.Is(err, ErrInvalidIngredientCost)
}

// IsArithmetic returns true if the error came from a guarded money or
// decimal operation.
func IsArithmetic(err error) bool {
	return errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrNegativeResult)
}
