package audithook

// Action constants for audit events.
const (
	// Ingredient actions
	ActionIngredientRegistered = "ingredient.registered"
	ActionIngredientUpdated    = "ingredient.updated"
	ActionIngredientRepriced   = "ingredient.repriced"
	ActionIngredientDeleted    = "ingredient.deleted"

	// Recipe actions
	ActionRecipeRegistered = "recipe.registered"
	ActionRecipeUpdated    = "recipe.updated"
	ActionRecipeDeleted    = "recipe.deleted"

	// Costing actions
	ActionRecipeCostCalculated = "recipe.cost_calculated"
	ActionRecipeCostFailed     = "recipe.cost_failed"
	ActionRecipesRecalculated  = "recipes.recalculated"
)

// Resource constants for audit events.
const (
	ResourceIngredient = "ingredient"
	ResourceRecipe     = "recipe"
)

// Category constants for audit events.
const (
	CategoryCatalog = "catalog"
	CategoryCosting = "costing"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
