package costify

import "github.com/xraph/costify/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	NewMoney  = types.NewMoney
	MustMoney = types.MustMoney
	MoneyOf   = types.MoneyOf
	Zero      = types.Zero
	Sum       = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
