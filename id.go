package costify

import "github.com/xraph/costify/id"

// ID is the primary identifier type for all costify entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
