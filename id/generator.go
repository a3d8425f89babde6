package id

import "github.com/google/uuid"

// Generator produces fresh unique identifiers for new entities.
type Generator interface {
	Generate(prefix Prefix) ID
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(prefix Prefix) ID

// Generate calls f(prefix).
func (f GeneratorFunc) Generate(prefix Prefix) ID { return f(prefix) }

// TypeIDGenerator mints prefixed TypeIDs. It is the default generator.
type TypeIDGenerator struct{}

// Generate returns New(prefix).
func (TypeIDGenerator) Generate(prefix Prefix) ID { return New(prefix) }

// UUIDGenerator mints random UUIDv4 strings and ignores the prefix.
type UUIDGenerator struct{}

// Generate returns a new random UUID.
func (UUIDGenerator) Generate(Prefix) ID { return ID{value: uuid.NewString()} }
