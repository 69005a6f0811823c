package dsl

import (
	csvskema "github.com/reoring/csvskema"
)

// SchemaOf converts an arbitrary Schema[T] into an AnyAdapter helper.
// Example: Field("age", SchemaOf(Int()))
func SchemaOf[T any](s csvskema.Schema[T]) AnyAdapter { return anyAdapterFromSchema[T](s) }
