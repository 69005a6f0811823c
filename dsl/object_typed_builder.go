package dsl

import (
	"context"

	csvskema "github.com/reoring/csvskema"
)

// ObjectTyped returns a typed object builder that supports fluent Bind()/MustBind().
// This achieves chain-style API without method type parameters by parameterizing the builder type itself.
func ObjectTyped[T any]() *objectBuilderT[T] { return &objectBuilderT[T]{inner: Object()} }

// ObjectOf is an alias of ObjectTyped for naming consistency with other *Of[T] helpers.
func ObjectOf[T any]() *objectBuilderT[T] { return ObjectTyped[T]() }

type objectBuilderT[T any] struct{ inner *objectBuilder }

// fieldStepT is a typed variant of fieldStep that enables
// chain-friendly APIs like Field(...).Required().
type fieldStepT[T any] struct {
	tb   *objectBuilderT[T]
	name string
}

// Field registers a field and returns a typed field step for chaining.
func (tb *objectBuilderT[T]) Field(name string, ad AnyAdapter) *fieldStepT[T] {
	tb.inner.Field(name, ad)
	return &fieldStepT[T]{tb: tb, name: name}
}
func (tb *objectBuilderT[T]) Require(names ...string) *objectBuilderT[T] {
	tb.inner.Require(names...)
	return tb
}
func (tb *objectBuilderT[T]) UnknownStrict() *objectBuilderT[T] { tb.inner.UnknownStrict(); return tb }
func (tb *objectBuilderT[T]) UnknownStrip() *objectBuilderT[T]  { tb.inner.UnknownStrip(); return tb }
func (tb *objectBuilderT[T]) UnknownPassthrough(target string) *objectBuilderT[T] {
	tb.inner.UnknownPassthrough(target)
	return tb
}
func (tb *objectBuilderT[T]) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilderT[T] {
	tb.inner.Refine(name, fn)
	return tb
}

// Bind builds and binds to T.
func (tb *objectBuilderT[T]) Bind() (csvskema.Model[T], error) { return Bind[T](tb.inner) }

// MustBind builds and binds to T, panicking on error.
func (tb *objectBuilderT[T]) MustBind() csvskema.Model[T] { return MustBind[T](tb.inner) }

// ----- fieldStepT methods -----

// Required marks the current field as required and returns the typed builder.
func (f *fieldStepT[T]) Required() *objectBuilderT[T] {
	f.tb.inner.Require(f.name)
	return f.tb
}

// Optional marks the current field as optional and returns the typed builder.
func (f *fieldStepT[T]) Optional() *objectBuilderT[T] {
	delete(f.tb.inner.required, f.name)
	return f.tb
}

// Default sets a default for the current field and exports it to JSON Schema.
func (f *fieldStepT[T]) Default(v any) *objectBuilderT[T] {
	f.tb.inner.fields[f.name] = withDefault(f.tb.inner.fields[f.name], v)
	return f.tb
}

func (f *fieldStepT[T]) UnknownStrict() *objectBuilderT[T] { return f.tb.UnknownStrict() }
func (f *fieldStepT[T]) UnknownStrip() *objectBuilderT[T]  { return f.tb.UnknownStrip() }
func (f *fieldStepT[T]) UnknownPassthrough(target string) *objectBuilderT[T] {
	return f.tb.UnknownPassthrough(target)
}
func (f *fieldStepT[T]) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilderT[T] {
	return f.tb.Refine(name, fn)
}

// Forward helpers to keep chaining ergonomics.
func (f *fieldStepT[T]) Field(name string, ad AnyAdapter) *fieldStepT[T] { return f.tb.Field(name, ad) }
func (f *fieldStepT[T]) Bind() (csvskema.Model[T], error)                { return f.tb.Bind() }
func (f *fieldStepT[T]) MustBind() csvskema.Model[T]                     { return f.tb.MustBind() }
