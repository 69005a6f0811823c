package dsl

import (
	"context"

	csvskema "github.com/reoring/csvskema"
	js "github.com/reoring/csvskema/jsonschema"
)

// Codec adapts a Codec[A,B] into a Schema[B] that accepts wire A and produces domain B.
// Parse: In.Parse -> Decode -> Out.Normalize -> Out.ValidateValue -> Out.Refine
// ValidateValue (domain value): delegate to Out().
// JSONSchema: delegate to Out().JSONSchema().
func Codec[A, B any](c csvskema.Codec[A, B]) csvskema.Schema[B] { return codecSchema[A, B]{c: c} }

type codecSchema[A, B any] struct{ c csvskema.Codec[A, B] }

func (s codecSchema[A, B]) Parse(ctx context.Context, v any) (B, error) {
	var zero B
	a, err := s.c.In().Parse(ctx, v)
	if err != nil {
		return zero, csvskema.IssuesFromErr("/", err)
	}
	b, err := s.c.Decode(ctx, a)
	if err != nil {
		return zero, csvskema.IssuesFromErr("/", err)
	}
	out, err := csvskema.Finish[B](ctx, b, s.c.Out())
	if err != nil {
		return zero, csvskema.IssuesFromErr("/", err)
	}
	return out, nil
}

func (s codecSchema[A, B]) ValidateValue(ctx context.Context, v B) error {
	return s.c.Out().ValidateValue(ctx, v)
}
func (s codecSchema[A, B]) JSONSchema() (*js.Schema, error) { return s.c.Out().JSONSchema() }
