package dsl

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/i18n"
	js "github.com/reoring/csvskema/jsonschema"
)

// AnyAdapter adapts Schema[T] to an any-typed DSL wrapper used by object
// fields.
type AnyAdapter struct {
	parse         func(context.Context, any) (any, error)
	validateValue func(context.Context, any) error
	applyDefault  func(context.Context) (any, error)
	jsonSchema    func() (*js.Schema, error)
}

// anyAdapterFromSchema wraps a strongly typed Schema[T] as AnyAdapter for Field builders.
func anyAdapterFromSchema[T any](s csvskema.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse: func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		validateValue: func(ctx context.Context, v any) error {
			tv, ok := v.(T)
			if !ok {
				return csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeInvalidType, Message: "invalid field type", Value: v}}
			}
			return s.ValidateValue(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
	}
}

// Parse runs the adapter's parse function on v.
func (ad AnyAdapter) Parse(ctx context.Context, v any) (any, error) {
	if ad.parse == nil {
		return v, nil
	}
	return ad.parse(ctx, v)
}

// Nullable wraps an AnyAdapter to accept nil for both parse and validate.
// When the input value is nil, parsing succeeds and returns nil.
func Nullable(ad AnyAdapter) AnyAdapter {
	prevParse := ad.parse
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if prevParse == nil {
			return v, nil
		}
		return prevParse(ctx, v)
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if v == nil {
			return nil
		}
		if prevValidate == nil {
			if prevParse == nil {
				return nil
			}
			_, err := prevParse(ctx, v)
			return err
		}
		return prevValidate(ctx, v)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		if prevJSON == nil {
			return &js.Schema{}, nil
		}
		s, err := prevJSON()
		if err != nil || s == nil {
			return s, err
		}
		return s.Nullable(), nil
	}
	return out
}

// Nullable enables fluent chaining: g.StringOf[T]().Nullable()
func (ad AnyAdapter) Nullable() AnyAdapter { return Nullable(ad) }

// EmptyAsNull turns an empty string cell into nil before parsing and makes the
// field nullable. A nil value is written back as an empty cell.
func EmptyAsNull(ad AnyAdapter) AnyAdapter {
	out := Nullable(ad)
	inner := out.parse
	out.parse = func(ctx context.Context, v any) (any, error) {
		if s, ok := v.(string); ok && s == "" {
			return nil, nil
		}
		return inner(ctx, v)
	}
	return out
}

// EmptyAsNull enables fluent chaining: g.Enum("a", "b").EmptyAsNull()
func (ad AnyAdapter) EmptyAsNull() AnyAdapter { return EmptyAsNull(ad) }

// Before installs a pre-validation normalization step that runs on the raw
// input ahead of the adapter's own parse.
func (ad AnyAdapter) Before(fn func(any) any) AnyAdapter {
	if fn == nil {
		return ad
	}
	prevParse := ad.parse
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		v = fn(v)
		if prevParse == nil {
			return v, nil
		}
		return prevParse(ctx, v)
	}
	return out
}

// Min sets a numeric minimum (inclusive) constraint at runtime and in JSON Schema.
// Non-numeric values are ignored by this guard (type errors are handled elsewhere).
func (ad AnyAdapter) Min(n float64) AnyAdapter {
	return ad.bound(n, minCheck, func(s *js.Schema) { s.Minimum = jsPtrFloat(n) })
}

// Max sets a numeric maximum (inclusive) constraint at runtime and in JSON Schema.
func (ad AnyAdapter) Max(n float64) AnyAdapter {
	return ad.bound(n, maxCheck, func(s *js.Schema) { s.Maximum = jsPtrFloat(n) })
}

func (ad AnyAdapter) bound(n float64, check func(any, float64) error, annotate func(*js.Schema)) AnyAdapter {
	prevParse := ad.parse
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if prevParse != nil {
			val, err := prevParse(ctx, v)
			if err != nil {
				return nil, err
			}
			if err := check(val, n); err != nil {
				return nil, err
			}
			return val, nil
		}
		if err := check(v, n); err != nil {
			return nil, err
		}
		return v, nil
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if prevValidate != nil {
			if err := prevValidate(ctx, v); err != nil {
				return err
			}
		}
		return check(v, n)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		s := &js.Schema{}
		if prevJSON != nil {
			ps, err := prevJSON()
			if err != nil {
				return nil, err
			}
			if ps != nil {
				s = ps
			}
		}
		annotate(s)
		if s.Type == nil || s.Type == "" {
			s.Type = "number"
		}
		return s, nil
	}
	return out
}

// ---- helpers ----
func jsPtrFloat(v float64) *float64 { return &v }

func minCheck(v any, min float64) error {
	f, ok := asFloat(v)
	if !ok || f >= min {
		return nil
	}
	return csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeTooSmall, Message: i18n.T(csvskema.CodeTooSmall, nil), Value: v, Params: map[string]any{"min": min}}}
}

func maxCheck(v any, max float64) error {
	f, ok := asFloat(v)
	if !ok || f <= max {
		return nil
	}
	return csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeTooBig, Message: i18n.T(csvskema.CodeTooBig, nil), Value: v, Params: map[string]any{"max": max}}}
}

// asFloat reports the numeric value of v for bound checks.
func asFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
