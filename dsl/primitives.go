package dsl

import (
	"context"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/codec"
	"github.com/reoring/csvskema/i18n"
	js "github.com/reoring/csvskema/jsonschema"
)

// String returns the minimal string schema implementation.
func String() csvskema.Schema[string] { return stringSchema{} }

// Bool returns a bool schema that also accepts the usual textual spellings.
func Bool() csvskema.Schema[bool] { return boolSchema{} }

// Int returns an integer schema. Integral floats and numeric strings are
// coerced; fractional values are rejected.
func Int() csvskema.Schema[int] { return intSchema{} }

// Float returns a float64 schema accepting numbers and numeric strings.
func Float() csvskema.Schema[float64] { return floatSchema{} }

func invalidType(v any, hint string) csvskema.Issues {
	return csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidType, Message: i18n.T(csvskema.CodeInvalidType, nil), Hint: hint, Value: v}}
}

// ---------------- string ----------------

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalidType(v, "expected string")
	}
	return csvskema.Finish[string](ctx, s, stringSchema{})
}

func (stringSchema) ValidateValue(ctx context.Context, v string) error { return nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// stringAsSchema wraps stringSchema and projects to a domain type T with underlying string.
type stringAsSchema[T ~string] struct{}

func (stringAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if t, ok := v.(T); ok {
		v = string(t)
	}
	s, err := (stringSchema{}).Parse(ctx, v)
	return T(s), err
}
func (stringAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return (stringSchema{}).ValidateValue(ctx, string(v))
}
func (stringAsSchema[T]) JSONSchema() (*js.Schema, error) { return (stringSchema{}).JSONSchema() }

// StringOf returns an AnyAdapter for a string cell projected to domain type T.
func StringOf[T ~string]() AnyAdapter { return anyAdapterFromSchema[T](stringAsSchema[T]{}) }

// ---------------- bool ----------------

var (
	defaultTruthy = []string{"1", "t", "true", "y", "yes", "on"}
	defaultFalsy  = []string{"0", "f", "false", "n", "no", "off"}
)

type boolSchema struct {
	truthy []string
	falsy  []string
}

func (b boolSchema) Parse(ctx context.Context, v any) (bool, error) {
	var out bool
	switch t := v.(type) {
	case bool:
		out = t
	case string:
		truthy, falsy := b.truthy, b.falsy
		if truthy == nil {
			truthy = defaultTruthy
		}
		if falsy == nil {
			falsy = defaultFalsy
		}
		s := strings.ToLower(strings.TrimSpace(t))
		switch {
		case containsFold(truthy, s):
			out = true
		case containsFold(falsy, s):
			out = false
		default:
			return false, invalidType(v, "expected boolean")
		}
	case int:
		if t != 0 && t != 1 {
			return false, invalidType(v, "expected 0 or 1")
		}
		out = t == 1
	default:
		return false, invalidType(v, "expected boolean")
	}
	return csvskema.Finish[bool](ctx, out, b)
}

func (boolSchema) ValidateValue(ctx context.Context, v bool) error { return nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

func containsFold(set []string, s string) bool {
	for _, x := range set {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

type boolAsSchema[T ~bool] struct{ b boolSchema }

func (s boolAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if t, ok := v.(T); ok {
		v = bool(t)
	}
	b, err := s.b.Parse(ctx, v)
	return T(b), err
}
func (s boolAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return s.b.ValidateValue(ctx, bool(v))
}
func (s boolAsSchema[T]) JSONSchema() (*js.Schema, error) { return s.b.JSONSchema() }

// BoolOf returns an AnyAdapter for a bool cell projected to domain type T.
func BoolOf[T ~bool]() AnyAdapter { return anyAdapterFromSchema[T](boolAsSchema[T]{}) }

// BoolWords is like BoolOf[bool] with custom truthy/falsy spellings.
func BoolWords(truthy, falsy []string) AnyAdapter {
	return anyAdapterFromSchema[bool](boolAsSchema[bool]{b: boolSchema{truthy: truthy, falsy: falsy}})
}

// ---------------- int ----------------

type intSchema struct{}

func (intSchema) Parse(ctx context.Context, v any) (int, error) {
	n, err := coerceInt(v)
	if err != nil {
		return 0, err
	}
	return csvskema.Finish[int](ctx, n, intSchema{})
}

func (intSchema) ValidateValue(ctx context.Context, v int) error { return nil }

func (intSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

// coerceInt accepts Go integers, integral floats/decimals and base-10 strings.
func coerceInt(v any) (int, error) {
	switch t := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidType, Message: i18n.T(csvskema.CodeInvalidType, nil), Hint: "expected integer", Value: v, Cause: err}}
		}
		return n, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, invalidType(v, "expected integer")
		}
		return integralFloat(v, f)
	case decimal.Decimal:
		if !t.Equal(t.Truncate(0)) {
			return 0, invalidType(v, "fractional part")
		}
		if !t.BigInt().IsInt64() {
			return 0, invalidType(v, "integer overflow")
		}
		return int(t.IntPart()), nil
	case *big.Int:
		if t == nil || !t.IsInt64() {
			return 0, invalidType(v, "expected integer")
		}
		return int(t.Int64()), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, invalidType(v, "expected integer")
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, invalidType(v, "integer overflow")
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		return integralFloat(v, rv.Float())
	}
	return 0, invalidType(v, "expected integer")
}

func integralFloat(v any, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidType(v, "fractional part")
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return 0, invalidType(v, "integer overflow")
	}
	return int(f), nil
}

// intAsSchema wraps intSchema and projects to a domain type T with underlying int.
type intAsSchema[T ~int] struct{}

func (intAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if t, ok := v.(T); ok {
		v = int(t)
	}
	n, err := (intSchema{}).Parse(ctx, v)
	return T(n), err
}
func (intAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return (intSchema{}).ValidateValue(ctx, int(v))
}
func (intAsSchema[T]) JSONSchema() (*js.Schema, error) { return (intSchema{}).JSONSchema() }

// IntOf returns an AnyAdapter for an integer cell projected to domain type T(~int).
func IntOf[T ~int]() AnyAdapter { return anyAdapterFromSchema[T](intAsSchema[T]{}) }

// ---------------- float ----------------

type floatSchema struct{}

func (floatSchema) Parse(ctx context.Context, v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidType, Message: i18n.T(csvskema.CodeInvalidType, nil), Hint: "expected number", Value: v, Cause: err}}
		}
		f = x
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, invalidType(v, "expected number")
		}
		f = x
	case decimal.Decimal:
		f = t.InexactFloat64()
	default:
		x, ok := asFloat(v)
		if !ok {
			return 0, invalidType(v, "expected number")
		}
		f = x
	}
	return csvskema.Finish[float64](ctx, f, floatSchema{})
}

func (floatSchema) ValidateValue(ctx context.Context, v float64) error { return nil }

func (floatSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

type floatAsSchema[T ~float64] struct{}

func (floatAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if t, ok := v.(T); ok {
		v = float64(t)
	}
	f, err := (floatSchema{}).Parse(ctx, v)
	return T(f), err
}
func (floatAsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (floatAsSchema[T]) JSONSchema() (*js.Schema, error)              { return (floatSchema{}).JSONSchema() }

// FloatOf returns an AnyAdapter for a numeric cell projected to domain type T(~float64).
func FloatOf[T ~float64]() AnyAdapter { return anyAdapterFromSchema[T](floatAsSchema[T]{}) }

// ---------------- enum ----------------

// enumSchema accepts exactly one of a fixed set of strings.
type enumSchema[T ~string] struct{ allowed []T }

func (e enumSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var s T
	switch t := v.(type) {
	case T:
		s = t
	case string:
		s = T(t)
	default:
		var zero T
		return zero, invalidType(v, "expected string")
	}
	return csvskema.Finish[T](ctx, s, e)
}

func (e enumSchema[T]) ValidateValue(ctx context.Context, v T) error {
	for _, a := range e.allowed {
		if a == v {
			return nil
		}
	}
	allowed := make([]string, len(e.allowed))
	for i, a := range e.allowed {
		allowed[i] = string(a)
	}
	return csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidEnum, Message: i18n.T(csvskema.CodeInvalidEnum, nil), Value: string(v), Params: map[string]any{"allowed": allowed}}}
}

func (e enumSchema[T]) JSONSchema() (*js.Schema, error) {
	vals := make([]any, len(e.allowed))
	for i, a := range e.allowed {
		vals[i] = string(a)
	}
	return &js.Schema{Type: "string", Enum: vals}, nil
}

// Enum returns an AnyAdapter accepting only the listed values.
func Enum[T ~string](allowed ...T) AnyAdapter {
	return anyAdapterFromSchema[T](enumSchema[T]{allowed: append([]T(nil), allowed...)})
}

// ---------------- time ----------------

type timeSchema struct{ layout string }

var rfc3339 = Codec(codec.TimeRFC3339())

func (s timeSchema) Parse(ctx context.Context, v any) (time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case string:
		if s.layout == "" {
			d, err := rfc3339.Parse(ctx, strings.TrimSpace(x))
			if err != nil {
				return time.Time{}, err
			}
			t = d
			break
		}
		d, err := time.Parse(s.layout, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidFormat, Message: i18n.T(csvskema.CodeInvalidFormat, nil), Hint: s.layout, Value: v, Cause: err}}
		}
		t = d
	default:
		return time.Time{}, invalidType(v, "expected time")
	}
	return csvskema.Finish[time.Time](ctx, t, s)
}

func (timeSchema) ValidateValue(ctx context.Context, v time.Time) error { return nil }

func (s timeSchema) JSONSchema() (*js.Schema, error) {
	if s.layout != "" {
		return &js.Schema{Type: "string", Description: "layout " + s.layout}, nil
	}
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

// Time returns an AnyAdapter for RFC3339 time cells.
func Time() AnyAdapter { return anyAdapterFromSchema[time.Time](timeSchema{}) }

// TimeLayout returns an AnyAdapter for time cells in a Go reference layout.
func TimeLayout(layout string) AnyAdapter {
	return anyAdapterFromSchema[time.Time](timeSchema{layout: layout})
}

// ---------------- uuid ----------------

type uuidSchema struct{}

func (uuidSchema) Parse(ctx context.Context, v any) (uuid.UUID, error) {
	var u uuid.UUID
	switch x := v.(type) {
	case uuid.UUID:
		u = x
	case string:
		p, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return uuid.Nil, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidFormat, Message: i18n.T(csvskema.CodeInvalidFormat, nil), Hint: "uuid", Value: v, Cause: err}}
		}
		u = p
	default:
		return uuid.Nil, invalidType(v, "expected uuid")
	}
	return csvskema.Finish[uuid.UUID](ctx, u, uuidSchema{})
}

func (uuidSchema) ValidateValue(ctx context.Context, v uuid.UUID) error { return nil }

func (uuidSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "uuid"}, nil
}

// UUID returns an AnyAdapter for RFC 4122 UUID cells.
func UUID() AnyAdapter { return anyAdapterFromSchema[uuid.UUID](uuidSchema{}) }
