package dsl

import (
	"context"
	"reflect"

	csvskema "github.com/reoring/csvskema"
	js "github.com/reoring/csvskema/jsonschema"
)

// Bind builds an object schema and binds it to struct type T (free function for Go version compatibility).
func Bind[T any](b *objectBuilder) (csvskema.Model[T], error) {
	os, err := b.build()
	if err != nil {
		return nil, err
	}
	return newTypedObjectSchema[T](os)
}

// MustBind is like Bind but panics on error (free function for Go version compatibility).
func MustBind[T any](b *objectBuilder) csvskema.Model[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}

// typedObjectSchema adapts an objectSchema to a typed struct T using key resolution.
type typedObjectSchema[T any] struct {
	inner      *objectSchema
	t          reflect.Type
	fieldByKey map[string]int // DSL key -> struct field index
}

func newTypedObjectSchema[T any](os *objectSchema) (csvskema.Model[T], error) {
	var t T
	rt := reflect.TypeOf(t)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeParseError, Message: "Bind[T] requires struct T"}}
	}
	idxByName := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := csvskema.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idxByName[name] = i
	}
	fm := make(map[string]int)
	for k := range os.fields {
		if i, ok := idxByName[k]; ok {
			fm[k] = i
		}
	}
	if os.unknownTarget != "" {
		if i, ok := idxByName[os.unknownTarget]; ok {
			fm[os.unknownTarget] = i
		}
	}
	return &typedObjectSchema[T]{inner: os, t: rt, fieldByKey: fm}, nil
}

func (s *typedObjectSchema[T]) FieldNames() []string { return s.inner.FieldNames() }

// Values reads the bound struct fields in column order. Nil pointers and
// unbound fields are reported as nil.
func (s *typedObjectSchema[T]) Values(v T) ([]any, error) {
	rv := reflect.ValueOf(v)
	names := s.inner.order
	out := make([]any, len(names))
	for i, key := range names {
		idx, ok := s.fieldByKey[key]
		if !ok {
			continue
		}
		out[i] = derefField(rv.Field(idx))
	}
	return out, nil
}

// derefField returns the field's value with one level of pointer removed.
func derefField(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		return fv.Elem().Interface()
	}
	if fv.Kind() == reflect.Interface && fv.IsNil() {
		return nil
	}
	return fv.Interface()
}

// Parse maps wire -> map via inner, then into struct fields by mapping.
func (s *typedObjectSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	if tv, ok := v.(T); ok {
		if err := s.ValidateValue(ctx, tv); err != nil {
			return zero, err
		}
		return tv, nil
	}
	m, err := s.inner.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	rv := reflect.New(s.t).Elem()
	for key, idx := range s.fieldByKey {
		val, ok := m[key]
		if !ok {
			continue
		}
		if err := assignField(rv.Field(idx), val); err != nil {
			return zero, csvskema.Issues{csvskema.Issue{Path: "/" + key, Code: csvskema.CodeInvalidType, Message: "field type mismatch", Value: val, Cause: err}}
		}
	}
	return rv.Interface().(T), nil
}

type fieldMismatch struct{ from, to reflect.Type }

func (e fieldMismatch) Error() string {
	return "cannot assign " + e.from.String() + " to " + e.to.String()
}

// assignField stores val in fv. Nil leaves the zero value; pointer fields are
// allocated for non-nil values.
func assignField(fv reflect.Value, val any) error {
	if !fv.CanSet() || val == nil {
		return nil
	}
	vv := reflect.ValueOf(val)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case fv.Kind() == reflect.Pointer && vv.Type().AssignableTo(fv.Type().Elem()):
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(vv)
		fv.Set(p)
	case fv.Kind() == reflect.Pointer && vv.Type().ConvertibleTo(fv.Type().Elem()):
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(vv.Convert(fv.Type().Elem()))
		fv.Set(p)
	case vv.Type().ConvertibleTo(fv.Type()):
		fv.Set(vv.Convert(fv.Type()))
	default:
		return fieldMismatch{from: vv.Type(), to: fv.Type()}
	}
	return nil
}

// ValidateValue checks a typed record. Nil pointer fields count as absent.
func (s *typedObjectSchema[T]) ValidateValue(ctx context.Context, v T) error {
	rv := reflect.ValueOf(v)
	m := make(map[string]any, len(s.fieldByKey))
	for key, idx := range s.fieldByKey {
		if key == s.inner.unknownTarget {
			continue
		}
		fv := rv.Field(idx)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		m[key] = fv.Interface()
	}
	return s.inner.ValidateValue(ctx, m)
}

func (s *typedObjectSchema[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }
