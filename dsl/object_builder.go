package dsl

import (
	"context"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/i18n"
	js "github.com/reoring/csvskema/jsonschema"
)

type objectBuilder struct {
	fields        map[string]AnyAdapter
	order         []string // declaration order; becomes the column order
	required      map[string]struct{}
	unknownPolicy csvskema.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]AnyAdapter{},
		required:      map[string]struct{}{},
		unknownPolicy: csvskema.UnknownStrict,
	}
}

// Field registers a field with its adapter. Registering the same name again
// replaces the adapter but keeps the original position.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	if _, seen := b.fields[name]; !seen {
		b.order = append(b.order, name)
	}
	b.fields[name] = ad
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) UnknownStrict() *objectBuilder { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder  { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}

// Default sets a default for the current field and exports it to JSON Schema.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.b.fields[f.name] = withDefault(f.b.fields[f.name], v)
	return f.b
}

// withDefault applies the default by parsing it through the field adapter so
// it passes the same Normalize/Validate/Refine steps as a real cell.
func withDefault(ad AnyAdapter, v any) AnyAdapter {
	parse := ad.parse
	ad.applyDefault = func(ctx context.Context) (any, error) {
		if parse == nil {
			return v, nil
		}
		return parse(ctx, v)
	}
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		if prev == nil {
			return &js.Schema{Default: v}, nil
		}
		s, err := prev()
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &js.Schema{}
		}
		s.Default = v
		return s, nil
	}
	return ad
}

func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep    { return f.b.Field(name, ad) }
func (f *fieldStep) Build() (csvskema.Model[map[string]any], error) { return f.b.Build() }
func (f *fieldStep) MustBuild() csvskema.Model[map[string]any]      { return f.b.MustBuild() }
func (f *fieldStep) Require(names ...string) *objectBuilder         { return f.b.Require(names...) }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = csvskema.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = csvskema.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough keeps unknown keys in a map stored under target. The
// target is not a column: it is not listed by FieldNames.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = csvskema.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Refine adds an object-level refine function. It is executed after Normalize/ValidateValue.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Build validates the builder and returns a Model.
func (b *objectBuilder) Build() (csvskema.Model[map[string]any], error) {
	return b.build()
}

func (b *objectBuilder) build() (*objectSchema, error) {
	if b.unknownPolicy == csvskema.UnknownPassthrough {
		if b.unknownTarget == "" {
			return nil, csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeParseError, Message: i18n.T(csvskema.CodeParseError, nil), Hint: "unknown_target missing for passthrough"}}
		}
		if _, clash := b.fields[b.unknownTarget]; clash {
			return nil, csvskema.Issues{csvskema.Issue{Path: "/" + b.unknownTarget, Code: csvskema.CodeParseError, Message: i18n.T(csvskema.CodeParseError, nil), Hint: "unknown_target collides with a declared field"}}
		}
	}
	for n := range b.required {
		if _, ok := b.fields[n]; !ok {
			return nil, csvskema.Issues{csvskema.Issue{Path: "/" + n, Code: csvskema.CodeParseError, Message: i18n.T(csvskema.CodeParseError, nil), Hint: "required field is not declared"}}
		}
	}
	fields := make(map[string]AnyAdapter, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	req := make(map[string]struct{}, len(b.required))
	for k := range b.required {
		req[k] = struct{}{}
	}
	return &objectSchema{
		fields:        fields,
		order:         append([]string(nil), b.order...),
		required:      req,
		unknownPolicy: b.unknownPolicy,
		unknownTarget: b.unknownTarget,
		refines:       append([]objRefine(nil), b.refines...),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() csvskema.Model[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
