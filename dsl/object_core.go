package dsl

import (
	"context"
	"sort"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/i18n"
	js "github.com/reoring/csvskema/jsonschema"
)

type objectSchema struct {
	fields        map[string]AnyAdapter
	order         []string
	required      map[string]struct{}
	unknownPolicy csvskema.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

var _ csvskema.Model[map[string]any] = (*objectSchema)(nil)

// FieldNames returns a copy of the declared field names in declaration order.
func (o *objectSchema) FieldNames() []string { return append([]string(nil), o.order...) }

// Values lays out v along FieldNames. Absent fields are reported as nil.
func (o *objectSchema) Values(v map[string]any) ([]any, error) {
	out := make([]any, len(o.order))
	for i, k := range o.order {
		out[i] = v[k]
	}
	return out, nil
}

// handleExistingField parses a present field value, rebasing child issues
// under "/field".
func (o *objectSchema) handleExistingField(ctx context.Context, k string, ad AnyAdapter, val any) (any, csvskema.Issues) {
	parsed, err := ad.Parse(ctx, val)
	if err != nil {
		iss := csvskema.Rebase("/"+k, csvskema.IssuesFromErr("/", err))
		for i := range iss {
			if iss[i].Value == nil && iss[i].Path == "/"+k {
				iss[i].Value = val
			}
		}
		return nil, iss
	}
	return parsed, nil
}

// handleMissingField applies a default when available; returns handled=true if the default path executed.
func (o *objectSchema) handleMissingField(ctx context.Context, k string, ad AnyAdapter) (any, csvskema.Issues, bool) {
	if ad.applyDefault == nil {
		return nil, nil, false
	}
	dv, err := ad.applyDefault(ctx)
	if err != nil {
		return nil, csvskema.Rebase("/"+k, csvskema.IssuesFromErr("/", err)), true
	}
	return dv, nil, true
}

// collectKnown parses known fields in declaration order, applies defaults and
// enforces required fields.
func (o *objectSchema) collectKnown(ctx context.Context, src map[string]any) (map[string]any, csvskema.Issues) {
	out := make(map[string]any, len(src))
	var iss csvskema.Issues
	for _, k := range o.order {
		ad := o.fields[k]
		if val, exists := src[k]; exists {
			parsed, i2 := o.handleExistingField(ctx, k, ad, val)
			if len(i2) > 0 {
				iss = csvskema.AppendIssues(iss, i2...)
				if csvskema.IsFailFast(ctx) {
					return out, iss
				}
				continue
			}
			out[k] = parsed
			continue
		}
		if dv, i2, handled := o.handleMissingField(ctx, k, ad); handled {
			if len(i2) > 0 {
				iss = csvskema.AppendIssues(iss, i2...)
				if csvskema.IsFailFast(ctx) {
					return out, iss
				}
			} else {
				out[k] = dv
			}
			continue
		}
		if _, req := o.required[k]; req {
			iss = csvskema.AppendIssues(iss, csvskema.Issue{Path: "/" + k, Code: csvskema.CodeRequired, Message: i18n.T(csvskema.CodeRequired, nil), Hint: "required property missing"})
			if csvskema.IsFailFast(ctx) {
				return out, iss
			}
		}
	}
	return out, iss
}

// collectUnknown processes unknown keys according to unknownPolicy and may write into out for passthrough.
func (o *objectSchema) collectUnknown(src map[string]any, out map[string]any) csvskema.Issues {
	var iss csvskema.Issues
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		v := src[k]
		switch o.unknownPolicy {
		case csvskema.UnknownStrict:
			iss = csvskema.AppendIssues(iss, csvskema.IssueAt("/"+k, csvskema.CodeUnknownKey, v))
		case csvskema.UnknownStrip:
			// drop
		case csvskema.UnknownPassthrough:
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = v
			out[o.unknownTarget] = extra
		}
	}
	return iss
}

// asObject accepts the map shapes row adapters produce.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := asObject(v)
	if !ok {
		return nil, csvskema.Issues{csvskema.Issue{Path: "/", Code: csvskema.CodeInvalidType, Message: i18n.T(csvskema.CodeInvalidType, nil), Hint: "expected object", Value: v}}
	}
	out, iss := o.collectKnown(ctx, src)
	if csvskema.IsFailFast(ctx) && len(iss) > 0 {
		return nil, iss
	}
	if issUnknown := o.collectUnknown(src, out); len(issUnknown) > 0 {
		iss = csvskema.AppendIssues(iss, issUnknown...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	nn, err := csvskema.ApplyNormalize[map[string]any](ctx, out, o)
	if err != nil {
		return nil, err
	}
	if err := csvskema.ApplyRefine[map[string]any](ctx, nn, o); err != nil {
		return nil, err
	}
	return nn, nil
}

// ValidateValue checks an already typed record field by field in declaration order.
func (o *objectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	for _, k := range o.order {
		ad := o.fields[k]
		if val, ok := v[k]; ok {
			if ad.validateValue == nil {
				continue
			}
			if err := ad.validateValue(ctx, val); err != nil {
				return csvskema.Rebase("/"+k, csvskema.IssuesFromErr("/", err))
			}
		} else if _, req := o.required[k]; req {
			return csvskema.Issues{csvskema.Issue{Path: "/" + k, Code: csvskema.CodeRequired, Message: i18n.T(csvskema.CodeRequired, nil), Hint: "required property missing"}}
		}
	}
	return nil
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	for k, ad := range o.fields {
		if ad.jsonSchema != nil {
			if ps, err := ad.jsonSchema(); err == nil && ps != nil {
				props[k] = ps
				continue
			}
		}
		props[k] = &js.Schema{}
	}
	req := make([]string, 0, len(o.required))
	for _, k := range o.order {
		if _, ok := o.required[k]; ok {
			req = append(req, k)
		}
	}
	var additional any
	switch o.unknownPolicy {
	case csvskema.UnknownStrict:
		additional = false
	case csvskema.UnknownStrip, csvskema.UnknownPassthrough:
		// accepted on input either way
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional, XOrder: o.FieldNames()}, nil
}

// Refine implements csvskema.Refiner[map[string]any] using builder-registered hooks.
func (o *objectSchema) Refine(ctx context.Context, v map[string]any) error {
	if len(o.refines) == 0 {
		return nil
	}
	var iss csvskema.Issues
	for _, r := range o.refines {
		if r.fn == nil {
			continue
		}
		if err := r.fn(ctx, v); err != nil {
			if i2, ok := csvskema.AsIssues(err); ok {
				iss = csvskema.AppendIssues(iss, i2...)
			} else {
				iss = csvskema.AppendIssues(iss, csvskema.Issue{Path: "/", Code: csvskema.CodeCustom, Message: err.Error(), Hint: r.name, Cause: err})
			}
			if csvskema.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}
