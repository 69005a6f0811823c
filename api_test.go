package csvskema_test

import (
	"context"
	"testing"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/dsl"
	js "github.com/reoring/csvskema/jsonschema"
)

// upperSchema accepts non-empty strings and normalizes them to upper case.
type upperSchema struct{}

func (upperSchema) Parse(ctx context.Context, v any) (string, error) {
	s, _ := v.(string)
	if s == "" {
		return "", csvskema.Issues{{Code: csvskema.CodeInvalidType, Path: "/", Message: "expected string"}}
	}
	return csvskema.Finish[string](ctx, s, upperSchema{})
}
func (upperSchema) ValidateValue(ctx context.Context, v string) error { return nil }
func (upperSchema) JSONSchema() (*js.Schema, error)                   { return &js.Schema{Type: "string"}, nil }
func (upperSchema) Normalize(ctx context.Context, v string) (string, error) {
	out := []byte(v)
	for i, c := range out {
		if 'a' <= c && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out), nil
}
func (upperSchema) Refine(ctx context.Context, v string) error {
	if v == "NG" {
		return csvskema.Issues{{Code: csvskema.CodeCustom, Path: "/"}}
	}
	return nil
}

func TestSafeParseAndIs(t *testing.T) {
	ctx := context.Background()
	v, ok := csvskema.SafeParse[string](ctx, upperSchema{}, "ok")
	if !ok || v != "OK" {
		t.Fatalf("unexpected SafeParse result: %q %v", v, ok)
	}
	if _, ok := csvskema.SafeParse[string](ctx, upperSchema{}, 1); ok {
		t.Fatalf("expected SafeParse to fail for non-string")
	}
	if csvskema.Is[string](ctx, upperSchema{}, "ng") {
		t.Fatalf("refine should reject ng")
	}
	if !csvskema.Is[string](ctx, upperSchema{}, "fine") {
		t.Fatalf("expected fine to parse")
	}
}

func TestParseWith_FailFast(t *testing.T) {
	ctx := context.Background()
	m := dsl.Object().
		Field("a", dsl.IntOf[int]()).Required().
		Field("b", dsl.IntOf[int]()).Required().
		MustBuild()

	_, err := csvskema.ParseWith[map[string]any](ctx, m, map[string]any{"a": "x", "b": "y"})
	iss, ok := csvskema.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("collect mode should report both fields, got %v", err)
	}

	_, err = csvskema.ParseWith[map[string]any](ctx, m, map[string]any{"a": "x", "b": "y"}, csvskema.ParseOpt{FailFast: true})
	iss, ok = csvskema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/a" {
		t.Fatalf("fail-fast should stop at /a, got %v", err)
	}

	if _, err := csvskema.ParseWith[string](ctx, nil, "x"); err == nil {
		t.Fatalf("expected error for nil schema")
	}
	if !csvskema.IsFailFast(csvskema.WithFailFast(ctx, true)) || csvskema.IsFailFast(ctx) {
		t.Fatalf("unexpected fail-fast context state")
	}
}

func TestUnknownPolicy_String(t *testing.T) {
	for p, want := range map[csvskema.UnknownPolicy]string{
		csvskema.UnknownStrict:      "strict",
		csvskema.UnknownStrip:       "strip",
		csvskema.UnknownPassthrough: "passthrough",
	} {
		if p.String() != want {
			t.Fatalf("%d: got %s want %s", p, p.String(), want)
		}
	}
}
