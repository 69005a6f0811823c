package codec

import (
	"context"
	"time"

	csvskema "github.com/reoring/csvskema"
	js "github.com/reoring/csvskema/jsonschema"
)

// TimeRFC3339 returns a Codec that converts between RFC3339 cells and time.Time.
func TimeRFC3339() csvskema.Codec[string, time.Time] {
	return &rfc3339Codec{
		in:  stringSchema{},
		out: timeSchema{},
	}
}

type rfc3339Codec struct {
	in  csvskema.Schema[string]
	out csvskema.Schema[time.Time]
}

func (c *rfc3339Codec) In() csvskema.Schema[string]     { return c.in }
func (c *rfc3339Codec) Out() csvskema.Schema[time.Time] { return c.out }

func (c *rfc3339Codec) Decode(ctx context.Context, a string) (time.Time, error) {
	// wire(string) -> domain(time.Time) -> Out.ValidateValue
	t, err := ParseRFC3339(a)
	if err != nil {
		return time.Time{}, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidFormat, Message: "invalid RFC3339 time", Value: a, Cause: err}}
	}
	if err := c.out.ValidateValue(ctx, t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (c *rfc3339Codec) Encode(ctx context.Context, b time.Time) (string, error) {
	// Validate using Out, convert to wire(string), then re-validate via In.Parse
	if err := c.out.ValidateValue(ctx, b); err != nil {
		return "", err
	}
	s := FormatRFC3339(b)
	if _, err := c.in.Parse(ctx, s); err != nil {
		return "", err
	}
	return s, nil
}

// ---- helpers ----

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidType, Message: "expected string", Value: v}}
}
func (stringSchema) ValidateValue(ctx context.Context, v string) error { return nil }
func (stringSchema) JSONSchema() (*js.Schema, error)                   { return &js.Schema{Type: "string"}, nil }

type timeSchema struct{}

func (timeSchema) Parse(ctx context.Context, v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return time.Time{}, csvskema.Issues{{Path: "/", Code: csvskema.CodeInvalidType, Message: "expected time.Time", Value: v}}
}
func (timeSchema) ValidateValue(ctx context.Context, v time.Time) error { return nil }
func (timeSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

// ParseRFC3339 accepts RFC3339 and RFC3339Nano (trailing zeros optional).
func ParseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatRFC3339 normalizes to UTC and formats using RFC3339Nano (Go trims
// trailing zeros).
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
