package timezones

import (
	"context"
	"time"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/dsl"
	js "github.com/reoring/csvskema/jsonschema"
)

// UTC returns an object field adapter producing UTCTime values.
func UTC(opts ...Option) dsl.AnyAdapter {
	return dsl.SchemaOf(UTCSchema(opts...))
}

// Future returns an object field adapter producing UTCFuture values.
func Future(opts ...Option) dsl.AnyAdapter {
	return dsl.SchemaOf(FutureSchema(opts...))
}

// UTCSchema exposes the UTCTime rule as a typed Schema.
func UTCSchema(opts ...Option) csvskema.Schema[UTCTime] { return utcSchema{o: buildOptions(opts)} }

// FutureSchema exposes the UTCFuture rule as a typed Schema.
func FutureSchema(opts ...Option) csvskema.Schema[UTCFuture] {
	return futureSchema{o: buildOptions(opts)}
}

type utcSchema struct{ o options }

func (s utcSchema) Parse(ctx context.Context, v any) (UTCTime, error) {
	u, err := normalize(v, s.o)
	if err != nil {
		return UTCTime{}, err
	}
	return csvskema.Finish[UTCTime](ctx, u, s)
}

func (utcSchema) ValidateValue(ctx context.Context, v UTCTime) error {
	if v.Location() != time.UTC {
		return issue(csvskema.CodeInvalidFormat, v.Time, "not normalized to UTC")
	}
	return nil
}

func (s utcSchema) JSONSchema() (*js.Schema, error) {
	d := "UTC timestamp; input must carry an offset"
	if s.o.mode == Permissive {
		d = "UTC timestamp; input without an offset is read as UTC"
	}
	return &js.Schema{Type: "string", Format: "date-time", Description: d}, nil
}

type futureSchema struct{ o options }

func (s futureSchema) Parse(ctx context.Context, v any) (UTCFuture, error) {
	if f, ok := v.(UTCFuture); ok {
		v = f.UTCTime
	}
	u, err := normalize(v, s.o)
	if err != nil {
		return UTCFuture{}, err
	}
	return csvskema.Finish[UTCFuture](ctx, UTCFuture{u}, s)
}

func (s futureSchema) ValidateValue(ctx context.Context, v UTCFuture) error {
	if err := (utcSchema{}).ValidateValue(ctx, v.UTCTime); err != nil {
		return err
	}
	return checkFuture(v.UTCTime, s.o)
}

func (s futureSchema) JSONSchema() (*js.Schema, error) {
	out, err := (utcSchema{o: s.o}).JSONSchema()
	if err != nil {
		return nil, err
	}
	out.Description += "; must be later than now"
	return out, nil
}
