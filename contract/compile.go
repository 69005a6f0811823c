package contract

import (
	"errors"
	"fmt"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/dsl"
	"github.com/reoring/csvskema/timezones"
)

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// Compile turns c into an object model whose field order is the order of
// c.Fields.
func Compile(c *Contract) (csvskema.Model[map[string]any], Diag, error) {
	d := &simpleDiag{}
	if c == nil {
		return nil, d, errors.New("contract: nil contract")
	}
	if len(c.Fields) == 0 {
		return nil, d, errors.New("contract: no fields declared")
	}

	b := dsl.Object()
	switch c.Unknown {
	case "", csvskema.UnknownStrict.String():
		b.UnknownStrict()
	case csvskema.UnknownStrip.String():
		b.UnknownStrip()
	case csvskema.UnknownPassthrough.String():
		if c.Extras == "" {
			return nil, d, errors.New("contract: unknown: passthrough requires extras")
		}
		b.UnknownPassthrough(c.Extras)
	default:
		return nil, d, fmt.Errorf("contract: unknown policy %q (want strict, strip or passthrough)", c.Unknown)
	}
	if c.Extras != "" && c.Unknown != csvskema.UnknownPassthrough.String() {
		d.warnf("extras %q is ignored unless unknown is passthrough", c.Extras)
	}

	seen := make(map[string]bool, len(c.Fields))
	for i, f := range c.Fields {
		if f.Name == "" {
			return nil, d, fmt.Errorf("contract: field #%d has no name", i+1)
		}
		if seen[f.Name] {
			return nil, d, fmt.Errorf("contract: duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		ad, err := fieldAdapter(f, d)
		if err != nil {
			return nil, d, err
		}
		step := b.Field(f.Name, ad)
		switch {
		case f.Default != nil:
			if f.Required {
				d.warnf("field %q: default makes required redundant", f.Name)
			}
			step.Default(f.Default)
		case f.Required:
			step.Required()
		case f.Nullable:
			step.Default(nil)
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, d, err
	}
	return m, d, nil
}

func fieldAdapter(f Field, d *simpleDiag) (dsl.AnyAdapter, error) {
	if len(f.Enum) > 0 && f.Type != TypeEnum && f.Type != "" {
		d.warnf("field %q: enum values are ignored for type %s", f.Name, f.Type)
	}
	if f.Layout != "" && f.Type != TypeTime {
		d.warnf("field %q: layout is ignored for type %s", f.Name, f.Type)
	}
	tzOpts, err := timezoneOptions(f)
	if err != nil {
		return dsl.AnyAdapter{}, err
	}

	if f.Type == "" {
		if len(f.Enum) == 0 {
			return dsl.AnyAdapter{}, fmt.Errorf("contract: field %q: missing type", f.Name)
		}
		f.Type = TypeEnum
	}

	var ad dsl.AnyAdapter
	numeric := false
	switch f.Type {
	case TypeString:
		ad = dsl.StringOf[string]()
	case TypeInt:
		ad, numeric = dsl.IntOf[int](), true
	case TypeLenientInt:
		ad, numeric = dsl.InsensitiveInt(), true
	case TypeFloat:
		ad, numeric = dsl.FloatOf[float64](), true
	case TypeBool:
		if len(f.Truthy) > 0 || len(f.Falsy) > 0 {
			ad = dsl.BoolWords(f.Truthy, f.Falsy)
		} else {
			ad = dsl.BoolOf[bool]()
		}
	case TypeTime:
		if f.Layout != "" {
			ad = dsl.TimeLayout(f.Layout)
		} else {
			ad = dsl.Time()
		}
	case TypeUTCTime:
		ad = timezones.UTC(tzOpts...)
	case TypeUTCFuture:
		ad = timezones.Future(tzOpts...)
	case TypeUUID:
		ad = dsl.UUID()
	case TypeEnum:
		if len(f.Enum) == 0 {
			return dsl.AnyAdapter{}, fmt.Errorf("contract: field %q: enum needs at least one value", f.Name)
		}
		ad = dsl.Enum(f.Enum...)
	default:
		return dsl.AnyAdapter{}, fmt.Errorf("contract: field %q: unknown type %q", f.Name, f.Type)
	}

	if f.Min != nil || f.Max != nil {
		if !numeric {
			d.warnf("field %q: min/max only apply to numeric types", f.Name)
		} else {
			if f.Min != nil {
				ad = ad.Min(*f.Min)
			}
			if f.Max != nil {
				ad = ad.Max(*f.Max)
			}
		}
	}
	if f.Nullable {
		ad = ad.EmptyAsNull()
	}
	return ad, nil
}

func timezoneOptions(f Field) ([]timezones.Option, error) {
	switch f.Timezone {
	case "", "strict":
		return nil, nil
	case "permissive":
		if f.Type != TypeUTCTime && f.Type != TypeUTCFuture {
			return nil, fmt.Errorf("contract: field %q: timezone only applies to utc_time and utc_future", f.Name)
		}
		return []timezones.Option{timezones.AllowNaive()}, nil
	}
	return nil, fmt.Errorf("contract: field %q: timezone %q (want strict or permissive)", f.Name, f.Timezone)
}
