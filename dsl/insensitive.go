package dsl

import (
	"context"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	csvskema "github.com/reoring/csvskema"
	js "github.com/reoring/csvskema/jsonschema"
)

// InsensitiveInt returns an integer field that truncates fractional numbers
// toward zero before the usual integer rule runs: 1.3 and decimal 1.3 both
// become 1, -2.7 becomes -2. Strings are not truncated, so "1.3" still fails.
func InsensitiveInt() AnyAdapter { return anyAdapterFromSchema[int](insensitiveIntSchema{}) }

type insensitiveIntSchema struct{}

func (insensitiveIntSchema) Parse(ctx context.Context, v any) (int, error) {
	return (intSchema{}).Parse(ctx, truncateNumber(v))
}

func (insensitiveIntSchema) ValidateValue(ctx context.Context, v int) error { return nil }

func (insensitiveIntSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "integer", Description: "fractional input is truncated toward zero"}, nil
}

// truncateNumber drops the fractional part of floating and arbitrary-precision
// numbers. Any other input is returned unchanged.
func truncateNumber(v any) any {
	switch n := v.(type) {
	case float64:
		return truncFloat(n)
	case float32:
		return truncFloat(float64(n))
	case decimal.Decimal:
		return n.Truncate(0)
	case *big.Float:
		if n == nil || n.IsInf() {
			return v
		}
		i, _ := n.Int(nil)
		return i
	case *big.Rat:
		if n == nil {
			return v
		}
		return new(big.Int).Quo(n.Num(), n.Denom())
	}
	return v
}

func truncFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

var _ csvskema.Schema[int] = insensitiveIntSchema{}
