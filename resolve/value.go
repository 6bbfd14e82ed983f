package resolve

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Value is the dynamic type of one entry in a resolve_message argument bag.
// Accepted concrete types are string, bool, int, int64, float64,
// decimal.Decimal, Number, time.Time, []Value, and map[string]Value — the
// tagged union spec.md §9 describes as FluentValue, represented here as a
// plain Go interface since the type switch in toNumber/stringifyValue already
// gives every call site its own exhaustive tag dispatch.
type Value = interface{}

// Number wraps a decimal value together with an explicit count of visible
// fraction digits (the CLDR "v" operand). Plain float64/int arguments
// cannot distinguish 1.0 from 1.00 — both round-trip to the same float —
// so callers that need scale-sensitive plural selection on a
// programmatically-supplied argument (as opposed to one parsed from FTL
// source, which already carries this via ast.NumberLiteral.Precision)
// should pass a Number instead of a bare float64.
type Number struct {
	Value     decimal.Decimal
	Precision int
}

// toNumber extracts a decimal value and its visible-fraction-digit count
// from any Value that is numeric, reporting ok=false for anything else.
func toNumber(v Value) (dec decimal.Decimal, precision int, ok bool) {
	switch n := v.(type) {
	case Number:
		return n.Value, n.Precision, true
	case decimal.Decimal:
		return n, precisionOf(n), true
	case int:
		return decimal.NewFromInt(int64(n)), 0, true
	case int64:
		return decimal.NewFromInt(n), 0, true
	case float64:
		d := decimal.NewFromFloat(n)
		return d, precisionOf(d), true
	default:
		return decimal.Decimal{}, 0, false
	}
}

func precisionOf(d decimal.Decimal) int {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

// stringifyValue renders a Value for interpolation into pattern text.
func stringifyValue(v Value) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case bool:
		return fmt.Sprintf("%v", n)
	case time.Time:
		return n.Format(time.RFC3339)
	default:
		if dec, precision, ok := toNumber(v); ok {
			return dec.StringFixed(int32(precision))
		}
		return fmt.Sprintf("%v", v)
	}
}
