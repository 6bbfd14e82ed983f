package resolve

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// pluralCategory resolves the CLDR cardinal plural category for a numeric
// selector under locale tag, computing the standard CLDR operands (n, i, v,
// w, f, t) from value's absolute decimal form and explicit precision so
// that scale — the visible fraction-digit count — participates in
// selection exactly as spec.md §4.6 and §8 testable property 9 require:
// 1.00 (precision=2) and 1.0 (precision=1) may select different categories
// even though they are numerically equal.
func pluralCategory(tag language.Tag, value decimal.Decimal, precision int) string {
	abs := value.Abs()
	intPart := abs.Truncate(0)
	i, _ := strconv.ParseInt(intPart.String(), 10, 64)

	v := int64(precision)
	fracStr := fractionDigits(abs, precision)
	f, _ := strconv.ParseInt(orZero(fracStr), 10, 64)
	trimmed := trimTrailingZeros(fracStr)
	w := int64(len(trimmed))
	t, _ := strconv.ParseInt(orZero(trimmed), 10, 64)

	n := int(i)
	form := plural.Cardinal.MatchPlural(tag, n, i, v, w, f, t)
	return form.String()
}

// fractionDigits returns the first `precision` fractional digits of abs
// (zero-padded on the right), or "" when precision is zero.
func fractionDigits(abs decimal.Decimal, precision int) string {
	if precision <= 0 {
		return ""
	}
	shifted := abs.Shift(int32(precision)).Truncate(0)
	whole := abs.Truncate(0)
	frac := shifted.Sub(whole.Shift(int32(precision)))
	s := frac.String()
	for len(s) < precision {
		s = "0" + s
	}
	if len(s) > precision {
		s = s[len(s)-precision:]
	}
	return s
}

func trimTrailingZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	return s[:i]
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
