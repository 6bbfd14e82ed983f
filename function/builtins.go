package function

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/aledsdavies/ftlengine/resolve"
)

// DefaultRegistry returns the shared, frozen Registry seeded with the three
// built-in functions NUMBER, DATETIME, and CURRENCY. Callers that need to
// add their own functions must Copy it first — the shared instance itself
// is never mutated, so every bundle can safely hold a reference to it.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		if err := r.Register(builtinNumber, WithName("NUMBER"), WithLocaleInjection()); err != nil {
			panic("function: failed to register built-in NUMBER: " + err.Error())
		}
		if err := r.Register(builtinDatetime, WithName("DATETIME"), WithLocaleInjection()); err != nil {
			panic("function: failed to register built-in DATETIME: " + err.Error())
		}
		if err := r.Register(builtinCurrency, WithName("CURRENCY"), WithLocaleInjection()); err != nil {
			panic("function: failed to register built-in CURRENCY: " + err.Error())
		}
		r.Freeze()
		defaultRegistry = r
	})
	return defaultRegistry
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// builtinNumber implements NUMBER($value, minimumFractionDigits:,
// maximumFractionDigits:, style:). style may be "decimal" (default) or
// "percent"; options are read from opts using the snake_case spelling Call
// has already translated them to.
func builtinNumber(value interface{}, locale string, opts map[string]interface{}) (string, error) {
	dec, err := toDecimal(value)
	if err != nil {
		return "", err
	}
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	style, _ := opts["style"].(string)
	f := dec.InexactFloat64()

	var opt []number.Option
	if min, ok := intOpt(opts["minimum_fraction_digits"]); ok {
		opt = append(opt, number.MinFractionDigits(min))
	}
	if max, ok := intOpt(opts["maximum_fraction_digits"]); ok {
		opt = append(opt, number.MaxFractionDigits(max))
	}

	switch style {
	case "percent":
		return p.Sprint(number.Percent(f, opt...)), nil
	default:
		return p.Sprint(number.Decimal(f, opt...)), nil
	}
}

// builtinCurrency implements CURRENCY($value, currencyCode:).
func builtinCurrency(value interface{}, locale string, opts map[string]interface{}) (string, error) {
	dec, err := toDecimal(value)
	if err != nil {
		return "", err
	}
	code, _ := opts["currency_code"].(string)
	if code == "" {
		code = "USD"
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("unknown currency code %q: %w", code, err)
	}
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)
	amount := unit.Amount(dec.InexactFloat64())
	return p.Sprint(currency.Symbol(amount)), nil
}

// builtinDatetime implements DATETIME($value, dateStyle:). value must be a
// time.Time (or an RFC 3339 string) produced by the caller's argument
// binding; this engine does not parse arbitrary ambient date formats.
//
// There is no CLDR-aware date/time pattern formatter in this module's
// dependency set (golang.org/x/text does not expose one as of this
// writing), so formatting falls back to the standard library's time
// package — see DESIGN.md for why no third-party alternative was wired.
func builtinDatetime(value interface{}, locale string, opts map[string]interface{}) (string, error) {
	t, err := toTime(value)
	if err != nil {
		return "", err
	}
	_ = parseLocale(locale) // locale is accepted for interface symmetry with NUMBER/CURRENCY

	style, _ := opts["date_style"].(string)
	switch style {
	case "short":
		return t.Format("2006-01-02"), nil
	case "long":
		return t.Format("January 2, 2006"), nil
	default:
		return t.Format(time.RFC3339), nil
	}
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case resolve.Number:
		return n.Value, nil
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Decimal{}, fmt.Errorf("value is not numeric: %T", v)
	}
}

func toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339, t)
	default:
		return time.Time{}, fmt.Errorf("value is not a time: %T", v)
	}
}

func intOpt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case resolve.Number:
		return int(n.Value.IntPart()), true
	default:
		return 0, false
	}
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
