package resolve

import (
	"github.com/shopspring/decimal"

	"github.com/aledsdavies/ftlengine/ast"
)

// resolveSelect evaluates a select expression's selector, picks the
// matching variant, and resolves its pattern. A numeric selector is
// compared against Identifier variant keys by CLDR plural category and
// against NumberLiteral variant keys by exact numeric value; a string
// selector is compared against Identifier keys by name and against
// NumberLiteral keys by their source spelling. When nothing
// matches — including the case of a malformed, programmatically
// constructed select expression with zero or more than one variant marked
// Default — resolution falls back to the (first) default variant rather
// than panicking, and a missing default altogether yields an empty string
// plus a Resolution error.
func (r *resolver) resolveSelect(e *ast.SelectExpression) string {
	selectorValue := r.resolveArgValue(e.Selector)

	var def *ast.Variant
	for i := range e.Variants {
		v := &e.Variants[i]
		if v.Default && def == nil {
			def = v
		}
	}

	if dec, precision, ok := toNumber(selectorValue); ok {
		category := pluralCategory(r.locale, dec, precision)
		for i := range e.Variants {
			v := &e.Variants[i]
			if variantKeyMatchesNumber(v.Key, dec, category) {
				return r.resolvePattern(v.Value)
			}
		}
	} else {
		s := stringifyValue(selectorValue)
		for i := range e.Variants {
			v := &e.Variants[i]
			if id, ok := v.Key.(*ast.Identifier); ok && id.Name == s {
				return r.resolvePattern(v.Value)
			}
			if nl, ok := v.Key.(*ast.NumberLiteral); ok && nl.Raw == s {
				return r.resolvePattern(v.Value)
			}
		}
	}

	if def == nil {
		r.fail(CategoryResolution, "select expression has no default variant", &Diagnostic{Code: "E2007"})
		return ""
	}
	return r.resolvePattern(def.Value)
}

func variantKeyMatchesNumber(key ast.VariantKey, dec decimal.Decimal, category string) bool {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name == category
	case *ast.NumberLiteral:
		return k.Value.Equal(dec)
	default:
		return false
	}
}
