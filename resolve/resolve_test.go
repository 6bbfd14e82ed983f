package resolve

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/function"
	"github.com/aledsdavies/ftlengine/syntax"
)

// fakeRegistries adapts a parsed resource into the Registries interface
// these tests exercise the resolver against, without depending on the
// bundle package.
type fakeRegistries struct {
	messages map[string]*ast.Message
	terms    map[string]*ast.Term
	fns      *function.Registry
}

func newFakeRegistries(source string) *fakeRegistries {
	res := syntax.Parse(source)
	fr := &fakeRegistries{
		messages: make(map[string]*ast.Message),
		terms:    make(map[string]*ast.Term),
		fns:      function.DefaultRegistry(),
	}
	for _, entry := range res.Entries {
		switch e := entry.(type) {
		case *ast.Message:
			fr.messages[e.Id.Name] = e
		case *ast.Term:
			fr.terms[e.Id.Name] = e
		}
	}
	return fr
}

func (f *fakeRegistries) Message(id string) (*ast.Message, bool) { m, ok := f.messages[id]; return m, ok }
func (f *fakeRegistries) Term(id string) (*ast.Term, bool)       { t, ok := f.terms[id]; return t, ok }
func (f *fakeRegistries) Functions() FunctionRegistry             { return f.fns }

func mustMessage(t *testing.T, reg *fakeRegistries, id string) *ast.Message {
	t.Helper()
	m, ok := reg.Message(id)
	require.True(t, ok, "message %q not found", id)
	return m
}

// Scenario A: simple variable substitution.
func TestResolveSimpleVariableSubstitution(t *testing.T) {
	reg := newFakeRegistries(`greeting = Hello, { $name }!`)
	msg := mustMessage(t, reg, "greeting")

	out, errs := ResolveMessage(context.Background(), reg, msg, map[string]Value{"name": "Ada"}, "", Options{UseIsolating: false})
	assert.Empty(t, errs)
	assert.Equal(t, "Hello, Ada!", out)
}

// Scenario B: cycle detection falls back to the literal reference spelling
// and reports exactly one Reference/Resolution-category error.
func TestResolveCycleDetection(t *testing.T) {
	reg := newFakeRegistries("a = { a }\n")
	msg := mustMessage(t, reg, "a")

	out, errs := ResolveMessage(context.Background(), reg, msg, nil, "", Options{})
	require.Len(t, errs, 1)
	assert.Equal(t, CategoryResolution, errs[0].Category)
	assert.Equal(t, "{a}", out)
}

// Scenario C: CLDR plural selection is scale-sensitive — Decimal("1.00")
// with precision 2 selects "other", not "one", and the interpolated value
// is bidi-isolated when UseIsolating is on.
func TestResolvePluralSelectionIsScaleSensitive(t *testing.T) {
	reg := newFakeRegistries(`
items = { $count ->
    [one] { $count } item
   *[other] { $count } items
}
`)
	msg := mustMessage(t, reg, "items")

	count, err := decimal.NewFromString("1.00")
	require.NoError(t, err)
	out, errs := ResolveMessage(context.Background(), reg, msg, map[string]Value{
		"count": Number{Value: count, Precision: 2},
	}, "", Options{Locale: "en", UseIsolating: true})
	assert.Empty(t, errs)
	assert.Equal(t, "⁨1.00⁩ items", out)
}

// Scenario D: an undefined message reference falls back to "{ghost}" and
// reports exactly one Reference error.
func TestResolveUndefinedMessageFallback(t *testing.T) {
	reg := newFakeRegistries(`refers-to-ghost = { ghost }`)
	msg := mustMessage(t, reg, "refers-to-ghost")

	out, errs := ResolveMessage(context.Background(), reg, msg, nil, "", Options{})
	require.Len(t, errs, 1)
	assert.Equal(t, CategoryReference, errs[0].Category)
	assert.Equal(t, "{ghost}", out)
}

// "Last attribute with a given name wins": a duplicate .foo attribute is
// resolved to its final occurrence.
func TestResolveDuplicateAttributeLastWins(t *testing.T) {
	res := syntax.Parse(`msg = Value
    .foo = first
    .foo = second
`)
	var msg *ast.Message
	for _, e := range res.Entries {
		if m, ok := e.(*ast.Message); ok {
			msg = m
		}
	}
	require.NotNil(t, msg)
	reg := &fakeRegistries{messages: map[string]*ast.Message{"msg": msg}, terms: map[string]*ast.Term{}, fns: function.DefaultRegistry()}

	out, errs := ResolveMessage(context.Background(), reg, msg, nil, "foo", Options{})
	assert.Empty(t, errs)
	assert.Equal(t, "second", out)
}

func TestResolveTermReferenceIsolatesArgumentScope(t *testing.T) {
	reg := newFakeRegistries(`
-brand = { $case ->
    [genitive] Frobnicator's
   *[nominative] Frobnicator
}
uses-term = { -brand(case: "genitive") } manual
`)
	msg := mustMessage(t, reg, "uses-term")

	out, errs := ResolveMessage(context.Background(), reg, msg, map[string]Value{"case": "this-should-not-leak"}, "", Options{})
	assert.Empty(t, errs)
	assert.Equal(t, "Frobnicator's manual", out)
}

func TestResolveUnknownFunctionFallsBack(t *testing.T) {
	reg := newFakeRegistries(`msg = { NOPE($x) }`)
	msg := mustMessage(t, reg, "msg")

	out, errs := ResolveMessage(context.Background(), reg, msg, map[string]Value{"x": "y"}, "", Options{})
	require.Len(t, errs, 1)
	assert.Equal(t, CategoryReference, errs[0].Category)
	assert.Equal(t, "{NOPE(...)}", out)
}

func TestResolveExpansionBudgetExhaustion(t *testing.T) {
	reg := newFakeRegistries(`msg = { $x }`)
	msg := mustMessage(t, reg, "msg")

	out, errs := ResolveMessage(context.Background(), reg, msg, map[string]Value{"x": "0123456789"}, "", Options{MaxExpansionSize: 5})
	require.NotEmpty(t, errs)
	assert.Equal(t, CategoryResolution, errs[0].Category)
	assert.Empty(t, out)
}

// TestResolveNumberBuiltinWithLiteralArgument exercises NUMBER called
// directly with a number literal parsed from FTL source, rather than a
// $variable bound to a float64 — the path resolveArgValue wraps as a
// resolve.Number rather than a bare float64.
func TestResolveNumberBuiltinWithLiteralArgument(t *testing.T) {
	reg := newFakeRegistries(`msg = { NUMBER(1234.50, minimumFractionDigits: 2) }`)
	msg := mustMessage(t, reg, "msg")

	out, errs := ResolveMessage(context.Background(), reg, msg, nil, "", Options{Locale: "en-US"})
	assert.Empty(t, errs)
	assert.Contains(t, out, "1,234.5")
}

// TestResolveCurrencyBuiltinWithLiteralArgument is the CURRENCY analogue of
// TestResolveNumberBuiltinWithLiteralArgument.
func TestResolveCurrencyBuiltinWithLiteralArgument(t *testing.T) {
	reg := newFakeRegistries(`msg = { CURRENCY(19.99, currencyCode: "USD") }`)
	msg := mustMessage(t, reg, "msg")

	out, errs := ResolveMessage(context.Background(), reg, msg, nil, "", Options{Locale: "en-US"})
	assert.Empty(t, errs)
	assert.Contains(t, out, "19.99")
}
