package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/ftlengine/ast"
)

func TestSerializeRoundTripsSimpleMessage(t *testing.T) {
	t.Parallel()

	source := "hello = Hello, { $name }!\n"
	res := Parse(source)
	out, errs := Serialize(res)
	require.Empty(t, errs)
	assert.Equal(t, source, out)
}

func TestSerializeRoundTripsAttributesAndTerms(t *testing.T) {
	t.Parallel()

	source := "-brand = Acme\n" +
		"    .genitive = Acme's\n" +
		"welcome = Welcome to { -brand }\n" +
		"    .aria-label = Welcome banner\n"
	res := Parse(source)
	out, errs := Serialize(res)
	require.Empty(t, errs)
	assert.Equal(t, source, out)

	reparsed := Parse(out)
	diff := cmp.Diff(res, reparsed, ignoreSpanOpt)
	assert.Empty(t, diff, "round trip must be span-insensitively equal: %s", diff)
}

// ignoreSpanOpt makes cmp.Diff treat any two ast.Span values as equal,
// regardless of where they appear in the tree, so round-trip comparisons
// only check semantic content per spec.md §4.2's span-insensitive equality.
var ignoreSpanOpt = cmp.Comparer(func(a, b ast.Span) bool { return true })

func TestSerializeValidatesSelectExpressionDefault(t *testing.T) {
	t.Parallel()

	res := ast.NewResource(ast.Msg("x", ast.Pat(ast.Place(ast.Select(ast.Var("n"),
		ast.VariantOf(ast.Ident("one"), *ast.Pat(ast.Text("one"))),
		ast.VariantOf(ast.Ident("other"), *ast.Pat(ast.Text("other"))),
	)))))

	_, errs := Serialize(res)
	require.Len(t, errs, 1)
	se, ok := errs[0].(*SerializeError)
	require.True(t, ok)
	assert.Equal(t, CodeMissingDefaultVariant, se.Code)
}

func TestSerializeValidatesDuplicateNamedArguments(t *testing.T) {
	t.Parallel()

	res := ast.NewResource(ast.Msg("x", ast.Pat(ast.Place(
		ast.FuncRef("NUMBER", ast.Args(
			[]ast.InlineExpression{ast.Var("n")},
			ast.NamedArg("style", ast.Str("decimal")),
			ast.NamedArg("style", ast.Str("percent")),
		)),
	))))

	_, errs := Serialize(res)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if se, ok := e.(*SerializeError); ok && se.Code == CodeDuplicateNamedArgument {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSerializeValidatesInvalidIdentifier(t *testing.T) {
	t.Parallel()

	res := ast.NewResource(ast.Msg("9bad", ast.Pat(ast.Text("x"))))
	_, errs := Serialize(res)
	require.NotEmpty(t, errs)
	assert.Equal(t, CodeInvalidIdentifier, errs[0].(*SerializeError).Code)
}

func TestSerializeWithValidationOffSuppressesErrors(t *testing.T) {
	t.Parallel()

	res := ast.NewResource(ast.Msg("9bad", ast.Pat(ast.Text("x"))))
	_, errs := Serialize(res, WithValidation(false))
	assert.Empty(t, errs)
}
