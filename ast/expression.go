package ast

import "github.com/shopspring/decimal"

// Expression is either a SelectExpression or an InlineExpression.
type Expression interface {
	isExpression()
	Position() Span
}

// InlineExpression is every Expression variant that may itself be used as a
// select expression's selector, a function argument, or nested inside
// another placeable: StringLiteral, NumberLiteral, VariableReference,
// MessageReference, TermReference, FunctionReference, and (nested) Placeable.
type InlineExpression interface {
	Expression
	isInlineExpression()
}

// StringLiteral is a quoted string literal, already unescaped.
type StringLiteral struct {
	Value string
	Span  Span
}

func (*StringLiteral) isExpression()       {}
func (*StringLiteral) isInlineExpression() {}
func (s *StringLiteral) Position() Span    { return s.Span }

// NumberLiteral carries both the parsed numeric value and the exact source
// text it was parsed from, so that serialization round-trips byte-for-byte
// and so that the resolver can recover the CLDR "v" operand (the count of
// visible fraction digits) from the literal's scale — 1.0 and 1.00 select
// different plural variants in scale-sensitive locales even though they are
// numerically equal.
type NumberLiteral struct {
	Raw   string
	Value decimal.Decimal
	Span  Span
}

func (*NumberLiteral) isExpression()       {}
func (*NumberLiteral) isInlineExpression() {}
func (n *NumberLiteral) Position() Span    { return n.Span }

// Precision returns the number of visible fraction digits in the literal's
// original source form (the CLDR "v" operand), derived from the decimal's
// exponent rather than by re-scanning Raw.
func (n *NumberLiteral) Precision() int {
	exp := n.Value.Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

// IsInteger reports whether the literal has no visible fraction digits.
func (n *NumberLiteral) IsInteger() bool {
	return n.Precision() == 0
}

// VariableReference is a `$name` placeable.
type VariableReference struct {
	Id   Identifier
	Span Span
}

func (*VariableReference) isExpression()       {}
func (*VariableReference) isInlineExpression() {}
func (v *VariableReference) Position() Span    { return v.Span }

// MessageReference is a reference to another message's value, or one of its
// attributes, e.g. `{ welcome }` or `{ welcome.greeting }`.
type MessageReference struct {
	Id        Identifier
	Attribute *Identifier
	Span      Span
}

func (*MessageReference) isExpression()       {}
func (*MessageReference) isInlineExpression() {}
func (m *MessageReference) Position() Span    { return m.Span }

// TermReference is a reference to a term, optionally to one of its
// attributes, and optionally parameterized with CallArguments, e.g.
// `{ -brand-name }` or `{ -brand-name(case: "genitive") }`.
type TermReference struct {
	Id        Identifier
	Attribute *Identifier
	Arguments *CallArguments
	Span      Span
}

func (*TermReference) isExpression()       {}
func (*TermReference) isInlineExpression() {}
func (t *TermReference) Position() Span    { return t.Span }

// FunctionReference is a call to a registered function, e.g.
// `{ NUMBER($count, minimumFractionDigits: 2) }`. Arguments is always
// present (possibly empty).
type FunctionReference struct {
	Id        Identifier
	Arguments CallArguments
	Span      Span
}

func (*FunctionReference) isExpression()       {}
func (*FunctionReference) isInlineExpression() {}
func (f *FunctionReference) Position() Span    { return f.Span }

// CallArguments is the ordered positional and named argument list of a
// FunctionReference or parameterized TermReference.
//
// Invariant: named argument names are unique; named argument values are
// restricted by the grammar to StringLiteral or NumberLiteral. Programmatic
// construction may violate the latter — the serializer's validator rejects
// it (see syntax.Serialize with validation enabled).
type CallArguments struct {
	Positional []InlineExpression
	Named      []NamedArgument
	Span       Span
}

// NamedArgument is one `name: value` pair inside CallArguments.
type NamedArgument struct {
	Name  Identifier
	Value InlineExpression
	Span  Span
}

// VariantKey is either an Identifier (a literal key) or a NumberLiteral (a
// numeric key, matched both by string and by numeric value during
// selection).
type VariantKey interface {
	isVariantKey()
	Position() Span
}

func (*Identifier) isVariantKey()        {}
func (i *Identifier) Position() Span     { return i.Span }
func (*NumberLiteral) isVariantKey()     {}

// Variant is one `[key] pattern` arm of a SelectExpression. Exactly one
// variant in a given SelectExpression.Variants must have Default set.
type Variant struct {
	Key     VariantKey
	Value   Pattern
	Default bool
	Span    Span
}

// SelectExpression branches on a selector's resolved value, choosing among
// Variants. The parser does not reject a selector with zero or multiple
// default variants — that is caught by syntax validation
// (syntax.Serialize(validate=true)) and by the resolver, which falls back to
// the first variant marked default, or to an empty string plus an error
// when no variant is, rather than panicking on malformed programmatic ASTs.
type SelectExpression struct {
	Selector InlineExpression
	Variants []Variant
	Span     Span
}

func (*SelectExpression) isExpression()    {}
func (s *SelectExpression) Position() Span { return s.Span }
