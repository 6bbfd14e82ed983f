package ast

import "github.com/shopspring/decimal"

// The functions below build AST nodes programmatically, without going
// through the parser. They exist for tests and for callers that assemble
// resources in memory (e.g. generated translations). Every node they
// produce has a zero Span — Span.IsZero reports true for them — since they
// were never associated with source text.

// NewResource assembles a Resource from a sequence of entries.
func NewResource(entries ...Entry) *Resource {
	return &Resource{Entries: entries}
}

// Msg creates a Message with the given id and value pattern.
func Msg(id string, value *Pattern, attrs ...Attribute) *Message {
	return &Message{
		Id:         Ident(id),
		Value:      value,
		Attributes: attrs,
	}
}

// NewTerm creates a Term with the given id and required value pattern.
func NewTerm(id string, value Pattern, attrs ...Attribute) *Term {
	return &Term{
		Id:         Ident(id),
		Value:      value,
		Attributes: attrs,
	}
}

// Attr creates an Attribute.
func Attr(id string, value Pattern) Attribute {
	return Attribute{Id: Ident(id), Value: value}
}

// Ident creates an Identifier.
func Ident(name string) Identifier {
	return Identifier{Name: name}
}

// Pat assembles a Pattern from a sequence of elements.
func Pat(elements ...PatternElement) *Pattern {
	return &Pattern{Elements: elements}
}

// Text creates a TextElement.
func Text(value string) *TextElement {
	return &TextElement{Value: value}
}

// Place wraps an Expression in a Placeable.
func Place(expr Expression) *Placeable {
	return &Placeable{Expression: expr}
}

// Str creates a StringLiteral.
func Str(value string) *StringLiteral {
	return &StringLiteral{Value: value}
}

// Num creates a NumberLiteral from its exact source text, preserving scale.
// Panics if raw is not a valid decimal literal — callers constructing ASTs
// programmatically are expected to pass well-formed numbers; malformed
// numeric text can only originate from the parser, which never calls this
// constructor.
func Num(raw string) *NumberLiteral {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		panic("ast: invalid number literal " + raw + ": " + err.Error())
	}
	return &NumberLiteral{Raw: raw, Value: v}
}

// Var creates a VariableReference.
func Var(name string) *VariableReference {
	return &VariableReference{Id: Ident(name)}
}

// MsgRef creates a MessageReference, optionally to an attribute.
func MsgRef(id string, attribute string) *MessageReference {
	ref := &MessageReference{Id: Ident(id)}
	if attribute != "" {
		a := Ident(attribute)
		ref.Attribute = &a
	}
	return ref
}

// TermRef creates a TermReference, optionally to an attribute and with call
// arguments.
func TermRef(id string, attribute string, args *CallArguments) *TermReference {
	ref := &TermReference{Id: Ident(id), Arguments: args}
	if attribute != "" {
		a := Ident(attribute)
		ref.Attribute = &a
	}
	return ref
}

// FuncRef creates a FunctionReference.
func FuncRef(id string, args CallArguments) *FunctionReference {
	return &FunctionReference{Id: Ident(id), Arguments: args}
}

// Args assembles CallArguments from positional expressions and named pairs.
func Args(positional []InlineExpression, named ...NamedArgument) CallArguments {
	return CallArguments{Positional: positional, Named: named}
}

// NamedArg creates a NamedArgument. The value is restricted by the grammar
// to a literal; the serializer's validator rejects non-literal values.
func NamedArg(name string, value InlineExpression) NamedArgument {
	return NamedArgument{Name: Ident(name), Value: value}
}

// Select assembles a SelectExpression from a selector and its variants.
func Select(selector InlineExpression, variants ...Variant) *SelectExpression {
	return &SelectExpression{Selector: selector, Variants: variants}
}

// VariantOf creates a non-default Variant.
func VariantOf(key VariantKey, value Pattern) Variant {
	return Variant{Key: key, Value: value}
}

// DefaultVariant creates the Variant marked as the selection's default.
func DefaultVariant(key VariantKey, value Pattern) Variant {
	return Variant{Key: key, Value: value, Default: true}
}
