package ast

// Pattern is an ordered sequence of text and placeables making up the value
// of a message, term, or attribute.
type Pattern struct {
	Elements []PatternElement
	Span     Span
}

// PatternElement is one element of a Pattern: either literal text or a
// placeable expression.
type PatternElement interface {
	isPatternElement()
	Position() Span
}

// TextElement is a run of literal text between placeables.
type TextElement struct {
	Value string
	Span  Span
}

func (*TextElement) isPatternElement() {}
func (t *TextElement) Position() Span  { return t.Span }

// Placeable wraps an Expression embedded in a pattern via `{ ... }`. It also
// implements InlineExpression so that placeables may nest, e.g.
// `{ {$a} }` or a function argument that is itself a placeable.
type Placeable struct {
	Expression Expression
	Span       Span
}

func (*Placeable) isPatternElement()  {}
func (*Placeable) isExpression()      {}
func (*Placeable) isInlineExpression() {}
func (p *Placeable) Position() Span   { return p.Span }
