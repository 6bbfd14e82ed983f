package syntax

import (
	"strings"

	"github.com/aledsdavies/ftlengine/ast"
)

// parsePattern parses a message/term/attribute value. insideVariant should
// be true when parsing a select expression variant's pattern, which must
// additionally stop its continuation-line scan at the next variant marker
// (`*[` or `[`) or the placeable's closing `}`, rather than only at
// attributes and column-1 entries.
func (p *parser) parsePattern(insideVariant bool) *ast.Pattern {
	start := p.pos
	var elements []ast.PatternElement
	var textBuf strings.Builder
	haveContent := false

	p.skipInlineBlank()

	if p.current() != '\n' && !p.atEnd() {
		p.parsePatternLineContent(&elements, &textBuf)
		haveContent = true
	}

	for {
		m := p.mark()
		if p.current() != '\n' || p.atEnd() {
			break
		}
		p.advance()
		indentStart := p.pos
		for isInlineBlankRune(p.current()) {
			p.advance()
		}
		indentCols := p.pos - indentStart

		if indentCols == 0 || p.atEnd() || p.current() == '\n' || p.current() == '.' {
			p.reset(m)
			break
		}
		if insideVariant && (p.current() == '[' || p.current() == '}' || (p.current() == '*' && p.peek(1) == '[')) {
			p.reset(m)
			break
		}

		if haveContent {
			textBuf.WriteString("\n")
		}
		p.parsePatternLineContent(&elements, &textBuf)
		haveContent = true
	}

	flushTextInto(&elements, &textBuf)

	if !haveContent {
		return nil
	}
	return &ast.Pattern{Elements: elements, Span: ast.Span{Start: start, End: p.pos}}
}

func flushTextInto(elements *[]ast.PatternElement, buf *strings.Builder) {
	if buf.Len() == 0 {
		return
	}
	*elements = append(*elements, &ast.TextElement{Value: buf.String()})
	buf.Reset()
}

// parsePatternLineContent consumes text and placeables from the current
// position through the end of the physical line (or EOF).
func (p *parser) parsePatternLineContent(elements *[]ast.PatternElement, textBuf *strings.Builder) {
	for !p.atEnd() && p.current() != '\n' {
		if p.current() == '{' {
			flushTextInto(elements, textBuf)
			*elements = append(*elements, p.parsePlaceable())
			continue
		}
		textBuf.WriteRune(p.current())
		p.advance()
	}
}

// --- Placeables & expressions ---

func (p *parser) parsePlaceable() *ast.Placeable {
	start := p.pos
	p.advance() // consume '{'
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.ctx.MaxNestingDepth {
		p.consumeBalanced('{', '}')
		return &ast.Placeable{Expression: &ast.StringLiteral{Value: ""}, Span: ast.Span{Start: start, End: p.pos}}
	}

	p.skipAllBlank()
	expr := p.parseExpression()
	p.skipAllBlank()
	if p.current() == '}' {
		p.advance()
	}
	return &ast.Placeable{Expression: expr, Span: ast.Span{Start: start, End: p.pos}}
}

// consumeBalanced consumes runes up to and including the matching close
// delimiter, accounting for nested occurrences of open/close, assuming the
// outermost open delimiter has already been consumed by the caller.
func (p *parser) consumeBalanced(open, close rune) string {
	m := p.mark()
	depth := 1
	for !p.atEnd() && depth > 0 {
		switch p.current() {
		case open:
			depth++
		case close:
			depth--
		}
		p.advance()
	}
	return p.sliceFrom(m)
}

func (p *parser) parseExpression() ast.Expression {
	inline := p.parseInlineExpr()
	p.skipAllBlank()
	if p.matchArrow() {
		variants := p.parseVariants()
		return &ast.SelectExpression{Selector: inline, Variants: variants}
	}
	return inline
}

func (p *parser) matchArrow() bool {
	if p.current() == '-' && p.peek(1) == '>' {
		p.advance()
		p.advance()
		return true
	}
	return false
}

func (p *parser) parseInlineExpr() ast.InlineExpression {
	switch {
	case p.current() == '"':
		return p.parseStringLiteral()
	case p.current() == '-' && isDigit(p.peek(1)):
		return p.parseNumberLiteral()
	case p.current() == '-' && isIdentStart(p.peek(1)):
		return p.parseTermRef()
	case isDigit(p.current()):
		return p.parseNumberLiteral()
	case p.current() == '$':
		p.advance()
		id := p.parseIdentifier()
		if id == nil {
			return &ast.StringLiteral{Value: ""}
		}
		return &ast.VariableReference{Id: *id}
	case p.current() == '{':
		return p.parsePlaceable()
	case isIdentStart(p.current()):
		return p.parseMessageOrFunctionRef()
	default:
		return &ast.StringLiteral{Value: ""}
	}
}

func (p *parser) parseTermRef() ast.InlineExpression {
	start := p.pos
	p.advance() // '-'
	id := p.parseIdentifier()
	if id == nil {
		return &ast.StringLiteral{Value: ""}
	}
	var attr *ast.Identifier
	if p.current() == '.' {
		p.advance()
		attr = p.parseIdentifier()
	}
	var args *ast.CallArguments
	if p.current() == '(' {
		a := p.parseCallArguments()
		args = &a
	}
	return &ast.TermReference{Id: *id, Attribute: attr, Arguments: args, Span: ast.Span{Start: start, End: p.pos}}
}

func (p *parser) parseMessageOrFunctionRef() ast.InlineExpression {
	start := p.pos
	id := p.parseIdentifier()
	if p.current() == '(' {
		args := p.parseCallArguments()
		return &ast.FunctionReference{Id: *id, Arguments: args, Span: ast.Span{Start: start, End: p.pos}}
	}
	var attr *ast.Identifier
	if p.current() == '.' {
		p.advance()
		attr = p.parseIdentifier()
	}
	return &ast.MessageReference{Id: *id, Attribute: attr, Span: ast.Span{Start: start, End: p.pos}}
}

func (p *parser) parseCallArguments() ast.CallArguments {
	start := p.pos
	p.advance() // '('
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.ctx.MaxNestingDepth {
		p.consumeBalanced('(', ')')
		return ast.CallArguments{Span: ast.Span{Start: start, End: p.pos}}
	}

	p.skipAllBlank()
	var positional []ast.InlineExpression
	var named []ast.NamedArgument

	for p.current() != ')' && !p.atEnd() {
		if isIdentStart(p.current()) {
			m := p.mark()
			id := p.parseIdentifier()
			p.skipAllBlank()
			if p.current() == ':' {
				p.advance()
				p.skipAllBlank()
				val := p.parseInlineExpr()
				named = append(named, ast.NamedArgument{Name: *id, Value: val})
			} else {
				p.reset(m)
				positional = append(positional, p.parseInlineExpr())
			}
		} else {
			positional = append(positional, p.parseInlineExpr())
		}
		p.skipAllBlank()
		if p.current() == ',' {
			p.advance()
			p.skipAllBlank()
		}
	}
	if p.current() == ')' {
		p.advance()
	}
	return ast.CallArguments{Positional: positional, Named: named, Span: ast.Span{Start: start, End: p.pos}}
}

func (p *parser) parseVariants() []ast.Variant {
	var variants []ast.Variant
	for {
		m := p.mark()
		p.skipAllBlank()
		isDefault := false
		if p.current() == '*' {
			isDefault = true
			p.advance()
		}
		if p.current() != '[' {
			p.reset(m)
			break
		}
		variantStart := p.pos
		p.advance() // '['
		key := p.parseVariantKey()
		p.skipAllBlank()
		if p.current() == ']' {
			p.advance()
		}
		value := p.parsePattern(true)
		if value == nil {
			value = &ast.Pattern{}
		}
		variants = append(variants, ast.Variant{
			Key:     key,
			Value:   *value,
			Default: isDefault,
			Span:    ast.Span{Start: variantStart, End: p.pos},
		})
	}
	return variants
}

func (p *parser) parseVariantKey() ast.VariantKey {
	if isIdentStart(p.current()) {
		return p.parseIdentifier()
	}
	if num := p.parseNumberLiteral(); num != nil {
		return num
	}
	return &ast.Identifier{}
}

func (p *parser) skipAllBlank() {
	for isInlineBlankRune(p.current()) || p.current() == '\n' {
		p.advance()
	}
}
