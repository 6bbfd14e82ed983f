package syntax

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aledsdavies/ftlengine/ast"
)

// Parse parses source into a Resource. It never fails: malformed input
// becomes Junk entries, and parsing always terminates within the default
// max_source_size / max_parse_errors budgets.
func Parse(source string) *ast.Resource {
	res, _, _ := ParseSource(source)
	return res
}

// ParseSource is the configurable entry point. It behaves like Parse except
// that it returns a non-nil error (and an empty Resource) if the
// caller-supplied source violates max_source_size outright — a condition
// Parse itself silences by returning that empty Resource alone. The
// returned *ParseContext reports the limits actually in effect, including
// whether a caller-requested max_nesting_depth was clamped to the host's
// usable recursion budget (ParseContext.NestingClamped): callers that want
// to surface that as a warning can check it without re-deriving the clamp
// logic themselves.
func ParseSource(source string, opts ...ParserOption) (*ast.Resource, *ParseContext, error) {
	ctx := NewParseContext(opts...)
	source = normalizeLineEndings(source)

	if n := len([]rune(source)); n > ctx.MaxSourceSize {
		return &ast.Resource{}, ctx, &ConfigError{
			Code:    CodeSourceTooLarge,
			Message: "source exceeds max_source_size",
		}
	}

	p := &parser{scanner: newScanner(source), ctx: ctx, source: source}
	return p.parseResource(), ctx, nil
}

// normalizeLineEndings converts CRLF and lone CR to LF before any scanning,
// per the parser's input sanitation rule.
func normalizeLineEndings(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\r", "\n")
}

type parser struct {
	*scanner
	ctx        *ParseContext
	source     string
	errorCount int
	depth      int
}

func (p *parser) parseResource() *ast.Resource {
	res := &ast.Resource{}

	for !p.atEnd() {
		p.skipBlankLines()
		if p.atEnd() {
			break
		}

		if p.col != 1 || isInlineBlankRune(p.current()) {
			res.Entries = append(res.Entries, p.recoverJunk(CodeEntryMustStartAtColumnOne, "entry must start at column 1"))
			continue
		}

		startPos := p.pos
		entry := p.parseEntry()
		if entry != nil {
			res.Entries = append(res.Entries, entry)
		}
		if p.pos == startPos {
			// Safety net: an entry parser that makes no progress would spin
			// forever. This should be unreachable; every branch below either
			// consumes input or defers to recoverJunk, which always does.
			res.Entries = append(res.Entries, p.recoverJunk(CodeUnexpectedCharacter, "parser made no progress"))
		}

		if p.ctx.MaxParseErrors > 0 && p.errorCount >= p.ctx.MaxParseErrors {
			break
		}
	}

	return res
}

// parseEntry parses one message, term, or comment at the current (column-1)
// position, attaching a preceding comment to the message/term it documents
// when there is no blank line between them.
func (p *parser) parseEntry() ast.Entry {
	switch {
	case p.current() == '#':
		comment := p.parseCommentBlock()
		if comment.Kind == ast.CommentRegular && !p.blankLineFollows() {
			if next := p.peekEntryKind(); next == entryKindMessage || next == entryKindTerm {
				entry := p.parseEntry()
				switch e := entry.(type) {
				case *ast.Message:
					e.Comment = comment
					return e
				case *ast.Term:
					e.Comment = comment
					return e
				}
				return entry
			}
		}
		return comment
	case p.current() == '-':
		return p.parseTerm()
	case isIdentStart(p.current()):
		return p.parseMessage()
	default:
		return p.recoverJunk(CodeUnexpectedCharacter, "expected a message, term, or comment")
	}
}

type entryKind int

const (
	entryKindUnknown entryKind = iota
	entryKindMessage
	entryKindTerm
	entryKindComment
)

func (p *parser) peekEntryKind() entryKind {
	switch {
	case p.current() == '#':
		return entryKindComment
	case p.current() == '-':
		return entryKindTerm
	case isIdentStart(p.current()):
		return entryKindMessage
	default:
		return entryKindUnknown
	}
}

// blankLineFollows reports whether the cursor sits right after a comment's
// trailing newline and the next line is entirely blank.
func (p *parser) blankLineFollows() bool {
	i := p.pos
	for i < len(p.src) && isInlineBlankRune(p.src[i]) {
		i++
	}
	return i >= len(p.src) || p.src[i] == '\n'
}

// --- Comments ---

func (p *parser) parseCommentBlock() *ast.Comment {
	startMark := p.mark()
	startSpan := p.pos

	level := p.countHashes()
	kind := commentKindForLevel(level)
	var lines []string
	lines = append(lines, p.consumeCommentLine())

	for {
		m := p.mark()
		if p.col != 1 || p.current() != '#' {
			p.reset(m)
			break
		}
		lvl := p.countHashesNoConsumeCheck()
		if lvl != level {
			p.reset(m)
			break
		}
		p.countHashes()
		lines = append(lines, p.consumeCommentLine())
	}

	_ = startMark
	return &ast.Comment{
		Kind:    kind,
		Content: strings.Join(lines, "\n"),
		Span:    ast.Span{Start: startSpan, End: p.pos},
	}
}

func commentKindForLevel(level int) ast.CommentKind {
	switch level {
	case 2:
		return ast.CommentGroup
	case 3:
		return ast.CommentResource
	default:
		return ast.CommentRegular
	}
}

// countHashes consumes up to 3 leading '#' characters and returns how many
// were found.
func (p *parser) countHashes() int {
	n := 0
	for n < 3 && p.current() == '#' {
		p.advance()
		n++
	}
	return n
}

// countHashesNoConsumeCheck peeks the hash run length without consuming.
func (p *parser) countHashesNoConsumeCheck() int {
	n := 0
	for n < 4 && p.peek(n) == '#' {
		n++
	}
	if n > 3 {
		return 0 // four-or-more hashes is not a valid comment marker
	}
	return n
}

// consumeCommentLine consumes the optional single space after the hash run
// and the remainder of the line (not including the newline).
func (p *parser) consumeCommentLine() string {
	if p.current() == ' ' {
		p.advance()
	}
	m := p.mark()
	for !p.atEnd() && p.current() != '\n' {
		p.advance()
	}
	content := p.sliceFrom(m)
	if !p.atEnd() {
		p.advance() // consume newline
	}
	return content
}

// --- Messages & terms ---

func (p *parser) parseMessage() ast.Entry {
	startSpan := p.pos
	id := p.parseIdentifier()
	if id == nil {
		return p.recoverJunk(CodeUnexpectedCharacter, "expected identifier")
	}

	p.skipInlineBlank()
	if p.current() != '=' {
		return p.recoverJunk(CodeExpectedToken, "expected '=' after message identifier")
	}
	p.advance()

	value := p.parsePattern(false)
	attrs := p.parseAttributes()

	if value == nil && len(attrs) == 0 {
		// Invariant: a message must have a value or at least one attribute.
		// Rather than reject outright, record the empty message as-is; the
		// bundle's strict-mode validation (not the parser) is responsible
		// for rejecting genuinely empty messages, per spec.md §4.1's
		// robustness principle.
	}

	return &ast.Message{
		Id:         *id,
		Value:      value,
		Attributes: attrs,
		Span:       ast.Span{Start: startSpan, End: p.pos},
	}
}

func (p *parser) parseTerm() ast.Entry {
	startSpan := p.pos
	p.advance() // consume '-'
	id := p.parseIdentifier()
	if id == nil {
		return p.recoverJunk(CodeUnexpectedCharacter, "expected identifier after '-'")
	}

	p.skipInlineBlank()
	if p.current() != '=' {
		return p.recoverJunk(CodeExpectedToken, "expected '=' after term identifier")
	}
	p.advance()

	value := p.parsePattern(false)
	if value == nil {
		return p.recoverJunk(CodeMissingValue, "term requires a value")
	}
	attrs := p.parseAttributes()

	return &ast.Term{
		Id:         *id,
		Value:      *value,
		Attributes: attrs,
		Span:       ast.Span{Start: startSpan, End: p.pos},
	}
}

// parseAttributes consumes zero or more `.id = pattern` lines indented
// under the entry that was just parsed.
func (p *parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for {
		m := p.mark()
		if !p.skipToIndentedContent() || p.current() != '.' {
			p.reset(m)
			break
		}
		attrStart := p.pos
		p.advance() // consume '.'
		id := p.parseIdentifier()
		if id == nil {
			p.reset(m)
			break
		}
		p.skipInlineBlank()
		if p.current() != '=' {
			p.reset(m)
			break
		}
		p.advance()
		value := p.parsePattern(false)
		if value == nil {
			value = &ast.Pattern{}
		}
		attrs = append(attrs, ast.Attribute{
			Id:    *id,
			Value: *value,
			Span:  ast.Span{Start: attrStart, End: p.pos},
		})
	}
	return attrs
}

// skipToIndentedContent advances past a single newline and any leading
// inline blanks, reporting whether it landed on indented (column > 1),
// non-blank content.
func (p *parser) skipToIndentedContent() bool {
	if p.current() != '\n' {
		return false
	}
	p.advance()
	for isInlineBlankRune(p.current()) {
		p.advance()
	}
	return p.col > 1 && p.current() != '\n' && !p.atEnd()
}

// --- Identifiers ---

func (p *parser) parseIdentifier() *ast.Identifier {
	if !isIdentStart(p.current()) {
		return nil
	}
	m := p.mark()
	start := p.pos
	for isIdentPart(p.current()) {
		p.advance()
	}
	return &ast.Identifier{Name: p.sliceFrom(m), Span: ast.Span{Start: start, End: p.pos}}
}

// --- Whitespace helpers ---

func (p *parser) skipInlineBlank() {
	for isInlineBlankRune(p.current()) {
		p.advance()
	}
}

// skipBlankLines consumes newlines and inline blanks that make up
// completely empty lines between top-level entries.
func (p *parser) skipBlankLines() {
	for {
		m := p.mark()
		for isInlineBlankRune(p.current()) {
			p.advance()
		}
		if p.current() == '\n' {
			p.advance()
			continue
		}
		p.reset(m)
		return
	}
}

// --- Junk recovery ---

// recoverJunk consumes from the current position through the end of the
// current malformed entry — up to (but not including) the next line that
// starts at column 1 with a valid entry leader, or EOF — and wraps it in a
// Junk node.
func (p *parser) recoverJunk(code, message string) *ast.Junk {
	p.errorCount++
	start := p.pos
	startLine, startCol := p.line, p.col

	// At EOF there is nothing left to consume and the Junk is zero-width.
	for !p.atEnd() {
		if p.current() == '\n' {
			p.advance()
			if p.col == 1 && p.atValidEntryStart() {
				break
			}
			continue
		}
		p.advance()
	}

	content := string(p.src[start:p.pos])
	return &ast.Junk{
		Content: content,
		Annotations: []ast.Annotation{{
			Code:    code,
			Message: message,
			Span:    ast.Span{Start: start, End: p.pos},
		}},
		Span: ast.Span{Start: start, End: p.pos},
	}
}

func (p *parser) atValidEntryStart() bool {
	if p.atEnd() {
		return true
	}
	c := p.current()
	return c == '#' || c == '-' || isIdentStart(c) || c == '\n'
}

// --- Numbers ---

func (p *parser) parseNumberLiteral() *ast.NumberLiteral {
	m := p.mark()
	start := p.pos
	if p.current() == '-' {
		p.advance()
	}
	if !isDigit(p.current()) {
		p.reset(m)
		return nil
	}
	for isDigit(p.current()) {
		p.advance()
	}
	if p.current() == '.' && isDigit(p.peek(1)) {
		p.advance()
		for isDigit(p.current()) {
			p.advance()
		}
	}
	raw := p.sliceFrom(m)
	val, err := decimal.NewFromString(raw)
	if err != nil {
		p.reset(m)
		return nil
	}
	return &ast.NumberLiteral{Raw: raw, Value: val, Span: ast.Span{Start: start, End: p.pos}}
}

// --- Strings ---

func (p *parser) parseStringLiteral() *ast.StringLiteral {
	if p.current() != '"' {
		return nil
	}
	start := p.pos
	p.advance()
	var b strings.Builder
	for !p.atEnd() && p.current() != '"' {
		if p.current() == '\\' {
			p.advance()
			switch p.current() {
			case '"', '\\':
				b.WriteRune(p.current())
				p.advance()
			case 'u':
				p.advance()
				b.WriteRune(p.parseUnicodeEscape(4))
			case 'U':
				p.advance()
				b.WriteRune(p.parseUnicodeEscape(6))
			default:
				b.WriteRune(p.current())
				p.advance()
			}
			continue
		}
		if p.current() == '\n' {
			break
		}
		b.WriteRune(p.current())
		p.advance()
	}
	if p.current() == '"' {
		p.advance()
	}
	return &ast.StringLiteral{Value: b.String(), Span: ast.Span{Start: start, End: p.pos}}
}

func (p *parser) parseUnicodeEscape(digits int) rune {
	var v rune
	for i := 0; i < digits; i++ {
		c := p.current()
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return v
		}
		v = v*16 + d
		p.advance()
	}
	return v
}
