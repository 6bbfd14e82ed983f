package syntax

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/guard"
)

// DefaultSerializeMaxDepth bounds the nesting depth the serializer will walk
// before aborting with CodeMaxDepthExceeded, protecting it against the same
// adversarially deep or cyclic programmatic ASTs the parser's
// MaxNestingDepth protects parsing against.
const DefaultSerializeMaxDepth = 100

// SerializeOptions configures Serialize.
type SerializeOptions struct {
	Validate bool
	MaxDepth int
}

// SerializeOption configures SerializeOptions.
type SerializeOption func(*SerializeOptions)

// WithValidation toggles the structural checks documented on Serialize.
// Validation defaults to on.
func WithValidation(validate bool) SerializeOption {
	return func(o *SerializeOptions) { o.Validate = validate }
}

// WithSerializeMaxDepth overrides DefaultSerializeMaxDepth.
func WithSerializeMaxDepth(n int) SerializeOption {
	return func(o *SerializeOptions) { o.MaxDepth = n }
}

// Serialize renders a Resource back to FTL source text. For any
// parser-produced Resource, Parse(Serialize(r)) is equivalent to r up to
// span values (the round-trip property); programmatically-built resources
// are also accepted.
//
// With validation on (the default), Serialize additionally reports, without
// aborting rendering: select expressions lacking exactly one default
// variant, identifiers violating the grammar, duplicate named argument
// names within one call, and named-argument values that are not string or
// number literals. A depth guard reports a dedicated error for any
// placeable nested deeper than MaxDepth and renders that placeable with
// nothing inside; the rest of the entry and the other entries still render.
func Serialize(res *ast.Resource, opts ...SerializeOption) (string, []error) {
	o := SerializeOptions{Validate: true, MaxDepth: DefaultSerializeMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	s := &serializer{opts: o, depth: guard.NewDepthGuard(o.MaxDepth)}
	var b strings.Builder
	for i, entry := range res.Entries {
		// A blank line after a standalone comment keeps it from attaching to
		// the next entry when the output is parsed again.
		if i > 0 {
			if _, afterComment := res.Entries[i-1].(*ast.Comment); afterComment {
				b.WriteString("\n")
			}
		}
		s.writeEntry(&b, entry)
	}
	return b.String(), s.errs
}

type serializer struct {
	opts  SerializeOptions
	depth *guard.DepthGuard
	errs  []error
}

func (s *serializer) fail(code, message string, span ast.Span) {
	s.errs = append(s.errs, &SerializeError{Code: code, Message: message, Span: [2]int{span.Start, span.End}})
}

func (s *serializer) checkIdentifier(id ast.Identifier) {
	if !s.opts.Validate {
		return
	}
	if !validIdentifier(id.Name) {
		s.fail(CodeInvalidIdentifier, "invalid identifier: "+id.Name, id.Span)
	}
}

func validIdentifier(name string) bool {
	if name == "" || !isIdentStart(rune(name[0])) {
		return false
	}
	for _, r := range name[1:] {
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func (s *serializer) enterDepth(span ast.Span) (func(), bool) {
	leave, err := s.depth.Enter()
	if err != nil {
		s.fail(CodeMaxDepthExceeded, err.Error(), span)
		return func() {}, false
	}
	return leave, true
}

func (s *serializer) writeEntry(b *strings.Builder, entry ast.Entry) {
	switch e := entry.(type) {
	case *ast.Message:
		if e.Comment != nil {
			s.writeComment(b, e.Comment)
		}
		s.checkIdentifier(e.Id)
		b.WriteString(e.Id.Name)
		b.WriteString(" =")
		if e.Value != nil {
			b.WriteString(" ")
			s.writePattern(b, *e.Value)
		}
		b.WriteString("\n")
		s.writeAttributes(b, e.Attributes)
	case *ast.Term:
		if e.Comment != nil {
			s.writeComment(b, e.Comment)
		}
		s.checkIdentifier(e.Id)
		b.WriteString("-")
		b.WriteString(e.Id.Name)
		b.WriteString(" = ")
		s.writePattern(b, e.Value)
		b.WriteString("\n")
		s.writeAttributes(b, e.Attributes)
	case *ast.Comment:
		s.writeComment(b, e)
	case *ast.Junk:
		b.WriteString(e.Content)
	}
}

func (s *serializer) writeAttributes(b *strings.Builder, attrs []ast.Attribute) {
	for _, a := range attrs {
		s.checkIdentifier(a.Id)
		b.WriteString("    .")
		b.WriteString(a.Id.Name)
		b.WriteString(" = ")
		s.writePattern(b, a.Value)
		b.WriteString("\n")
	}
}

func (s *serializer) writeComment(b *strings.Builder, c *ast.Comment) {
	marker := "#"
	switch c.Kind {
	case ast.CommentGroup:
		marker = "##"
	case ast.CommentResource:
		marker = "###"
	}
	for _, line := range strings.Split(c.Content, "\n") {
		b.WriteString(marker)
		if line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
}

func (s *serializer) writePattern(b *strings.Builder, p ast.Pattern) {
	for _, el := range p.Elements {
		switch e := el.(type) {
		case *ast.TextElement:
			writeTextElement(b, e.Value)
		case *ast.Placeable:
			s.writePlaceable(b, e)
		}
	}
}

// writeTextElement renders a text element's value, switching to the
// separate-line layout (each line after the first reindented under the
// entry) whenever the value carries an embedded newline — as the parser
// produces for a multi-line pattern (it strips indentation off continuation
// lines as it reads them and joins them with a bare newline) and as a
// programmatically-built AST may also contain. Writing the newline back out bare would put the next line at
// column 1, which the grammar reads as the start of a new entry rather than
// a pattern continuation; reindenting preserves the round trip.
func writeTextElement(b *strings.Builder, value string) {
	if !strings.Contains(value, "\n") {
		b.WriteString(value)
		return
	}
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n    ")
		}
		b.WriteString(line)
	}
}

func (s *serializer) writePlaceable(b *strings.Builder, p *ast.Placeable) {
	leave, ok := s.enterDepth(p.Span)
	defer leave()
	b.WriteString("{ ")
	if ok {
		s.writeExpression(b, p.Expression)
	}
	if _, isSelect := p.Expression.(*ast.SelectExpression); isSelect && ok {
		b.WriteString("}")
	} else {
		b.WriteString(" }")
	}
}

func (s *serializer) writeExpression(b *strings.Builder, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.SelectExpression:
		s.writeInline(b, e.Selector)
		b.WriteString(" ->\n")
		s.checkVariants(e.Variants, e.Span)
		for _, v := range e.Variants {
			if v.Default {
				b.WriteString("   *[")
			} else {
				b.WriteString("    [")
			}
			s.writeVariantKey(b, v.Key)
			b.WriteString("] ")
			s.writePattern(b, v.Value)
			b.WriteString("\n")
		}
	default:
		if inline, ok := expr.(ast.InlineExpression); ok {
			s.writeInline(b, inline)
		}
	}
}

func (s *serializer) checkVariants(variants []ast.Variant, span ast.Span) {
	if !s.opts.Validate {
		return
	}
	defaults := 0
	for _, v := range variants {
		if v.Default {
			defaults++
		}
	}
	switch {
	case defaults == 0:
		s.fail(CodeMissingDefaultVariant, "select expression has no default variant", span)
	case defaults > 1:
		s.fail(CodeMultipleDefaultVariants, "select expression has more than one default variant", span)
	}
}

func (s *serializer) writeVariantKey(b *strings.Builder, key ast.VariantKey) {
	switch k := key.(type) {
	case *ast.Identifier:
		b.WriteString(k.Name)
	case *ast.NumberLiteral:
		b.WriteString(k.Raw)
	}
}

func (s *serializer) writeInline(b *strings.Builder, expr ast.InlineExpression) {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		b.WriteString(strconv.Quote(e.Value))
	case *ast.NumberLiteral:
		b.WriteString(e.Raw)
	case *ast.VariableReference:
		b.WriteString("$")
		b.WriteString(e.Id.Name)
	case *ast.MessageReference:
		b.WriteString(e.Id.Name)
		s.writeAttributeSuffix(b, e.Attribute)
	case *ast.TermReference:
		b.WriteString("-")
		b.WriteString(e.Id.Name)
		s.writeAttributeSuffix(b, e.Attribute)
		if e.Arguments != nil {
			s.writeCallArguments(b, *e.Arguments)
		}
	case *ast.FunctionReference:
		b.WriteString(e.Id.Name)
		s.writeCallArguments(b, e.Arguments)
	case *ast.Placeable:
		s.writePlaceable(b, e)
	}
}

func (s *serializer) writeAttributeSuffix(b *strings.Builder, attr *ast.Identifier) {
	if attr == nil {
		return
	}
	b.WriteString(".")
	b.WriteString(attr.Name)
}

func (s *serializer) writeCallArguments(b *strings.Builder, args ast.CallArguments) {
	b.WriteString("(")
	s.checkNamedArguments(args.Named, args.Span)
	first := true
	for _, p := range args.Positional {
		if !first {
			b.WriteString(", ")
		}
		first = false
		s.writeInline(b, p)
	}
	for _, n := range args.Named {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(n.Name.Name)
		b.WriteString(": ")
		s.writeInline(b, n.Value)
	}
	b.WriteString(")")
}

func (s *serializer) checkNamedArguments(named []ast.NamedArgument, span ast.Span) {
	if !s.opts.Validate {
		return
	}
	seen := make(map[string]bool, len(named))
	for _, n := range named {
		if seen[n.Name.Name] {
			s.fail(CodeDuplicateNamedArgument, "duplicate named argument: "+n.Name.Name, span)
		}
		seen[n.Name.Name] = true
		switch n.Value.(type) {
		case *ast.StringLiteral, *ast.NumberLiteral:
		default:
			s.fail(CodeInvalidNamedArgumentValue, "named argument "+n.Name.Name+" value must be a string or number literal", span)
		}
	}
}
