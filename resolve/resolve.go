package resolve

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/guard"
)

const (
	isolateFirst = '⁨'
	isolateLast  = '⁩'
)

// FunctionRegistry is the narrow slice of function.Registry's behavior the
// resolver calls through. Resolve depends on this interface rather than the
// concrete type so that the function package — which needs to accept a
// resolve.Number argument in its built-ins — can import resolve without
// creating an import cycle back here.
type FunctionRegistry interface {
	Lookup(name string) bool
	Call(name, locale string, positional []interface{}, named map[string]interface{}) (interface{}, error)
}

// Registries is the read-only snapshot of message, term, and function
// state a resolve call needs. The bundle package supplies the concrete
// implementation; resolve depends only on this narrow interface so it
// never needs to import bundle.
type Registries interface {
	Message(id string) (*ast.Message, bool)
	Term(id string) (*ast.Term, bool)
	Functions() FunctionRegistry
}

// Options configures one ResolveMessage call.
type Options struct {
	Locale           string
	UseIsolating     bool
	MaxNestingDepth  int
	MaxExpansionSize int
}

// ResolveMessage formats msg (or one of its attributes, when attribute is
// non-empty) against args, returning the formatted string and every error
// collected along the way. It never panics: a malformed reference, a
// missing variable, a function that returns an error, or a budget
// exhaustion all become a *FluentError plus an in-place textual fallback,
// and resolution continues.
//
// When ctx already carries a *guard.ResolutionContext (attached by a caller
// that is itself inside a resolve call — the reentry case spec.md §4.4 and
// §9 describe, where a user function calls back into the bundle), that
// context's remaining depth and expansion budget is inherited instead of
// starting fresh, so a misbehaving function cannot bypass the per-call cap
// by recursing through the bundle's public API.
func ResolveMessage(ctx context.Context, reg Registries, msg *ast.Message, args map[string]Value, attribute string, opts Options) (string, []*FluentError) {
	pattern, ok := selectPattern(msg.Value, msg.Attributes, attribute)
	if !ok {
		r := newResolver(ctx, reg, opts)
		r.fail(CategoryReference, fmt.Sprintf("message %q has no attribute %q", msg.Id.Name, attribute), nil)
		return fallbackMessage(msg.Id.Name), r.errs
	}

	r := newResolver(ctx, reg, opts)
	r.args = args
	r.pushPath("msg:" + msg.Id.Name)
	out := r.resolvePattern(pattern)
	return out, r.errs
}

// ResolveTerm formats a term (or one of its attributes) against args. It is
// the entry point for formatting a term directly (bundle.FormatTerm); a
// TermReference inside another pattern is resolved by resolveTermRef.
func ResolveTerm(ctx context.Context, reg Registries, term *ast.Term, args map[string]Value, attribute string, opts Options) (string, []*FluentError) {
	pattern, ok := selectPattern(&term.Value, term.Attributes, attribute)
	if !ok {
		r := newResolver(ctx, reg, opts)
		r.fail(CategoryReference, fmt.Sprintf("term %q has no attribute %q", term.Id.Name, attribute), nil)
		return fallbackTerm(term.Id.Name), r.errs
	}
	r := newResolver(ctx, reg, opts)
	r.args = args
	r.pushPath("term:" + term.Id.Name)
	out := r.resolvePattern(pattern)
	return out, r.errs
}

// selectPattern implements the "last attribute with a given name wins"
// rule: when attribute is non-empty it is looked up by scanning attrs in
// order and keeping the last match, rather than stopping at the first.
func selectPattern(value *ast.Pattern, attrs []ast.Attribute, attribute string) (ast.Pattern, bool) {
	if attribute == "" {
		if value == nil {
			return ast.Pattern{}, false
		}
		return *value, true
	}
	var found *ast.Pattern
	for i := range attrs {
		if attrs[i].Id.Name == attribute {
			found = &attrs[i].Value
		}
	}
	if found == nil {
		return ast.Pattern{}, false
	}
	return *found, true
}

type resolver struct {
	ctx     context.Context
	reg     Registries
	opts    Options
	locale  language.Tag
	rc      *guard.ResolutionContext
	args    map[string]Value
	path    []string
	onStack map[string]bool
	errs    []*FluentError
}

func newResolver(ctx context.Context, reg Registries, opts Options) *resolver {
	if opts.MaxNestingDepth <= 0 {
		opts.MaxNestingDepth = 100
	}
	if opts.MaxExpansionSize <= 0 {
		opts.MaxExpansionSize = 1_000_000
	}
	rc := guard.FromContext(ctx)
	if rc == nil {
		rc = guard.NewResolutionContext(opts.MaxNestingDepth, opts.MaxExpansionSize)
		ctx = guard.WithResolutionContext(ctx, rc)
	}
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.Und
	}
	return &resolver{
		ctx:     ctx,
		reg:     reg,
		opts:    opts,
		locale:  tag,
		rc:      rc,
		onStack: make(map[string]bool),
	}
}

func (r *resolver) fail(cat Category, message string, diag *Diagnostic) {
	r.errs = append(r.errs, newError(cat, message, diag))
}

func (r *resolver) pushPath(node string) { r.path = append(r.path, node); r.onStack[node] = true }
func (r *resolver) popPath() {
	node := r.path[len(r.path)-1]
	r.path = r.path[:len(r.path)-1]
	delete(r.onStack, node)
}

// emit charges n characters against the expansion budget and returns s
// unchanged, or "" plus a Resolution error if doing so would overflow it.
func (r *resolver) emit(s string) string {
	if err := r.rc.Charge(len([]rune(s))); err != nil {
		r.fail(CategoryResolution, err.Error(), nil)
		return ""
	}
	return s
}

func (r *resolver) resolvePattern(p ast.Pattern) string {
	var b strings.Builder
	for _, el := range p.Elements {
		switch e := el.(type) {
		case *ast.TextElement:
			b.WriteString(r.emit(e.Value))
		case *ast.Placeable:
			b.WriteString(r.resolvePlaceable(e))
		}
	}
	return b.String()
}

func (r *resolver) resolvePlaceable(p *ast.Placeable) string {
	leave, err := r.rc.Enter()
	if err != nil {
		r.fail(CategoryResolution, err.Error(), &Diagnostic{Code: "E2006"})
		return r.emit("{???}")
	}
	defer leave()

	out, isolate := r.resolveExpression(p.Expression)
	if isolate && r.opts.UseIsolating {
		out = string(isolateFirst) + out + string(isolateLast)
	}
	return r.emit(out)
}

// resolveExpression returns the stringified result of expr and whether
// that result should be bidi-isolated (true for every inline expression;
// false for a select expression, whose chosen variant is returned as is,
// and for an unrecognized expression's fallback text).
func (r *resolver) resolveExpression(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.SelectExpression:
		return r.resolveSelect(e), false
	default:
		if inline, ok := expr.(ast.InlineExpression); ok {
			return r.resolveInline(inline), true
		}
		return "{???}", false
	}
}

func (r *resolver) resolveInline(expr ast.InlineExpression) string {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return e.Value
	case *ast.NumberLiteral:
		return e.Raw
	case *ast.VariableReference:
		return r.resolveVariable(e)
	case *ast.MessageReference:
		return r.resolveMessageRef(e)
	case *ast.TermReference:
		return r.resolveTermRef(e)
	case *ast.FunctionReference:
		return r.resolveFunctionRef(e)
	case *ast.Placeable:
		out, _ := r.resolveExpression(e.Expression)
		return out
	default:
		return "{???}"
	}
}
