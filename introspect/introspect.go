// Package introspect extracts cross-reference information from a Message or
// Term without resolving it: every variable it reads, every function it
// calls, and every other message or term it references, each tagged with
// the syntactic context it was found in. This feeds both external tooling
// (find all messages that read $count) and the bundle's own cycle
// detection.
package introspect

import "github.com/aledsdavies/ftlengine/ast"

// Context names where a reference was found while walking a pattern.
type Context string

const (
	ContextBody     Context = "body"
	ContextSelector Context = "selector"
	ContextVariant  Context = "variant"
	ContextArgument Context = "argument"
)

// VariableRef is one `$name` occurrence.
type VariableRef struct {
	Name    string
	Context Context
}

// FunctionCall is one function reference, recording which of its positional
// arguments are variable references (by index) and the set of its named
// argument keys — enough to reason about a function's inputs without
// re-walking the call's full argument list.
type FunctionCall struct {
	Name                string
	VariableArgIndices  []int
	NamedArgumentNames  []string
}

// RefKind distinguishes a MessageReference from a TermReference.
type RefKind string

const (
	RefKindMessage RefKind = "message"
	RefKindTerm    RefKind = "term"
)

// EntryRef is one reference to another message or term, optionally scoped
// to one of its attributes.
type EntryRef struct {
	Kind      RefKind
	Id        string
	Attribute string // empty when the reference is to the entry's own value
}

// Info is everything Extract found in one Message or Term.
type Info struct {
	Variables []VariableRef
	Functions []FunctionCall
	Refs      []EntryRef
}

// Extract walks every pattern reachable from entry (its value and all of its
// attributes) and collects the variables, function calls, and message/term
// references it finds.
func Extract(entry ast.Entry) *Info {
	info := &Info{}
	switch e := entry.(type) {
	case *ast.Message:
		if e.Value != nil {
			walkPattern(*e.Value, ContextBody, info)
		}
		for _, a := range e.Attributes {
			walkPattern(a.Value, ContextBody, info)
		}
	case *ast.Term:
		walkPattern(e.Value, ContextBody, info)
		for _, a := range e.Attributes {
			walkPattern(a.Value, ContextBody, info)
		}
	}
	return info
}

func walkPattern(p ast.Pattern, ctx Context, info *Info) {
	for _, el := range p.Elements {
		if pl, ok := el.(*ast.Placeable); ok {
			walkExpression(pl.Expression, ctx, info)
		}
	}
}

func walkExpression(expr ast.Expression, ctx Context, info *Info) {
	switch e := expr.(type) {
	case *ast.SelectExpression:
		walkInline(e.Selector, ContextSelector, info)
		for _, v := range e.Variants {
			walkPattern(v.Value, ContextVariant, info)
		}
	default:
		if inline, ok := expr.(ast.InlineExpression); ok {
			walkInline(inline, ctx, info)
		}
	}
}

func walkInline(expr ast.InlineExpression, ctx Context, info *Info) {
	switch e := expr.(type) {
	case *ast.VariableReference:
		info.Variables = append(info.Variables, VariableRef{Name: e.Id.Name, Context: ctx})
	case *ast.MessageReference:
		info.Refs = append(info.Refs, EntryRef{Kind: RefKindMessage, Id: e.Id.Name, Attribute: attrName(e.Attribute)})
	case *ast.TermReference:
		info.Refs = append(info.Refs, EntryRef{Kind: RefKindTerm, Id: e.Id.Name, Attribute: attrName(e.Attribute)})
		if e.Arguments != nil {
			info.Functions = append(info.Functions, walkCallArgsAsNothing(*e.Arguments, info, ctx)...)
		}
	case *ast.FunctionReference:
		info.Functions = append(info.Functions, collectFunctionCall(e.Id.Name, e.Arguments, info, ctx))
	case *ast.Placeable:
		walkExpression(e.Expression, ctx, info)
	}
}

func attrName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

// collectFunctionCall records the FunctionCall entry for a function
// reference and walks its arguments for nested variable/ref/function use.
func collectFunctionCall(name string, args ast.CallArguments, info *Info, ctx Context) FunctionCall {
	call := FunctionCall{Name: name}
	for i, p := range args.Positional {
		if _, ok := p.(*ast.VariableReference); ok {
			call.VariableArgIndices = append(call.VariableArgIndices, i)
		}
		walkInline(p, ContextArgument, info)
	}
	for _, n := range args.Named {
		call.NamedArgumentNames = append(call.NamedArgumentNames, n.Name.Name)
		walkInline(n.Value, ContextArgument, info)
	}
	_ = ctx
	return call
}

// walkCallArgsAsNothing walks a parameterized term reference's arguments
// purely for their nested variable/ref content, without itself contributing
// a FunctionCall entry (term calls are not function calls).
func walkCallArgsAsNothing(args ast.CallArguments, info *Info, ctx Context) []FunctionCall {
	for _, p := range args.Positional {
		walkInline(p, ContextArgument, info)
	}
	for _, n := range args.Named {
		walkInline(n.Value, ContextArgument, info)
	}
	_ = ctx
	return nil
}
