package resolve

import "github.com/aledsdavies/ftlengine/ast"

func fallbackVariable(name string) string { return "{$" + name + "}" }
func fallbackMessage(name string) string  { return "{" + name + "}" }
func fallbackTerm(name string) string     { return "{-" + name + "}" }

func (r *resolver) resolveVariable(ref *ast.VariableReference) string {
	if v, ok := r.args[ref.Id.Name]; ok {
		return stringifyValue(v)
	}
	r.fail(CategoryReference, "unknown variable: $"+ref.Id.Name, &Diagnostic{Code: "E1001", ArgumentName: ref.Id.Name})
	return fallbackVariable(ref.Id.Name)
}

func (r *resolver) resolveMessageRef(ref *ast.MessageReference) string {
	msg, ok := r.reg.Message(ref.Id.Name)
	if !ok {
		r.fail(CategoryReference, "unknown message: "+ref.Id.Name, &Diagnostic{Code: "E1002"})
		return fallbackMessage(ref.Id.Name)
	}
	node := "msg:" + ref.Id.Name
	if attrName(ref.Attribute) != "" {
		node += "." + attrName(ref.Attribute)
	}
	if r.onStack[node] {
		r.fail(CategoryResolution, "cyclic reference detected: "+node, &Diagnostic{Code: "E2001", ResolutionPath: append(append([]string(nil), r.path...), node)})
		return fallbackMessage(ref.Id.Name)
	}

	pattern, ok := selectPattern(msg.Value, msg.Attributes, attrName(ref.Attribute))
	if !ok {
		r.fail(CategoryReference, "message "+ref.Id.Name+" has no attribute "+attrName(ref.Attribute), &Diagnostic{Code: "E1003"})
		return fallbackMessage(ref.Id.Name)
	}

	r.pushPath(node)
	out := r.resolvePattern(pattern)
	r.popPath()
	return out
}

// resolveTermRef resolves a (possibly parameterized) term reference. Term
// calls are isolated scopes: unlike a message reference, a term does not
// inherit the caller's argument bag — it only sees whatever named
// arguments were supplied at the call site, matching Fluent's scoping rule
// that term parameterization ({ -brand(case: "genitive") }) never leaks
// the surrounding message's variables into the term.
func (r *resolver) resolveTermRef(ref *ast.TermReference) string {
	term, ok := r.reg.Term(ref.Id.Name)
	if !ok {
		r.fail(CategoryReference, "unknown term: -"+ref.Id.Name, &Diagnostic{Code: "E1004"})
		return fallbackTerm(ref.Id.Name)
	}
	node := "term:" + ref.Id.Name
	if attrName(ref.Attribute) != "" {
		node += "." + attrName(ref.Attribute)
	}
	if r.onStack[node] {
		r.fail(CategoryResolution, "cyclic reference detected: "+node, &Diagnostic{Code: "E2001", ResolutionPath: append(append([]string(nil), r.path...), node)})
		return fallbackTerm(ref.Id.Name)
	}

	pattern, ok := selectPattern(&term.Value, term.Attributes, attrName(ref.Attribute))
	if !ok {
		r.fail(CategoryReference, "term "+ref.Id.Name+" has no attribute "+attrName(ref.Attribute), &Diagnostic{Code: "E1005"})
		return fallbackTerm(ref.Id.Name)
	}

	callerArgs := r.args
	r.args = r.termCallScope(ref)
	r.pushPath(node)
	out := r.resolvePattern(pattern)
	r.popPath()
	r.args = callerArgs
	return out
}

func (r *resolver) termCallScope(ref *ast.TermReference) map[string]Value {
	scope := make(map[string]Value)
	if ref.Arguments == nil {
		return scope
	}
	for _, n := range ref.Arguments.Named {
		scope[n.Name.Name] = r.resolveInline(n.Value)
	}
	return scope
}

func attrName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}
