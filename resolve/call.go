package resolve

import "github.com/aledsdavies/ftlengine/ast"

// resolveFunctionRef evaluates every argument, calls the named function
// through the bundle's registry, and stringifies the result. An unknown
// function name or a call that itself returns an error falls back to the
// literal `{NAME(...)}` spelling per spec.md §4.6's fallback table, rather
// than aborting the whole pattern.
func (r *resolver) resolveFunctionRef(ref *ast.FunctionReference) string {
	fns := r.reg.Functions()
	if fns == nil || !fns.Lookup(ref.Id.Name) {
		r.fail(CategoryReference, "unknown function: "+ref.Id.Name, &Diagnostic{Code: "E1006", FunctionName: ref.Id.Name})
		return fallbackFunction(ref.Id.Name, ref.Arguments)
	}

	positional := make([]interface{}, 0, len(ref.Arguments.Positional))
	for _, p := range ref.Arguments.Positional {
		positional = append(positional, r.resolveArgValue(p))
	}
	named := make(map[string]interface{}, len(ref.Arguments.Named))
	for _, n := range ref.Arguments.Named {
		named[n.Name.Name] = r.resolveArgValue(n.Value)
	}

	out, err := fns.Call(ref.Id.Name, r.opts.Locale, positional, named)
	if err != nil {
		r.fail(CategoryResolution, err.Error(), &Diagnostic{Code: "E2005", FunctionName: ref.Id.Name})
		return fallbackFunction(ref.Id.Name, ref.Arguments)
	}
	if s, ok := out.(string); ok {
		return s
	}
	return stringifyValue(out)
}

// resolveArgValue evaluates an inline expression used as a function
// argument into a programmatic Value rather than its stringified text, so
// that numeric literals keep their decimal precision and identity. A
// bound variable passes its caller-supplied value through unchanged (an
// unbound one becomes its fallback text); message and term references
// flatten to their formatted strings.
func (r *resolver) resolveArgValue(expr ast.InlineExpression) Value {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number{Value: e.Value, Precision: precisionFromRaw(e.Raw)}
	case *ast.StringLiteral:
		return e.Value
	case *ast.VariableReference:
		if v, ok := r.args[e.Id.Name]; ok {
			return v
		}
		return r.resolveVariable(e)
	default:
		return r.resolveInline(expr)
	}
}

func precisionFromRaw(raw string) int {
	for i, c := range raw {
		if c == '.' {
			return len(raw) - i - 1
		}
	}
	return 0
}

func fallbackFunction(name string, args ast.CallArguments) string {
	return "{" + name + "(...)}"
}
