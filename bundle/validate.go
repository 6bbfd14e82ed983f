package bundle

import (
	"context"

	"go.uber.org/zap"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/introspect"
	"github.com/aledsdavies/ftlengine/rwmutex"
	"github.com/aledsdavies/ftlengine/syntax"
)

// Validate parses source and runs the serializer's structural validator
// against it (malformed select expressions, bad identifiers, duplicate
// named arguments, non-literal named-argument values), then additionally
// flags message/term references that are undefined both within source
// itself and in the bundle's current registries — so a resource that only
// makes sense alongside resources already registered elsewhere in the
// bundle does not falsely report undefined-reference errors.
//
// Validate is stateless: it never registers anything from source, even on
// success.
func (b *Bundle) Validate(ctx context.Context, source string) []error {
	res, pctx, err := syntax.ParseSource(source, syntax.WithMaxSourceSize(b.opts.MaxSourceSize), syntax.WithMaxNestingDepth(b.opts.MaxNestingDepth))
	if err != nil {
		return []error{err}
	}
	if pctx.NestingClamped {
		b.logger.Warn("max_nesting_depth clamped to host recursion budget",
			zap.Int("requested", pctx.ClampedFromValue),
			zap.Int("effective", pctx.MaxNestingDepth),
		)
	}

	_, errs := syntax.Serialize(res, syntax.WithValidation(true), syntax.WithSerializeMaxDepth(b.opts.MaxNestingDepth))

	_, unlock, lockErr := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if lockErr != nil {
		return append(errs, lockErr)
	}
	defer unlock()

	localMessages := make(map[string]bool)
	localTerms := make(map[string]bool)
	for _, e := range res.Entries {
		switch v := e.(type) {
		case *ast.Message:
			localMessages[v.Id.Name] = true
		case *ast.Term:
			localTerms[v.Id.Name] = true
		}
	}

	for _, e := range res.Entries {
		info := introspect.Extract(e)
		for _, ref := range info.Refs {
			if ref.Kind == introspect.RefKindMessage {
				if localMessages[ref.Id] || b.messages[ref.Id] != nil {
					continue
				}
			} else {
				if localTerms[ref.Id] || b.terms[ref.Id] != nil {
					continue
				}
			}
			errs = append(errs, &UndefinedReferenceError{Kind: ref.Kind, Id: ref.Id})
		}
	}
	return errs
}

// UndefinedReferenceError reports a message/term reference that resolves
// to nothing either within the validated source or in the bundle's
// existing registries.
type UndefinedReferenceError struct {
	Kind introspect.RefKind
	Id   string
}

func (e *UndefinedReferenceError) Error() string {
	return "bundle: undefined " + string(e.Kind) + " reference: " + e.Id
}
