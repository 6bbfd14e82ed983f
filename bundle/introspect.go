package bundle

import (
	"context"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/introspect"
	"github.com/aledsdavies/ftlengine/rwmutex"
)

// HasMessage reports whether id is registered as a message.
func (b *Bundle) HasMessage(ctx context.Context, id string) (bool, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return false, err
	}
	defer unlock()
	_, ok := b.messages[id]
	return ok, nil
}

// HasTerm reports whether id is registered as a term.
func (b *Bundle) HasTerm(ctx context.Context, id string) (bool, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return false, err
	}
	defer unlock()
	_, ok := b.terms[id]
	return ok, nil
}

// HasAttribute reports whether the entry registered under id carries
// attribute, where any one of several same-named attributes counts. The
// message registry is checked first; the term registry is consulted only
// when no message has that id.
func (b *Bundle) HasAttribute(ctx context.Context, id, attribute string) (bool, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return false, err
	}
	defer unlock()
	if msg, ok := b.messages[id]; ok {
		return hasAttr(msg.Attributes, attribute), nil
	}
	if term, ok := b.terms[id]; ok {
		return hasAttr(term.Attributes, attribute), nil
	}
	return false, nil
}

func hasAttr(attrs []ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Id.Name == name {
			return true
		}
	}
	return false
}

// MessageInfo extracts the variables, function calls, and references a
// registered message makes, per spec.md §4.3. Terms are covered by
// TermInfo.
func (b *Bundle) MessageInfo(ctx context.Context, id string) (*introspect.Info, bool, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return nil, false, err
	}
	defer unlock()
	if msg, ok := b.messages[id]; ok {
		return introspect.Extract(msg), true, nil
	}
	return nil, false, nil
}

// TermInfo is MessageInfo's term-registry counterpart.
func (b *Bundle) TermInfo(ctx context.Context, id string) (*introspect.Info, bool, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return nil, false, err
	}
	defer unlock()
	if term, ok := b.terms[id]; ok {
		return introspect.Extract(term), true, nil
	}
	return nil, false, nil
}

// DependencyGraph builds a namespaced dependency graph over every message
// and term currently registered, suitable for DetectCycles.
func (b *Bundle) DependencyGraph(ctx context.Context) (*introspect.Graph, error) {
	_, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return introspect.BuildDependencyGraph(b.snapshotResourceLocked()), nil
}

func (b *Bundle) snapshotResourceLocked() *ast.Resource {
	res := &ast.Resource{Entries: make([]ast.Entry, 0, len(b.messages)+len(b.terms))}
	for _, m := range b.messages {
		res.Entries = append(res.Entries, m)
	}
	for _, t := range b.terms {
		res.Entries = append(res.Entries, t)
	}
	return res
}
