package guard

import "context"

type contextKey struct{}

// WithResolutionContext attaches a ResolutionContext to ctx so that a
// reentrant call into the bundle — a user function that itself formats a
// message or term — inherits the caller's remaining depth and expansion
// budget instead of starting over with a fresh one. This is what keeps a
// misbehaving or adversarial function from bypassing the per-call depth cap
// by recursing through the bundle's own public API.
func WithResolutionContext(ctx context.Context, rc *ResolutionContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the ResolutionContext previously attached with
// WithResolutionContext, or nil if none is present (a fresh top-level call).
func FromContext(ctx context.Context) *ResolutionContext {
	rc, _ := ctx.Value(contextKey{}).(*ResolutionContext)
	return rc
}
