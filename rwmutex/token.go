package rwmutex

import (
	"context"
	"sync/atomic"
)

// token is the reentrancy identity carried through a context.Context. Go
// exposes no portable goroutine-ID API, so acquisitions are tracked
// against a caller-supplied token rather than the calling goroutine: a
// caller re-enters under the same ctx (or one derived from it) and is
// recognized as already holding whatever lock it acquired before.
type token struct{ id uint64 }

var zeroToken token

var tokenCounter uint64

func newToken() token {
	return token{id: atomic.AddUint64(&tokenCounter, 1)}
}

type contextKey struct{}

// WithToken is exposed so a caller that wants to pre-establish an
// acquisition identity (for instance, before spawning goroutines that
// must all be recognized as the "same" holder) can do so explicitly,
// rather than relying on the token minted automatically on first
// acquisition.
func WithToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, newToken())
}

func tokenFrom(ctx context.Context) (token, bool) {
	tk, ok := ctx.Value(contextKey{}).(token)
	return tk, ok
}
