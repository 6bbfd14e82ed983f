// Package guard implements the recursion-depth and expansion-size limits
// shared by the serializer and resolver: a DepthGuard value
// type and a ResolutionContext that pairs it with an output expansion
// budget, protecting against both adversarially deep ASTs and
// Billion-Laughs-style reference expansion.
package guard

import (
	"fmt"

	"github.com/aledsdavies/ftlengine/core/invariant"
)

// DefaultMaxExpansionSize is the default cap, in output characters, that a
// ResolutionContext enforces across a single top-level resolve_message call.
const DefaultMaxExpansionSize = 1_000_000

// DepthError is returned when a DepthGuard's limit would be exceeded.
type DepthError struct {
	MaxDepth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("max nesting depth of %d exceeded", e.MaxDepth)
}

// ExpansionError is returned when a ResolutionContext's character budget
// would be exceeded.
type ExpansionError struct {
	MaxExpansionSize int
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("max expansion size of %d characters exceeded", e.MaxExpansionSize)
}

// DepthGuard tracks nested scope entry (placeables, function calls,
// parameterized term calls, recursive references) against a fixed ceiling.
//
// The limit is validated *before* the counter is incremented, so that a
// caller who checks Enter's error and aborts the scope never leaves the
// guard in a state that looks one level deeper than it actually is — an
// early-return on error can never corrupt depth bookkeeping.
type DepthGuard struct {
	depth    int
	maxDepth int
}

// NewDepthGuard creates a DepthGuard with the given ceiling. maxDepth must
// be positive; this is a programming error, not a user error, so it is
// enforced as an invariant rather than returned.
func NewDepthGuard(maxDepth int) *DepthGuard {
	invariant.Precondition(maxDepth > 0, "maxDepth must be positive, got %d", maxDepth)
	return &DepthGuard{maxDepth: maxDepth}
}

// Depth returns the current nesting depth.
func (g *DepthGuard) Depth() int { return g.depth }

// MaxDepth returns the configured ceiling.
func (g *DepthGuard) MaxDepth() int { return g.maxDepth }

// Enter validates that entering one more scope would not exceed the limit,
// and if so increments the depth and returns a Leave function the caller
// must invoke (typically via defer) on scope exit. On limit violation it
// returns a nil Leave and a non-nil *DepthError; the depth counter is left
// untouched.
func (g *DepthGuard) Enter() (leave func(), err error) {
	if g.depth >= g.maxDepth {
		return nil, &DepthError{MaxDepth: g.maxDepth}
	}
	g.depth++
	return func() {
		invariant.Invariant(g.depth > 0, "DepthGuard.Leave called without a matching Enter")
		g.depth--
	}, nil
}

// ResolutionContext bundles a DepthGuard with an expansion-size budget; it
// is threaded through one top-level resolve_message call so every nested
// reference, function call, and select-expression branch shares the same
// depth and character budget, no matter how it was reached.
type ResolutionContext struct {
	Depth            *DepthGuard
	MaxExpansionSize int
	emitted          int
}

// NewResolutionContext builds a ResolutionContext with the given depth
// ceiling and expansion budget.
func NewResolutionContext(maxDepth, maxExpansionSize int) *ResolutionContext {
	return &ResolutionContext{
		Depth:            NewDepthGuard(maxDepth),
		MaxExpansionSize: maxExpansionSize,
	}
}

// Emitted returns the number of output characters charged against the
// budget so far.
func (c *ResolutionContext) Emitted() int { return c.emitted }

// Charge accounts n additional output characters against the expansion
// budget, returning an *ExpansionError without mutating state if doing so
// would exceed MaxExpansionSize.
func (c *ResolutionContext) Charge(n int) error {
	if c.emitted+n > c.MaxExpansionSize {
		return &ExpansionError{MaxExpansionSize: c.MaxExpansionSize}
	}
	c.emitted += n
	return nil
}

// Enter delegates to the embedded DepthGuard.
func (c *ResolutionContext) Enter() (leave func(), err error) {
	return c.Depth.Enter()
}
