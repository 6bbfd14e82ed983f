// Package syntax implements the FTL recursive-descent parser and its
// validating serializer. The parser is tokenless: it scans the source text
// directly, rune by rune, rather than going through a separate lexing pass —
// entries, patterns, and expressions are recognized straight off the
// character stream, matching how the engine's reference language (Fluent)
// is specified.
//
// Parsing never fails. Malformed input is recovered as an *ast.Junk entry
// so the rest of the resource keeps parsing; see Parse and ParseContext.
package syntax

const (
	// DefaultMaxSourceSize is the default cap, in code points, on the size
	// of source text the parser will accept before refusing to continue.
	DefaultMaxSourceSize = 10_000_000

	// DefaultMaxNestingDepth is the default cap on nested placeables,
	// function calls, and parameterized term calls.
	DefaultMaxNestingDepth = 100

	// DefaultMaxParseErrors is the default cap on the number of Junk
	// entries the parser will accumulate before aborting. Zero disables
	// the cap.
	DefaultMaxParseErrors = 100

	// nestingSafetyMargin is subtracted from the host's usable recursion
	// budget before clamping max_nesting_depth, so that the parser itself
	// never exhausts the goroutine stack while recovering from adversarial
	// input.
	nestingSafetyMargin = 16

	// hostRecursionBudget is a conservative estimate of how many nested
	// descent frames this package's recursive parsing functions can make
	// before risking a goroutine stack overflow on an 8KB-initial,
	// growable Go stack. There is no portable way to query the actual
	// configured per-goroutine maximum at runtime without racily mutating
	// it (runtime/debug.SetMaxStack has no read-only form), so this is a
	// fixed, deliberately conservative constant rather than a runtime probe.
	hostRecursionBudget = 4096
)

// ParseContext carries the parser's configurable limits and is threaded
// through every recursive descent call so that depth can be checked without
// global state.
type ParseContext struct {
	MaxSourceSize   int
	MaxNestingDepth int
	MaxParseErrors  int

	// NestingClamped reports whether a caller-requested MaxNestingDepth was
	// reduced to the host's usable recursion budget. ClampedFromValue holds
	// the value that was requested, for diagnostics.
	NestingClamped   bool
	ClampedFromValue int
}

// NewParseContext builds a ParseContext from defaults, clamping
// MaxNestingDepth to the host's usable recursion budget minus a safety
// margin when the requested value would risk a stack overflow.
func NewParseContext(opts ...ParserOption) *ParseContext {
	ctx := &ParseContext{
		MaxSourceSize:   DefaultMaxSourceSize,
		MaxNestingDepth: DefaultMaxNestingDepth,
		MaxParseErrors:  DefaultMaxParseErrors,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.clampNestingDepth()
	return ctx
}

// clampNestingDepth bounds MaxNestingDepth to hostRecursionBudget minus a
// safety margin, so a caller-requested depth can never risk exhausting the
// goroutine stack.
func (c *ParseContext) clampNestingDepth() {
	usable := hostRecursionBudget - nestingSafetyMargin
	if c.MaxNestingDepth > usable {
		c.ClampedFromValue = c.MaxNestingDepth
		c.MaxNestingDepth = usable
		c.NestingClamped = true
	}
}

// ParserOption configures a ParseContext.
type ParserOption func(*ParseContext)

// WithMaxSourceSize overrides DefaultMaxSourceSize.
func WithMaxSourceSize(n int) ParserOption {
	return func(c *ParseContext) { c.MaxSourceSize = n }
}

// WithMaxNestingDepth overrides DefaultMaxNestingDepth.
func WithMaxNestingDepth(n int) ParserOption {
	return func(c *ParseContext) { c.MaxNestingDepth = n }
}

// WithMaxParseErrors overrides DefaultMaxParseErrors.
func WithMaxParseErrors(n int) ParserOption {
	return func(c *ParseContext) { c.MaxParseErrors = n }
}
