package bundle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aledsdavies/ftlengine/ast"
	"github.com/aledsdavies/ftlengine/function"
	"github.com/aledsdavies/ftlengine/intcache"
	"github.com/aledsdavies/ftlengine/resolve"
	"github.com/aledsdavies/ftlengine/rwmutex"
	"github.com/aledsdavies/ftlengine/syntax"
)

// Bundle is the public façade: it owns message, term, and function
// registries behind a reentrant readers-writer lock, gateways formatting
// through an optional integrity cache, and honors Options.Strict by
// surfacing the first collected error as a *StrictError rather than
// returning it as data.
type Bundle struct {
	opts   Options
	lock   *rwmutex.RWMutex
	cache  *intcache.Cache
	logger *zap.Logger

	messages map[string]*ast.Message
	terms    map[string]*ast.Term
	fns      *function.Registry
}

// New constructs a Bundle. Locale is validated against
// [a-zA-Z0-9]+([_-][a-zA-Z0-9]+)*; every other Options field falls back to
// its documented default when left zero. A nil Options.Cache disables
// caching; a nil Options.Functions defaults to a mutable copy of the
// shared frozen default registry (NUMBER/DATETIME/CURRENCY preregistered).
func New(opts Options) (*Bundle, error) {
	if err := validateLocale(opts.Locale); err != nil {
		return nil, err
	}
	if opts.MaxSourceSize <= 0 {
		opts.MaxSourceSize = defaultMaxSourceSize
	}
	if opts.MaxNestingDepth <= 0 {
		opts.MaxNestingDepth = defaultMaxNestingDepth
	}
	if opts.MaxExpansionSize <= 0 {
		opts.MaxExpansionSize = defaultMaxExpansionSize
	}

	fns := opts.Functions
	if fns == nil {
		fns = function.DefaultRegistry().Copy()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Bundle{
		opts:     opts,
		lock:     rwmutex.New(),
		logger:   logger,
		messages: make(map[string]*ast.Message),
		terms:    make(map[string]*ast.Term),
		fns:      fns,
	}
	if opts.Cache != nil {
		b.cache = intcache.New(opts.Cache.toIntcacheConfig(logger))
	}
	return b, nil
}

// StrictError is returned by a format operation on a strict Bundle when
// resolution collected one or more errors; it carries the first one, with
// its full diagnostic.
type StrictError struct {
	First *resolve.FluentError
}

func (e *StrictError) Error() string { return "bundle: " + e.First.Error() }
func (e *StrictError) Unwrap() error { return e.First }

// AddResource parses source (outside any lock — parsing never touches
// shared state) and registers every Message/Term it contains under the
// write lock, invalidating the cache. In strict mode, a source that
// recovers any Junk is rejected outright — nothing from it is registered
// — so malformed input is caught at ingestion rather than discovered
// later mid-format.
func (b *Bundle) AddResource(ctx context.Context, source string) error {
	res, pctx, err := syntax.ParseSource(source, syntax.WithMaxSourceSize(b.opts.MaxSourceSize), syntax.WithMaxNestingDepth(b.opts.MaxNestingDepth))
	if err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	if pctx.NestingClamped {
		b.logger.Warn("max_nesting_depth clamped to host recursion budget",
			zap.Int("requested", pctx.ClampedFromValue),
			zap.Int("effective", pctx.MaxNestingDepth),
		)
	}

	var junk []*ast.Junk
	for _, e := range res.Entries {
		if j, ok := e.(*ast.Junk); ok {
			junk = append(junk, j)
		}
	}
	if b.opts.Strict && len(junk) > 0 {
		return fmt.Errorf("bundle: resource contains %d unparseable entries and strict mode rejects ingestion", len(junk))
	}

	_, unlock, err := b.lock.Lock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	for _, e := range res.Entries {
		switch v := e.(type) {
		case *ast.Message:
			b.messages[v.Id.Name] = v
		case *ast.Term:
			b.terms[v.Id.Name] = v
		}
	}
	if b.cache != nil {
		b.cache.Clear()
	}
	return nil
}

// AddFunction registers fn into the bundle's function registry. If the
// current registry is frozen (a frozen registry such as the shared default
// passed in as Options.Functions; New's own default is already a mutable
// copy), it is copied into a fresh mutable registry first — copy-on-write,
// so the frozen registry itself is never mutated.
func (b *Bundle) AddFunction(ctx context.Context, fn interface{}, opts ...function.RegisterOption) error {
	_, unlock, err := b.lock.Lock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if b.fns.Frozen() {
		b.fns = b.fns.Copy()
	}
	if err := b.fns.Register(fn, opts...); err != nil {
		return err
	}
	if b.cache != nil {
		b.cache.Clear()
	}
	return nil
}

// Message implements resolve.Registries. Callers must hold at least a read
// lock; FormatPattern/FormatTerm arrange this themselves.
func (b *Bundle) Message(id string) (*ast.Message, bool) { m, ok := b.messages[id]; return m, ok }

// Term implements resolve.Registries.
func (b *Bundle) Term(id string) (*ast.Term, bool) { t, ok := b.terms[id]; return t, ok }

// Functions implements resolve.Registries.
func (b *Bundle) Functions() resolve.FunctionRegistry { return b.fns }

func (b *Bundle) resolverOptions() resolve.Options {
	return resolve.Options{
		Locale:           b.opts.Locale,
		UseIsolating:     b.opts.UseIsolating,
		MaxNestingDepth:  b.opts.MaxNestingDepth,
		MaxExpansionSize: b.opts.MaxExpansionSize,
	}
}
