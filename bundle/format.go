package bundle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aledsdavies/ftlengine/intcache"
	"github.com/aledsdavies/ftlengine/resolve"
	"github.com/aledsdavies/ftlengine/rwmutex"
)

// FormatPattern formats messageID (or one of its attributes, when
// attribute is non-empty) against args. Non-strict bundles always return
// (string, errors); strict bundles return a *StrictError instead whenever
// errors is non-empty — including on a cache hit that previously recorded
// a failure, which re-raises the same first error without re-resolving.
func (b *Bundle) FormatPattern(ctx context.Context, messageID string, args map[string]resolve.Value, attribute string) (string, []*resolve.FluentError, error) {
	readCtx, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return "", nil, err
	}
	defer unlock()

	key := b.cacheKey(messageID, attribute, args)
	if b.cache != nil {
		if entry, ok, cerr := b.cache.Get(key); cerr != nil {
			b.logger.Warn("cache corruption detected", zap.String("message", messageID), zap.Error(cerr))
			return "", nil, cerr
		} else if ok {
			return b.finish(entry.Formatted, entry.Errors)
		}
	}

	msg, ok := b.Message(messageID)
	if !ok {
		errs := []*resolve.FluentError{undefinedMessageError(messageID)}
		out := "{" + messageID + "}"
		b.store(key, out, errs)
		return b.finish(out, errs)
	}

	out, errs := resolve.ResolveMessage(readCtx, b, msg, args, attribute, b.resolverOptions())
	b.store(key, out, errs)
	return b.finish(out, errs)
}

// FormatTerm formats a term directly — not reachable from ordinary FTL
// source (terms are only referenced via `-id` from within a message), but
// exposed for callers that manage term catalogs programmatically.
func (b *Bundle) FormatTerm(ctx context.Context, termID string, args map[string]resolve.Value, attribute string) (string, []*resolve.FluentError, error) {
	readCtx, unlock, err := b.lock.RLock(ctx, rwmutex.NoTimeout)
	if err != nil {
		return "", nil, err
	}
	defer unlock()

	term, ok := b.Term(termID)
	if !ok {
		errs := []*resolve.FluentError{undefinedMessageError(termID)}
		out := "{-" + termID + "}"
		return b.finish(out, errs)
	}
	out, errs := resolve.ResolveTerm(readCtx, b, term, args, attribute, b.resolverOptions())
	return b.finish(out, errs)
}

func (b *Bundle) cacheKey(messageID, attribute string, args map[string]resolve.Value) string {
	return intcache.Fingerprint(messageID, attribute, b.opts.Locale, b.opts.UseIsolating, args)
}

func (b *Bundle) store(key, formatted string, errs []*resolve.FluentError) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Put(key, formatted, errs); err != nil {
		b.logger.Warn("cache write rejected", zap.String("key", key), zap.Error(err))
	}
}

// finish applies the strict/lenient duality: non-strict always returns the
// formatted fallback text plus whatever errors were collected; strict
// surfaces the first error as a *StrictError instead.
func (b *Bundle) finish(formatted string, errs []*resolve.FluentError) (string, []*resolve.FluentError, error) {
	if b.opts.Strict && len(errs) > 0 {
		return "", nil, &StrictError{First: errs[0]}
	}
	return formatted, errs, nil
}

func undefinedMessageError(id string) *resolve.FluentError {
	return &resolve.FluentError{
		Message:  fmt.Sprintf("message %q is not defined", id),
		Category: resolve.CategoryReference,
		Diagnostic: &resolve.Diagnostic{
			Code: "E1000",
		},
	}
}
