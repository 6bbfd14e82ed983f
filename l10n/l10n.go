// Package l10n implements the fallback-chain orchestrator: an ordered
// tuple of locale codes, each lazily backed by its own bundle.Bundle,
// walked in order until one of them can satisfy a format request.
package l10n

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aledsdavies/ftlengine/bundle"
	"github.com/aledsdavies/ftlengine/resolve"
)

// OnFallback is invoked whenever a locale other than the first one in the
// chain satisfies a request. requested is the locale the caller asked
// for (chain[0]); resolved is the locale whose bundle actually produced
// the message.
type OnFallback func(requested, resolved, messageID string)

// Options configures a Localization at construction.
type Options struct {
	// Locales is the fallback chain, most-preferred first. Must be
	// non-empty.
	Locales []string

	Loader ResourceLoader

	// BundleOptions is applied to every per-locale bundle.New call, with
	// Locale overridden to that locale's own code.
	BundleOptions bundle.Options

	OnFallback OnFallback

	Logger *zap.Logger
}

// Localization walks Options.Locales in order, constructing a
// bundle.Bundle for each locale the first time it is needed.
type Localization struct {
	locales    []string
	loader     ResourceLoader
	bundleOpts bundle.Options
	onFallback OnFallback
	logger     *zap.Logger

	mu      sync.Mutex
	bundles map[string]*bundle.Bundle
	loaded  map[string]bool
}

// New constructs a Localization. It does not load or construct any
// bundle eagerly — that happens lazily, per locale, on first access.
func New(opts Options) (*Localization, error) {
	if len(opts.Locales) == 0 {
		return nil, fmt.Errorf("l10n: Locales must not be empty")
	}
	if opts.Loader == nil {
		return nil, fmt.Errorf("l10n: Loader must not be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	locales := append([]string(nil), opts.Locales...)
	return &Localization{
		locales:    locales,
		loader:     opts.Loader,
		bundleOpts: opts.BundleOptions,
		onFallback: opts.OnFallback,
		logger:     logger,
		bundles:    make(map[string]*bundle.Bundle),
		loaded:     make(map[string]bool),
	}, nil
}

// Locales returns the configured fallback chain, most-preferred first.
func (l *Localization) Locales() []string { return append([]string(nil), l.locales...) }

// bundleFor lazily constructs (and caches) the bundle.Bundle backing
// locale, loading resourceID into it the first time that (locale,
// resourceID) pair is requested.
func (l *Localization) bundleFor(ctx context.Context, locale, resourceID string) (*bundle.Bundle, loadOutcome) {
	l.mu.Lock()
	b, ok := l.bundles[locale]
	if !ok {
		opts := l.bundleOpts
		opts.Locale = locale
		var err error
		b, err = bundle.New(opts)
		if err != nil {
			l.mu.Unlock()
			return nil, loadOutcome{status: statusError, err: err}
		}
		l.bundles[locale] = b
	}
	loadKey := locale + "\x00" + resourceID
	alreadyLoaded := l.loaded[loadKey]
	l.mu.Unlock()

	if alreadyLoaded {
		return b, loadOutcome{status: statusSuccess}
	}

	source, err := l.loader.Load(locale, resourceID)
	if err != nil {
		if isNotFound(err) {
			return b, loadOutcome{status: statusNotFound, err: err}
		}
		return b, loadOutcome{status: statusError, err: err}
	}

	if err := b.AddResource(ctx, source); err != nil {
		return b, loadOutcome{status: statusJunk, err: err}
	}

	l.mu.Lock()
	l.loaded[loadKey] = true
	l.mu.Unlock()
	return b, loadOutcome{status: statusSuccess}
}

// FormatPattern walks the fallback chain for resourceID, loading each
// locale's bundle on demand, until one of them has messageID registered.
// The returned LoadSummary records the outcome of every locale visited,
// even locales whose bundle ultimately did not supply the message.
func (l *Localization) FormatPattern(ctx context.Context, resourceID, messageID string, args map[string]resolve.Value, attribute string) (string, []*resolve.FluentError, LoadSummary, error) {
	summary := LoadSummary{ByLocale: make(map[string]LoadStatus, len(l.locales))}

	for i, locale := range l.locales {
		b, outcome := l.bundleFor(ctx, locale, resourceID)
		summary.ByLocale[locale] = outcome.status
		if outcome.status == statusError {
			l.logger.Warn("locale load error", zap.String("locale", locale), zap.String("resource", resourceID), zap.Error(outcome.err))
		}
		if b == nil {
			continue
		}

		has, err := b.HasMessage(ctx, messageID)
		if err != nil {
			return "", nil, summary, err
		}
		if !has {
			continue
		}

		out, errs, err := b.FormatPattern(ctx, messageID, args, attribute)
		if err != nil {
			return "", nil, summary, err
		}

		if i > 0 && l.onFallback != nil {
			l.onFallback(l.locales[0], locale, messageID)
		}
		if i > 0 {
			l.logger.Info("served from fallback locale", zap.String("requested", l.locales[0]), zap.String("resolved", locale), zap.String("message", messageID))
		}
		return out, errs, summary, nil
	}

	fallbackText := "{" + messageID + "}"
	errs := []*resolve.FluentError{{
		Message:  fmt.Sprintf("message %q is not defined in any locale in the chain", messageID),
		Category: resolve.CategoryReference,
		Diagnostic: &resolve.Diagnostic{
			Code: "E1000",
		},
	}}
	return fallbackText, errs, summary, nil
}

type loadOutcome struct {
	status LoadStatus
	err    error
}

func isNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
