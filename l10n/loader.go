package l10n

import (
	"fmt"
)

// ResourceLoader supplies FTL source text for a (locale, resourceID)
// pair. Load returns a *NotFoundError (or an error satisfying
// errors.As against one) when the resource genuinely does not exist for
// that locale — Localization treats that distinctly from other errors,
// continuing down the fallback chain rather than aborting.
type ResourceLoader interface {
	Load(locale, resourceID string) (string, error)

	// DescribePath returns a human-readable description of where Load
	// would look for (locale, resourceID) — used in diagnostics, never
	// parsed.
	DescribePath(locale, resourceID string) string
}

// NotFoundError reports that a resource does not exist for a given
// locale. It is not itself a failure of the Localization as a whole:
// FormatPattern treats it as a reason to continue down the chain.
type NotFoundError struct {
	Locale     string
	ResourceID string
	Path       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("l10n: resource %q not found for locale %q (%s)", e.ResourceID, e.Locale, e.Path)
}

// LoadStatus classifies the outcome of loading one locale's resource
// while walking the fallback chain.
type LoadStatus string

const (
	StatusSuccess  LoadStatus = "success"
	StatusNotFound LoadStatus = "not_found"
	StatusError    LoadStatus = "error"
	StatusJunk     LoadStatus = "junk"
)

const (
	statusSuccess  = StatusSuccess
	statusNotFound = StatusNotFound
	statusError    = StatusError
	statusJunk     = StatusJunk
)

// LoadSummary aggregates the per-locale outcome of one fallback-chain
// walk: which locales were tried, and what happened when each was
// loaded.
type LoadSummary struct {
	ByLocale map[string]LoadStatus
}

// Counts tallies ByLocale by status, for compact reporting.
func (s LoadSummary) Counts() map[LoadStatus]int {
	out := make(map[LoadStatus]int, 4)
	for _, status := range s.ByLocale {
		out[status]++
	}
	return out
}
