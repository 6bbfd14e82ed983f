// Package bundle implements the public façade: the user-facing coordinator
// that owns message/term/function registries behind a reentrant
// readers-writer lock, gateways formatting through an optional integrity
// cache, and enforces a strict-vs-lenient failure policy on top of the
// resolver's always-succeeds contract.
package bundle

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/aledsdavies/ftlengine/function"
	"github.com/aledsdavies/ftlengine/intcache"
)

var localePattern = regexp.MustCompile(`^[a-zA-Z0-9]+([_-][a-zA-Z0-9]+)*$`)

const maxLocaleLength = 128

// CacheConfig enables and tunes the bundle's integrity cache. A nil
// *CacheConfig passed to New disables caching entirely.
type CacheConfig struct {
	Size              int
	WriteOnce         bool
	IntegrityStrict   bool
	EnableAudit       bool
	MaxEntryWeight    int
	MaxErrorsPerEntry int
	MaxAuditEntries   int
}

func (c *CacheConfig) toIntcacheConfig(logger *zap.Logger) intcache.Config {
	return intcache.Config{
		MaxSize:           c.Size,
		WriteOnce:         c.WriteOnce,
		Strict:            c.IntegrityStrict,
		AuditEnabled:      c.EnableAudit,
		MaxEntryWeight:    c.MaxEntryWeight,
		MaxErrorsPerEntry: c.MaxErrorsPerEntry,
		MaxAuditEntries:   c.MaxAuditEntries,
		OnAuditOverflow: func(dropped int) {
			logger.Warn("audit log overflow", zap.Int("dropped", dropped))
		},
		OnWriteConflict: func(key string) {
			logger.Warn("write-once conflict: overwriting cached entry with different content", zap.String("key", key))
		},
	}
}

// Options configures a Bundle at construction. Locale is required; every
// other field has a documented default applied by New when left zero.
type Options struct {
	Locale           string
	UseIsolating     bool
	Strict           bool
	Cache            *CacheConfig
	Functions        *function.Registry
	MaxSourceSize    int
	MaxNestingDepth  int
	MaxExpansionSize int

	// Logger receives structured diagnostics for cache corruption,
	// write-once conflicts, and audit-log overflow. It is never used on
	// the per-format-call hot path. A nil Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

const (
	defaultMaxSourceSize    = 10_000_000
	defaultMaxNestingDepth  = 100
	defaultMaxExpansionSize = 1_000_000
)

func validateLocale(locale string) error {
	if locale == "" {
		return fmt.Errorf("bundle: locale must not be empty")
	}
	if len(locale) > maxLocaleLength {
		return fmt.Errorf("bundle: locale exceeds %d characters", maxLocaleLength)
	}
	if !localePattern.MatchString(locale) {
		return fmt.Errorf("bundle: locale %q does not match [a-zA-Z0-9]+([_-][a-zA-Z0-9]+)*", locale)
	}
	return nil
}
