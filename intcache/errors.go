package intcache

import "fmt"

// CacheCorruption is raised by Get in strict mode when a stored entry's
// recomputed checksum no longer matches what was stored. In non-strict mode the same condition instead
// silently evicts the entry and reports a miss.
type CacheCorruption struct {
	Key string
}

func (e *CacheCorruption) Error() string {
	return fmt.Sprintf("intcache: entry %q failed integrity verification", e.Key)
}

// WriteOnceConflict is raised (or, non-strict, logged via Stats) when
// write-once mode is enabled and a second Put to an existing key carries a
// different content-only hash than the first — a genuine overwrite
// attempt rather than the idempotent re-resolution write-once mode exists
// to absorb.
type WriteOnceConflict struct {
	Key string
}

func (e *WriteOnceConflict) Error() string {
	return fmt.Sprintf("intcache: write-once conflict on key %q", e.Key)
}

// ImmutabilityViolation is raised when a caller attempts to mutate a
// returned Entry's backing data through an operation the cache does not
// support (reserved for future strict-aliasing checks; Entry is currently
// always returned as an independent copy, so this is not reachable today
// but keeps the error type set spec.md §7 names complete and available to
// callers doing type assertions).
type ImmutabilityViolation struct {
	Key string
}

func (e *ImmutabilityViolation) Error() string {
	return fmt.Sprintf("intcache: immutability violation on key %q", e.Key)
}
