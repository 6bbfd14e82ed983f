// Package invariant provides contract assertions for the localization engine.
//
// Assertions here are a force multiplier for discovering bugs during
// development: use Precondition to express a function's entry contract, and
// Invariant for internal consistency checks during execution.
//
// All functions panic on violation - these are programming errors (bugs in
// this module), never user errors. User-facing failures (a malformed
// resource, a missing variable, a function that throws) are always returned
// as values, never panicked.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Use this to validate function arguments and caller expectations.
//
// Example:
//
//	func NewDepthGuard(maxDepth int) *DepthGuard {
//	    invariant.Precondition(maxDepth > 0, "maxDepth must be positive, got %d", maxDepth)
//	    // ... construct ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Use this for loop progress checks, state consistency, and internal logic.
//
// Example:
//
//	leave := func() {
//	    invariant.Invariant(g.depth > 0, "Leave called without a matching Enter")
//	    g.depth--
//	}
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	// Capture call stack (skip fail() and wrapper function)
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	// Build violation message
	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	// Add first frame for context (file:line where violation occurred)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
