// Package resolve implements the formatting engine: it walks a Message or
// Term's AST against a snapshot of registries and a caller-supplied
// argument bag, producing formatted text plus a sequence of structured,
// content-addressed errors. Resolution never panics on malformed or
// adversarial input — every failure becomes data.
package resolve

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/ftlengine/ast"
)

// Category partitions errors the same way spec.md §7 does: Reference
// (missing id/variable/attribute), Resolution (cycle, depth/expansion
// exhaustion, function failure, type mismatch, variant-selection miss),
// Syntax and Parsing (surfaced from upstream components), and Formatting.
type Category string

const (
	CategoryReference  Category = "Reference"
	CategoryResolution Category = "Resolution"
	CategorySyntax     Category = "Syntax"
	CategoryParsing    Category = "Parsing"
	CategoryFormatting Category = "Formatting"
)

// Severity distinguishes a hard error from an advisory warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic carries the structured detail behind a FluentError: where it
// happened, how to fix it, and (for function-related failures) which
// function and argument were involved.
type Diagnostic struct {
	Code           string
	Span           *ast.Span
	Hint           string
	HelpURL        string
	Severity       Severity
	FunctionName   string
	ArgumentName   string
	Expected       string
	Received       string
	ResolutionPath []string
}

// FluentError is an immutable, content-addressed error record. Its content
// hash is computed once, lazily, and never changes afterward — callers may
// safely share a *FluentError across goroutines or cache it.
type FluentError struct {
	Message    string
	Category   Category
	Diagnostic *Diagnostic

	hash    [16]byte
	hashed  bool
}

func newError(category Category, message string, diag *Diagnostic) *FluentError {
	return &FluentError{Message: message, Category: category, Diagnostic: diag}
}

func (e *FluentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// ContentHash returns the BLAKE2b-128 digest covering every field of e,
// with each variable-length component length-prefixed (so ("ab","c") and
// ("a","bc") never collide) and a sentinel byte distinguishing an absent
// optional field from a present-but-empty one. The result is memoized: a
// FluentError's fields never change after construction, so its hash never
// needs to be recomputed.
func (e *FluentError) ContentHash() [16]byte {
	if e.hashed {
		return e.hash
	}
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("resolve: blake2b-128 unavailable: " + err.Error())
	}
	writeLenPrefixed(h, []byte(e.Message))
	writeLenPrefixed(h, []byte(e.Category))
	writeDiagnostic(h, e.Diagnostic)
	var sum [16]byte
	copy(sum[:], h.Sum(nil))
	e.hash = sum
	e.hashed = true
	return sum
}

func writeDiagnostic(h interface{ Write([]byte) (int, error) }, d *Diagnostic) {
	if d == nil {
		h.Write([]byte{0}) // absent sentinel
		return
	}
	h.Write([]byte{1}) // present sentinel
	writeLenPrefixed(h, []byte(d.Code))
	writeLenPrefixed(h, []byte(d.Hint))
	writeLenPrefixed(h, []byte(d.HelpURL))
	writeLenPrefixed(h, []byte(d.Severity))
	writeLenPrefixed(h, []byte(d.FunctionName))
	writeLenPrefixed(h, []byte(d.ArgumentName))
	writeLenPrefixed(h, []byte(d.Expected))
	writeLenPrefixed(h, []byte(d.Received))
	if d.Span == nil {
		h.Write([]byte{0})
	} else {
		h.Write([]byte{1})
		writeInt64(h, int64(d.Span.Start))
		writeInt64(h, int64(d.Span.End))
	}
	writeInt64(h, int64(len(d.ResolutionPath)))
	for _, p := range d.ResolutionPath {
		writeLenPrefixed(h, []byte(p))
	}
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	writeInt64(h, int64(len(b)))
	h.Write(b)
}

func writeInt64(h interface{ Write([]byte) (int, error) }, n int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}
