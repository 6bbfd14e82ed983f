package intcache

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/ftlengine/resolve"
)

// checksum computes the BLAKE2b-128 digest over every field of e: the
// UTF-8 bytes of formatted, each error's own frozen content hash, the
// IEEE-754 bits of createdAt, and the big-endian sequence, every
// variable-length field length-prefixed so ("ab","c") and ("a","bc") can
// never collide.
func checksum(formatted string, errs []*resolve.FluentError, createdAt float64, sequence int64) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("intcache: blake2b-128 unavailable: " + err.Error())
	}
	writeContentFields(h, formatted, errs)
	writeFloat64(h, createdAt)
	writeInt64(h, sequence)
	var sum [16]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// contentHash is checksum's idempotent-write counterpart: it excludes
// createdAt and sequence, so two writes of the same formatted text and
// error set hash identically regardless of when or in what order they
// landed — the comparison write-once mode needs to detect a benign
// re-resolution versus a genuine conflicting overwrite.
func contentHash(formatted string, errs []*resolve.FluentError) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("intcache: blake2b-128 unavailable: " + err.Error())
	}
	writeContentFields(h, formatted, errs)
	var sum [16]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func writeContentFields(h interface{ Write([]byte) (int, error) }, formatted string, errs []*resolve.FluentError) {
	writeLenPrefixed(h, []byte(formatted))
	writeInt64(h, int64(len(errs)))
	for _, e := range errs {
		if e == nil {
			h.Write([]byte{0})
			writeLenPrefixed(h, nil)
			continue
		}
		h.Write([]byte{1})
		hash := e.ContentHash()
		writeLenPrefixed(h, hash[:])
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

func writeFloat64(h interface{ Write([]byte) (int, error) }, f float64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	h.Write(buf[:])
}
