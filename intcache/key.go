// Package intcache implements the bounded LRU of formatted-message results:
// canonical type-tagged fingerprint keying, BLAKE2b-128 checksums with
// per-entry integrity verification, optional write-once idempotent-write
// detection, and a capped, privacy-preserving audit log.
package intcache

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aledsdavies/ftlengine/resolve"
)

// Fingerprint builds the canonical, type-tagged string that is used
// directly as the cache key. Two argument bags that format to the
// same text but carry different dynamic types (the integer 1 vs. the
// decimal "1.00") never collide, because every value is prefixed with a
// tag naming its kind before being rendered.
func Fingerprint(messageID, attribute, locale string, isolating bool, args map[string]resolve.Value) string {
	var b strings.Builder
	b.WriteString("msg:")
	b.WriteString(messageID)
	b.WriteString("|attr:")
	b.WriteString(attribute)
	b.WriteString("|locale:")
	b.WriteString(locale)
	b.WriteString("|iso:")
	b.WriteString(strconv.FormatBool(isolating))
	b.WriteString("|args:")
	b.WriteString(fingerprintArgs(args))
	return b.String()
}

func fingerprintArgs(args map[string]resolve.Value) string {
	if len(args) == 0 {
		return "()"
	}
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(tagValue(args[name]))
	}
	b.WriteByte(')')
	return b.String()
}

// tagValue renders one dynamic value with its type tag, per the table in
// spec.md §4.8: bool, int, float (NaN normalized to a sentinel so
// NaN-keyed entries remain retrievable), decimal, numeric wrapper,
// sequence, mapping, and datetime (instant + zone, since the same instant
// viewed from different zones is a distinct cache key).
func tagValue(v resolve.Value) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("bool:%v", n)
	case int:
		return fmt.Sprintf("int:%d", n)
	case int64:
		return fmt.Sprintf("int:%d", n)
	case float64:
		if math.IsNaN(n) {
			return "float:NaN"
		}
		return fmt.Sprintf("float:%v", n)
	case decimal.Decimal:
		return "decimal:" + n.String()
	case resolve.Number:
		return fmt.Sprintf("num:(%s,%d)", n.Value.String(), n.Precision)
	case string:
		return "str:" + n
	case time.Time:
		return fmt.Sprintf("dt:(%s,%s)", n.UTC().Format(time.RFC3339Nano), n.Location().String())
	case []resolve.Value:
		parts := make([]string, len(n))
		for i, e := range n {
			parts[i] = tagValue(e)
		}
		return "seq:(" + strings.Join(parts, ",") + ")"
	case map[string]resolve.Value:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + tagValue(n[k])
		}
		return "map:(" + strings.Join(parts, ",") + ")"
	default:
		return fmt.Sprintf("str:%v", n)
	}
}
