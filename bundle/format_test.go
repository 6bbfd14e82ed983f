package bundle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/ftlengine/resolve"
)

func TestFormatPatternSubstitutesVariable(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})
	require.NoError(t, b.AddResource(context.Background(), "greet = Hello, { $name }!\n"))

	out, errs, err := b.FormatPattern(context.Background(), "greet", map[string]resolve.Value{"name": "Ada"}, "")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Hello, Ada!", out)
}

func TestFormatPatternUndefinedMessageLenient(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})

	out, errs, err := b.FormatPattern(context.Background(), "missing", nil, "")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "{missing}", out)
}

func TestFormatPatternUndefinedMessageStrict(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en", Strict: true})

	_, _, err := b.FormatPattern(context.Background(), "missing", nil, "")
	var strictErr *StrictError
	require.ErrorAs(t, err, &strictErr)
	assert.Equal(t, resolve.CategoryReference, strictErr.First.Category)
}

func TestFormatPatternCacheHitReplaysStrictErrorWithoutReresolving(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en", Strict: true, Cache: &CacheConfig{Size: 10}})

	_, _, err1 := b.FormatPattern(context.Background(), "missing", nil, "")
	var strictErr1 *StrictError
	require.ErrorAs(t, err1, &strictErr1)

	stats := b.cache.Stats()
	assert.EqualValues(t, 0, stats.Hits)

	_, _, err2 := b.FormatPattern(context.Background(), "missing", nil, "")
	var strictErr2 *StrictError
	require.ErrorAs(t, err2, &strictErr2)
	assert.Equal(t, strictErr1.First.Message, strictErr2.First.Message)

	stats = b.cache.Stats()
	assert.EqualValues(t, 1, stats.Hits, "the second lookup must be served from the cache, not re-resolved")
}

func TestFormatPatternCachesAcrossCalls(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en", Cache: &CacheConfig{Size: 10}})
	require.NoError(t, b.AddResource(context.Background(), "greet = Hello, { $name }!\n"))

	args := map[string]resolve.Value{"name": "Ada"}
	out1, _, err := b.FormatPattern(context.Background(), "greet", args, "")
	require.NoError(t, err)

	out2, _, err := b.FormatPattern(context.Background(), "greet", args, "")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	stats := b.cache.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestFormatPatternDifferentArgumentsAreDifferentCacheKeys(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en", Cache: &CacheConfig{Size: 10}})
	require.NoError(t, b.AddResource(context.Background(), "greet = Hello, { $name }!\n"))

	out1, _, err := b.FormatPattern(context.Background(), "greet", map[string]resolve.Value{"name": "Ada"}, "")
	require.NoError(t, err)
	out2, _, err := b.FormatPattern(context.Background(), "greet", map[string]resolve.Value{"name": "Grace"}, "")
	require.NoError(t, err)

	assert.NotEqual(t, out1, out2)
	stats := b.cache.Stats()
	assert.EqualValues(t, 0, stats.Hits)
	assert.EqualValues(t, 2, stats.Misses)
}

func TestFormatTermDirectly(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})
	require.NoError(t, b.AddResource(context.Background(), "-brand = Frobnicator\n"))

	out, errs, err := b.FormatTerm(context.Background(), "brand", nil, "")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Frobnicator", out)
}
