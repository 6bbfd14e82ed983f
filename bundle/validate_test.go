package bundle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanSourceHasNoErrors(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})

	errs := b.Validate(context.Background(), "hello = Hi there\n")
	assert.Empty(t, errs)
}

func TestValidateFlagsUndefinedReference(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})

	errs := b.Validate(context.Background(), "hello = { missing }\n")
	require.NotEmpty(t, errs)
	var found bool
	for _, e := range errs {
		if _, ok := e.(*UndefinedReferenceError); ok {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateSuppressesUndefinedReferenceAlreadyInRegistries(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})
	require.NoError(t, b.AddResource(context.Background(), "brand = Frobnicator\n"))

	errs := b.Validate(context.Background(), "greet = Welcome to { brand }\n")
	for _, e := range errs {
		if _, ok := e.(*UndefinedReferenceError); ok {
			t.Fatalf("unexpected undefined-reference error: %v", e)
		}
	}
}

func TestValidateDoesNotRegisterAnything(t *testing.T) {
	t.Parallel()
	b := mustBundle(t, Options{Locale: "en"})

	_ = b.Validate(context.Background(), "hello = Hi there\n")

	ok, err := b.HasMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, ok)
}
