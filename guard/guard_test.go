package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthGuardEnterLeave(t *testing.T) {
	t.Parallel()

	g := NewDepthGuard(2)
	assert.Equal(t, 0, g.Depth())

	leave1, err := g.Enter()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Depth())

	leave2, err := g.Enter()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Depth())

	_, err = g.Enter()
	require.Error(t, err)
	assert.Equal(t, 2, g.Depth(), "a rejected Enter must not mutate depth")

	leave2()
	assert.Equal(t, 1, g.Depth())
	leave1()
	assert.Equal(t, 0, g.Depth())
}

func TestDepthGuardRejectsNonPositiveMax(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewDepthGuard(0) })
	assert.Panics(t, func() { NewDepthGuard(-1) })
}

func TestResolutionContextCharge(t *testing.T) {
	t.Parallel()

	rc := NewResolutionContext(10, 100)
	require.NoError(t, rc.Charge(60))
	require.NoError(t, rc.Charge(40))
	assert.Equal(t, 100, rc.Emitted())

	err := rc.Charge(1)
	require.Error(t, err)
	assert.Equal(t, 100, rc.Emitted(), "a rejected charge must not mutate emitted total")
}

func TestResolutionContextInContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromContext(context.Background()))

	rc := NewResolutionContext(5, 10)
	ctx := WithResolutionContext(context.Background(), rc)
	assert.Same(t, rc, FromContext(ctx))
}
