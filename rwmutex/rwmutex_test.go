package rwmutex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLockExcludesReaders(t *testing.T) {
	m := New()
	ctx, unlock, err := m.Lock(context.Background(), NoTimeout)
	require.NoError(t, err)
	defer unlock()

	_, _, err = m.RLock(context.Background(), NonBlocking)
	assert.ErrorIs(t, err, ErrWouldBlock)
	_ = ctx
}

func TestMultipleReadersConcurrently(t *testing.T) {
	m := New()
	_, unlock1, err := m.RLock(context.Background(), NonBlocking)
	require.NoError(t, err)
	_, unlock2, err := m.RLock(context.Background(), NonBlocking)
	require.NoError(t, err)
	unlock1()
	unlock2()
}

func TestWriterIsReentrant(t *testing.T) {
	m := New()
	ctx, unlock, err := m.Lock(context.Background(), NoTimeout)
	require.NoError(t, err)

	_, unlock2, err := m.Lock(ctx, NoTimeout)
	require.NoError(t, err)
	unlock2()
	unlock()

	_, unlock3, err := m.Lock(context.Background(), NonBlocking)
	require.NoError(t, err)
	unlock3()
}

func TestReaderIsReentrant(t *testing.T) {
	m := New()
	ctx, unlock, err := m.RLock(context.Background(), NoTimeout)
	require.NoError(t, err)

	_, unlock2, err := m.RLock(ctx, NoTimeout)
	require.NoError(t, err)
	unlock2()
	unlock()
}

func TestUpgradeForbidden(t *testing.T) {
	m := New()
	ctx, unlock, err := m.RLock(context.Background(), NoTimeout)
	require.NoError(t, err)
	defer unlock()

	_, _, err = m.Lock(ctx, NoTimeout)
	assert.ErrorIs(t, err, ErrUpgradeForbidden)
}

func TestLockDowngrading(t *testing.T) {
	m := New()
	ctx, unlockWrite, err := m.Lock(context.Background(), NoTimeout)
	require.NoError(t, err)

	_, unlockRead, err := m.RLock(ctx, NoTimeout)
	require.NoError(t, err)

	unlockWrite()

	// The downgraded read lock must still be held: a concurrent writer
	// must not be able to acquire immediately.
	_, _, err = m.Lock(context.Background(), NonBlocking)
	assert.ErrorIs(t, err, ErrWouldBlock)

	unlockRead()

	_, unlockWrite2, err := m.Lock(context.Background(), NonBlocking)
	require.NoError(t, err)
	unlockWrite2()
}

func TestWriterPreferenceBlocksNewReaders(t *testing.T) {
	m := New()
	_, unlockRead, err := m.RLock(context.Background(), NoTimeout)
	require.NoError(t, err)

	writeAcquired := make(chan struct{})
	go func() {
		_, unlock, err := m.Lock(context.Background(), NoTimeout)
		if err == nil {
			close(writeAcquired)
			unlock()
		}
	}()
	time.Sleep(20 * time.Millisecond)

	_, _, err = m.RLock(context.Background(), NonBlocking)
	assert.ErrorIs(t, err, ErrWouldBlock, "a new reader must not jump ahead of a waiting writer")

	unlockRead()
	select {
	case <-writeAcquired:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired the lock")
	}
}

func TestTimeoutOnWriteLock(t *testing.T) {
	m := New()
	_, unlock, err := m.RLock(context.Background(), NoTimeout)
	require.NoError(t, err)
	defer unlock()

	_, _, err = m.Lock(context.Background(), 10*time.Millisecond)
	require.Error(t, err)
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}
