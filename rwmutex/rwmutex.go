// Package rwmutex implements a reentrant readers-writer lock with writer
// preference: a waiting writer blocks new readers from joining, so a
// steady stream of readers cannot starve it. Reentrancy for either role is
// tracked via an acquisition token carried on a context.Context, rather
// than a goroutine ID — Go has no portable way to obtain one, and the
// context-carried-identity idiom is how this codebase already threads
// request-scoped state through blocking calls.
package rwmutex

import (
	"context"
	"sync"
	"time"
)

// Sentinel timeout values, matching spec.md §4.9's "none / 0.0 / positive"
// three-way contract.
const (
	NoTimeout   time.Duration = -1
	NonBlocking time.Duration = 0
)

// RWMutex is a reentrant, writer-preferring readers-writer lock.
type RWMutex struct {
	mu             sync.Mutex
	notify         chan struct{}
	writer         token
	writerDepth    int
	readers        map[token]int
	waitingWriters int
}

// New returns an unlocked RWMutex.
func New() *RWMutex {
	return &RWMutex{
		notify:  make(chan struct{}),
		readers: make(map[token]int),
	}
}

// broadcastLocked wakes every goroutine blocked in wait. Callers must hold
// m.mu.
func (m *RWMutex) broadcastLocked() {
	close(m.notify)
	m.notify = make(chan struct{})
}

// wait blocks until the condition changes or the deadline (if any)
// elapses, reporting false on timeout. NonBlocking acquisitions are handled
// by the callers, which never call wait for them. Callers must hold m.mu on entry; wait releases it while blocked and
// re-acquires it before returning.
func (m *RWMutex) wait(deadline time.Time, hasDeadline bool) bool {
	notify := m.notify
	m.mu.Unlock()
	defer m.mu.Lock()

	if !hasDeadline {
		<-notify
		return true
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-notify:
		return true
	case <-timer.C:
		return false
	}
}

// Lock acquires the write lock, returning a context carrying this
// acquisition's token (so a reentrant call made with the returned context
// is recognized and does not block) and an unlock function. A caller
// already holding a read lock under ctx gets ErrUpgradeForbidden
// immediately rather than blocking.
func (m *RWMutex) Lock(ctx context.Context, timeout time.Duration) (context.Context, func(), error) {
	tk, has := tokenFrom(ctx)

	m.mu.Lock()
	if has {
		if tk == m.writer {
			m.writerDepth++
			m.mu.Unlock()
			return ctx, func() { m.unlockWrite(tk) }, nil
		}
		if _, isReader := m.readers[tk]; isReader {
			m.mu.Unlock()
			return ctx, nil, ErrUpgradeForbidden
		}
	} else {
		tk = newToken()
		ctx = contextWithToken(ctx, tk)
	}

	deadline, hasDeadline := deadlineFor(timeout)
	m.waitingWriters++
	for m.writer != zeroToken || len(m.readers) > 0 {
		if timeout == NonBlocking {
			m.waitingWriters--
			m.mu.Unlock()
			return ctx, nil, ErrWouldBlock
		}
		if !m.wait(deadline, hasDeadline) {
			m.waitingWriters--
			m.mu.Unlock()
			return ctx, nil, &TimeoutError{Write: true}
		}
	}
	m.waitingWriters--
	m.writer = tk
	m.writerDepth = 1
	m.mu.Unlock()
	return ctx, func() { m.unlockWrite(tk) }, nil
}

// RLock acquires a read lock. A writer holding the lock under ctx may call
// RLock to downgrade: the additional read is registered immediately and
// outlives the write lock once Lock's unlock function is called.
func (m *RWMutex) RLock(ctx context.Context, timeout time.Duration) (context.Context, func(), error) {
	tk, has := tokenFrom(ctx)

	m.mu.Lock()
	if has {
		if tk == m.writer {
			m.readers[tk]++
			m.mu.Unlock()
			return ctx, func() { m.unlockRead(tk) }, nil
		}
		if _, isReader := m.readers[tk]; isReader {
			m.readers[tk]++
			m.mu.Unlock()
			return ctx, func() { m.unlockRead(tk) }, nil
		}
	} else {
		tk = newToken()
		ctx = contextWithToken(ctx, tk)
	}

	deadline, hasDeadline := deadlineFor(timeout)
	for m.writer != zeroToken || m.waitingWriters > 0 {
		if timeout == NonBlocking {
			m.mu.Unlock()
			return ctx, nil, ErrWouldBlock
		}
		if !m.wait(deadline, hasDeadline) {
			m.mu.Unlock()
			return ctx, nil, &TimeoutError{Write: false}
		}
	}
	m.readers[tk]++
	m.mu.Unlock()
	return ctx, func() { m.unlockRead(tk) }, nil
}

func (m *RWMutex) unlockWrite(tk token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writerDepth--
	if m.writerDepth > 0 {
		return
	}
	// Downgrade: any reads tk acquired while it held the write lock stay
	// in m.readers and become regular reader locks now that m.writer
	// clears.
	m.writer = zeroToken
	m.broadcastLocked()
}

func (m *RWMutex) unlockRead(tk token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readers[tk]--
	if m.readers[tk] <= 0 {
		delete(m.readers, tk)
	}
	m.broadcastLocked()
}

func contextWithToken(ctx context.Context, tk token) context.Context {
	return context.WithValue(ctx, contextKey{}, tk)
}

func deadlineFor(timeout time.Duration) (time.Time, bool) {
	if timeout == NoTimeout || timeout == NonBlocking {
		return time.Time{}, false
	}
	return time.Now().Add(timeout), true
}
