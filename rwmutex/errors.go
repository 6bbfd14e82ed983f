package rwmutex

import "fmt"

// ErrUpgradeForbidden is returned immediately (never after blocking) when
// a caller already holding a read lock attempts to acquire the write
// lock — the classic reader-to-writer deadlock trap.
var ErrUpgradeForbidden = fmt.Errorf("rwmutex: upgrading a read lock to a write lock is forbidden")

// ErrWouldBlock is returned by a non-blocking (timeout == NonBlocking)
// acquisition attempt that cannot proceed immediately.
var ErrWouldBlock = fmt.Errorf("rwmutex: lock is held and a non-blocking acquisition was requested")

// TimeoutError is returned when a bounded acquisition's deadline elapses
// before the lock becomes available.
type TimeoutError struct {
	Write bool
}

func (e *TimeoutError) Error() string {
	if e.Write {
		return "rwmutex: timed out waiting for write lock"
	}
	return "rwmutex: timed out waiting for read lock"
}
