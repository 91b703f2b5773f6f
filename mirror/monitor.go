package mirror

import (
	"sync"
	"sync/atomic"

	"github.com/AquaPie/art/thread"
)

// monitor is the intrinsic lock and condition variable attached to each
// Class. Threads awaiting resolution or initialization block on it; the
// status setter broadcasts after the transitions that waiters care about.
// Waiters must re-check status after waking (spurious wakes are allowed).
//
// The owner is stored atomically so that ownership checks can run on
// threads that do not hold the monitor, the way the lock-discipline
// assertion in SetStatus does.
type monitor struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner atomic.Pointer[thread.Thread]
}

func (m *monitor) init() {
	m.cond = sync.NewCond(&m.mu)
}

// Lock acquires the monitor for self. Not reentrant.
func (m *monitor) Lock(self *thread.Thread) {
	m.mu.Lock()
	m.owner.Store(self)
}

// Unlock releases the monitor. Fatal if self is not the owner.
func (m *monitor) Unlock(self *thread.Thread) {
	if owner := m.owner.Load(); owner != self {
		fatalf("monitor unlock by non-owner thread %v (owner %v)", self, owner)
	}
	m.owner.Store(nil)
	m.mu.Unlock()
}

// IsOwner reports whether self currently holds the monitor.
func (m *monitor) IsOwner(self *thread.Thread) bool {
	return m.owner.Load() == self
}

// Wait releases the monitor and blocks until a broadcast, then reacquires
// it. Fatal if self is not the owner.
func (m *monitor) Wait(self *thread.Thread) {
	if owner := m.owner.Load(); owner != self {
		fatalf("monitor wait by non-owner thread %v (owner %v)", self, owner)
	}
	m.owner.Store(nil)
	m.cond.Wait()
	m.owner.Store(self)
}

// NotifyAll wakes every waiter. Fatal if self is not the owner.
func (m *monitor) NotifyAll(self *thread.Thread) {
	if owner := m.owner.Load(); owner != self {
		fatalf("monitor notify by non-owner thread %v (owner %v)", self, owner)
	}
	m.cond.Broadcast()
}
