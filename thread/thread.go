package thread

import (
	"fmt"
	"sync/atomic"

	"github.com/AquaPie/art/errors"
)

var nextID atomic.Uint32

// Thread carries the per-worker failure condition slot. One Thread is
// created per worker goroutine; it must not be shared.
type Thread struct {
	id      uint32
	name    string
	pending *errors.Error
}

// New creates a thread with a fresh id.
func New(name string) *Thread {
	return &Thread{
		id:   nextID.Add(1),
		name: name,
	}
}

// ID returns the thread's unique id.
func (t *Thread) ID() uint32 {
	return t.id
}

// Name returns the thread's name.
func (t *Thread) Name() string {
	return t.name
}

// Pending returns the thread's pending failure, or nil.
func (t *Thread) Pending() *errors.Error {
	return t.pending
}

// IsPending reports whether a failure is pending.
func (t *Thread) IsPending() bool {
	return t.pending != nil
}

// SetPending records a failure on the thread, replacing any previous one.
func (t *Thread) SetPending(err *errors.Error) {
	t.pending = err
}

// ClearPending discards the pending failure.
func (t *Thread) ClearPending() {
	t.pending = nil
}

// SetPendingOOM records an allocation failure of the given size.
func (t *Thread) SetPendingOOM(size uint32) {
	t.pending = errors.OutOfMemory(errors.PhaseAlloc, size)
}

// AssertPending panics unless a failure is pending. It guards code paths
// that are only reachable after a failure has been recorded.
func (t *Thread) AssertPending() {
	if t.pending == nil {
		panic(fmt.Sprintf("thread %q: expected pending failure, found none", t.name))
	}
}

// AssertPendingOOM panics unless the pending failure is an allocation
// failure.
func (t *Thread) AssertPendingOOM() {
	if t.pending == nil || !t.pending.IsOutOfMemory() {
		panic(fmt.Sprintf("thread %q: expected pending OOM, found %v", t.name, t.pending))
	}
}

// AssertNoPending panics if a failure is pending.
func (t *Thread) AssertNoPending() {
	if t.pending != nil {
		panic(fmt.Sprintf("thread %q: unexpected pending failure: %v", t.name, t.pending))
	}
}

func (t *Thread) String() string {
	return fmt.Sprintf("Thread[%d,%s]", t.id, t.name)
}
