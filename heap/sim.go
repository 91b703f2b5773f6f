package heap

import (
	"errors"
	"sync"
)

var ErrExhausted = errors.New("heap budget exhausted")

// Sim is an in-memory heap simulator implementing Heap. It accounts
// allocations against an optional byte budget so callers can exercise
// out-of-memory paths, and keeps a forwarding table so tests can stand in
// for a moving collection.
type Sim struct {
	forward    map[any]any
	budget     uint32 // 0 means unlimited
	used       uint32
	allocCount uint64
	mu         sync.RWMutex
}

// NewSim creates a simulator with no budget limit.
func NewSim() *Sim {
	return &Sim{forward: make(map[any]any)}
}

// NewSimWithBudget creates a simulator that fails allocations once budget
// bytes have been reserved.
func NewSimWithBudget(budget uint32) *Sim {
	return &Sim{forward: make(map[any]any), budget: budget}
}

// AllocBytes reserves size bytes, failing with ErrExhausted when the
// budget would be exceeded.
func (s *Sim) AllocBytes(size uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budget != 0 && s.used+size > s.budget {
		return ErrExhausted
	}
	s.used += size
	s.allocCount++
	return nil
}

// Relocate records that old has moved to new. Subsequent Adjust calls on
// old resolve to new.
func (s *Sim) Relocate(old, new any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forward[old] = new
}

// Adjust follows the forwarding table to the current reference. Chains are
// collapsed so a reference relocated twice still resolves.
func (s *Sim) Adjust(ref any) any {
	if ref == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for {
		next, ok := s.forward[ref]
		if !ok {
			return ref
		}
		ref = next
	}
}

// BytesUsed returns the total bytes reserved so far.
func (s *Sim) BytesUsed() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// AllocCount returns the number of successful allocations.
func (s *Sim) AllocCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allocCount
}

// unlimited is the fallback heap: never fails, identity barrier.
type unlimited struct{}

func (unlimited) AllocBytes(uint32) error { return nil }
func (unlimited) Adjust(ref any) any      { return ref }

// Unlimited returns a heap that never fails allocation and never moves
// objects.
func Unlimited() Heap {
	return unlimited{}
}
