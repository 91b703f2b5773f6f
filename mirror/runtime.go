package mirror

import (
	"sync/atomic"

	"github.com/AquaPie/art/heap"
)

// Package-wide collaborator wiring. The linker installs the heap and
// flips the initialized gate at bootstrap; before that point the runtime
// is single-threaded and waiter notification is skipped.

var (
	linkerInitialized atomic.Bool
	heapValue         atomic.Value // heapBox
)

// heapBox wraps the interface so atomic.Value sees a single concrete
// type regardless of which Heap implementation is installed.
type heapBox struct{ h heap.Heap }

// SetLinkerInitialized records whether the owning linker subsystem has
// finished bootstrapping. Status-transition invariant checks and waiter
// notification only apply afterwards.
func SetLinkerInitialized(ready bool) {
	linkerInitialized.Store(ready)
}

// LinkerInitialized reports the bootstrap gate.
func LinkerInitialized() bool {
	return linkerInitialized.Load()
}

// SetHeap installs the allocator and read barrier the class runtime uses
// for extension data and structural copies.
func SetHeap(h heap.Heap) {
	heapValue.Store(heapBox{h})
}

// currentHeap returns the installed heap, falling back to the unlimited
// non-moving one.
func currentHeap() heap.Heap {
	if b, ok := heapValue.Load().(heapBox); ok && b.h != nil {
		return b.h
	}
	return heap.Unlimited()
}
