package heap

// RootKind classifies a process-wide GC root for the enumeration hook.
type RootKind int

const (
	// RootStickyClass marks a root that keeps a class alive for the whole
	// process lifetime, such as the class-of-classes singleton.
	RootStickyClass RootKind = iota
	// RootVMInternal marks other runtime-internal roots.
	RootVMInternal
)

func (k RootKind) String() string {
	switch k {
	case RootStickyClass:
		return "StickyClass"
	case RootVMInternal:
		return "VMInternal"
	default:
		return "Unknown"
	}
}

// Allocator accounts heap object allocation. AllocBytes reserves size
// bytes for a new object and returns a non-nil error only on exhaustion.
// The caller constructs and initializes the object before publishing it.
type Allocator interface {
	AllocBytes(size uint32) error
}

// Barrier is the read barrier: Adjust returns the current valid reference
// for one that may have been relocated by a moving collection. For a
// non-moving implementation Adjust is the identity function.
type Barrier interface {
	Adjust(ref any) any
}

// Visitor enumerates GC roots.
type Visitor interface {
	VisitRoot(ref any, kind RootKind)
}

// Heap combines the allocation and barrier surfaces consumed by the class
// runtime.
type Heap interface {
	Allocator
	Barrier
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(ref any, kind RootKind)

func (f VisitorFunc) VisitRoot(ref any, kind RootKind) {
	f(ref, kind)
}
