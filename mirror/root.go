package mirror

import (
	"sync/atomic"

	"github.com/AquaPie/art/heap"
)

// classClass is the process-wide class-of-classes: the metadata object
// every other class object is an instance of. The linker installs it
// once during bootstrap and clears it once at teardown.
var classClass atomic.Pointer[Class]

// SetClassClass installs the class-of-classes singleton. Installing it
// twice, or installing nil, is a runtime integrity failure.
func SetClassClass(c *Class) {
	if old := classClass.Load(); old != nil {
		fatalf("class-of-classes already set to %s while installing %s",
			old.PrettyClass(), PrettyClassOf(c))
	}
	if c == nil {
		fatalf("attempt to install nil class-of-classes")
	}
	c.AddAccessFlags(AccClassFlagClass)
	classClass.Store(c)
}

// ResetClass clears the singleton at teardown. Clearing an unset
// singleton is a runtime integrity failure.
func ResetClass() {
	if classClass.Load() == nil {
		fatalf("attempt to reset unset class-of-classes")
	}
	classClass.Store(nil)
}

// GetClassClass returns the singleton, nil before bootstrap.
func GetClassClass() *Class {
	return classClass.Load()
}

// VisitRoots reports the singleton to a root enumerator if set.
func VisitRoots(visitor heap.Visitor) {
	if c := classClass.Load(); c != nil {
		visitor.VisitRoot(c, heap.RootStickyClass)
	}
}
