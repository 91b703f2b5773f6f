package linker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/heap"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

// Options configures linker behavior.
type Options struct {
	// LogTransitions emits a debug log line for every lifecycle
	// transition the linker drives.
	LogTransitions bool
}

// DefaultOptions returns default linker configuration.
func DefaultOptions() Options {
	return Options{}
}

// classKey identifies a class: descriptor plus defining loader.
type classKey struct {
	loader     *mirror.ClassLoader
	descriptor string
}

// Linker owns the loaded-class table and drives classes through their
// lifecycle. Thread-safe.
type Linker struct {
	heap    heap.Heap
	options Options

	mu      sync.RWMutex
	classes map[classKey]*mirror.Class

	object       *mirror.Class
	classClass   *mirror.Class
	cloneable    *mirror.Class
	serializable *mirror.Class
	primitives   map[byte]*mirror.Class

	bootstrapped bool
}

// New creates a new Linker over the given heap and options.
func New(h heap.Heap, opts Options) *Linker {
	return &Linker{
		heap:       h,
		options:    opts,
		classes:    make(map[classKey]*mirror.Class),
		primitives: make(map[byte]*mirror.Class),
	}
}

// NewWithDefaults creates a new Linker with default options.
func NewWithDefaults(h heap.Heap) *Linker {
	return New(h, DefaultOptions())
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.options
}

// Heap returns the heap the linker allocates class metadata on.
func (l *Linker) Heap() heap.Heap {
	return l.heap
}

// primitiveDescriptors lists the primitive types built at bootstrap.
var primitiveDescriptors = []byte{'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D', 'V'}

// Bootstrap builds the primordial class universe: the object root, the
// class of classes, the two array marker interfaces, and the primitive
// types. Bootstrap runs single threaded; the waiter-notification and
// transition-order machinery only arms once it completes.
func (l *Linker) Bootstrap() *errors.Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.bootstrapped {
		return errors.InvalidInput(errors.PhaseLoad, "linker already bootstrapped")
	}
	mirror.SetHeap(l.heap)
	self := thread.New("bootstrap")

	var err *errors.Error
	bootClass := func(desc string, flags uint32) *mirror.Class {
		if err != nil {
			return nil
		}
		c := mirror.AllocClass(self, mirror.ComputeClassSize(0))
		if c == nil {
			err = self.Pending()
			self.ClearPending()
			return nil
		}
		c.SetGeneratedDescriptor(desc)
		c.SetAccessFlags(flags)
		c.SetIfTable(mirror.NewIfTable(0))
		return c
	}

	l.object = bootClass("Ljava/lang/Object;", mirror.AccPublic)
	l.classClass = bootClass("Ljava/lang/Class;", mirror.AccPublic|mirror.AccFinal)
	l.cloneable = bootClass("Ljava/lang/Cloneable;",
		mirror.AccPublic|mirror.AccInterface|mirror.AccAbstract)
	l.serializable = bootClass("Ljava/io/Serializable;",
		mirror.AccPublic|mirror.AccInterface|mirror.AccAbstract)
	if err != nil {
		return err
	}
	l.classClass.SetSuper(l.object)
	// Installing the singleton marks the class-of-classes flag, which
	// must be set before the class reaches Initialized: class objects
	// are variable size and never publish a fast-path allocation size.
	mirror.SetClassClass(l.classClass)

	// The root's working vtable stays available for array linking.
	l.object.SetVTable([]*mirror.Method{})
	l.object.PopulateEmbeddedVTable()

	for _, c := range []*mirror.Class{l.object, l.classClass, l.cloneable, l.serializable} {
		bootAdvance(self, c, mirror.StatusInitialized)
		l.classes[classKey{nil, c.Descriptor()}] = c
	}

	for _, ch := range primitiveDescriptors {
		p := bootClass(string(ch), mirror.AccPublic|mirror.AccFinal|mirror.AccAbstract)
		if err != nil {
			mirror.ResetClass()
			return err
		}
		p.SetPrimitiveType(ch)
		bootAdvance(self, p, mirror.StatusInitialized)
		l.primitives[ch] = p
		l.classes[classKey{nil, string(ch)}] = p
	}

	mirror.SetLinkerInitialized(true)
	l.bootstrapped = true
	Logger().Info("class linker bootstrapped",
		zap.Int("boot_classes", len(l.classes)))
	return nil
}

// Shutdown tears down the bootstrap state. The linker must not be used
// afterwards.
func (l *Linker) Shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.bootstrapped {
		return
	}
	mirror.SetLinkerInitialized(false)
	mirror.ResetClass()
	l.classes = make(map[classKey]*mirror.Class)
	l.primitives = make(map[byte]*mirror.Class)
	l.bootstrapped = false
}

// ObjectClass returns the root object class.
func (l *Linker) ObjectClass() *mirror.Class { return l.object }

// Primitive returns the class for a primitive descriptor character, or
// nil if the character names no primitive.
func (l *Linker) Primitive(ch byte) *mirror.Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.primitives[ch]
}

// LookupClass returns the published class for a descriptor under the
// given defining loader, falling back to the boot loader, or nil.
func (l *Linker) LookupClass(loader *mirror.ClassLoader, descriptor string) *mirror.Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if c, ok := l.classes[classKey{loader, descriptor}]; ok {
		return c
	}
	if loader != nil {
		return l.classes[classKey{nil, descriptor}]
	}
	return nil
}

// Classes returns a snapshot of every published class.
func (l *Linker) Classes() []*mirror.Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*mirror.Class, 0, len(l.classes))
	for _, c := range l.classes {
		out = append(out, c)
	}
	return out
}

// publish installs a class in the loaded-class table, replacing the
// temporary entry a retirement leaves behind.
func (l *Linker) publish(c *mirror.Class) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.classes[classKey{c.ClassLoader(), c.Descriptor()}] = c
}

// publishIfAbsent installs c unless another thread won the race, in
// which case the winner is returned and c is discarded.
func (l *Linker) publishIfAbsent(c *mirror.Class) *mirror.Class {
	key := classKey{c.ClassLoader(), c.Descriptor()}
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.classes[key]; ok {
		return existing
	}
	l.classes[key] = c
	return c
}

// bootAdvance walks a bootstrap class to the target status. Only valid
// before the linker gate is armed.
func bootAdvance(self *thread.Thread, c *mirror.Class, target mirror.Status) {
	for _, s := range []mirror.Status{
		mirror.StatusIdx, mirror.StatusLoaded, mirror.StatusResolving,
		mirror.StatusResolved, mirror.StatusVerifying, mirror.StatusVerified,
		mirror.StatusInitializing, mirror.StatusInitialized,
	} {
		if s > target {
			return
		}
		if c.Status() < s {
			c.SetStatus(self, s)
		}
	}
}

func (l *Linker) logTransition(c *mirror.Class, what string) {
	if !l.options.LogTransitions {
		return
	}
	Logger().Debug(what,
		zap.String("class", c.PrettyDescriptor()),
		zap.Stringer("status", c.Status()))
}
