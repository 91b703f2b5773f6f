package mirror

import (
	"math"
	"math/bits"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AquaPie/art/descriptor"
	"github.com/AquaPie/art/dex"
	"github.com/AquaPie/art/thread"
)

const (
	// PointerSize is the width of one embedded method-table slot.
	PointerSize = 8

	// objectAlignment is the heap allocation granule.
	objectAlignment = 8

	// fixedHeaderSize is the byte size of the Class header without any
	// embedded trailing tables.
	fixedHeaderSize = uint32(168)

	// allocFastPathSentinel marks the fast-path allocation size as
	// unusable; allocation must re-derive the layout.
	allocFastPathSentinel = uint32(math.MaxUint32)

	// RefOffsetsWalkSuper is the reference-offset bitmap sentinel meaning
	// the bitmap would not fit; readers walk the superclass chain instead.
	RefOffsetsWalkSuper = uint32(math.MaxUint32)
)

// ComputeClassSize returns the byte size of a Class object whose trailing
// storage embeds a virtual-method table of the given length.
func ComputeClassSize(numVTableEntries int) uint32 {
	return fixedHeaderSize + uint32(numVTableEntries)*PointerSize
}

// ImTableSize is the number of slots in the interface method table.
const ImTableSize = 43

// ImTable is the fixed-size interface method dispatch table attached to a
// class once its final size is known.
type ImTable struct {
	methods [ImTableSize]*Method
}

// Get returns the method in slot i.
func (t *ImTable) Get(i int) *Method { return t.methods[i] }

// Set installs a method in slot i.
func (t *ImTable) Set(i int, m *Method) { t.methods[i] = m }

// ClassLoader identifies a defining loader. Two classes are the same type
// only if they share a descriptor and a defining loader. The boot loader
// is represented by nil.
type ClassLoader struct {
	name   string
	parent *ClassLoader
}

// NewClassLoader creates a loader with the given parent (nil for a child
// of the boot loader).
func NewClassLoader(name string, parent *ClassLoader) *ClassLoader {
	return &ClassLoader{name: name, parent: parent}
}

func (l *ClassLoader) Name() string {
	if l == nil {
		return "boot"
	}
	return l.name
}

func (l *ClassLoader) Parent() *ClassLoader {
	if l == nil {
		return nil
	}
	return l.parent
}

// Class is the heap representation of one loaded class, interface, array,
// or primitive type. The fixed header below is written by the loader and
// linker under the class monitor; the embedded method tables are sized at
// construction time and filled during linking. After a class reaches
// Resolved its metadata is read-only.
type Class struct {
	monitor monitor

	status                  atomic.Int32
	accessFlags             atomic.Uint32
	classSize               atomic.Uint32
	objectSizeAllocFastPath atomic.Uint32
	referenceOffsets        atomic.Uint32
	extData                 atomic.Pointer[ClassExt]
	name                    atomic.Pointer[string] // cached display name

	super           *Class
	componentType   *Class // set only for array classes
	classLoader     *ClassLoader
	dexCache        *DexCache
	proxyInterfaces []*Class // set only for generated proxy classes

	dexTypeIdx     dex.TypeIndex
	dexClassDefIdx uint16
	primitiveType  byte   // descriptor char, 0 for non-primitives
	descriptorStr  string // cached for generated classes

	objectSize uint32

	ifields        []Field // sorted by name, then type descriptor
	sfields        []Field // sorted by name, then type descriptor
	directMethods  []Method
	virtualMethods []Method // declared, then copied
	copiedOffset   int      // start of copied methods in virtualMethods

	linkedVTable   []*Method // from the linker, before embedding
	embeddedVTable []*Method // trailing-storage table, sized at construction
	ifTable        *IfTable
	imt            *ImTable
}

// NewClass constructs class metadata with the given total byte size. The
// returned class is NotReady; the loader drives everything after that.
func NewClass(classSize uint32) *Class {
	c := &Class{}
	c.monitor.init()
	c.classSize.Store(classSize)
	c.objectSizeAllocFastPath.Store(allocFastPathSentinel)
	c.dexClassDefIdx = dex.NoClassDef
	c.dexTypeIdx = dex.NoIndex
	return c
}

// AllocClass charges the heap for a class object of the given size and
// constructs it. On exhaustion it records an out-of-memory condition on
// self and returns nil.
func AllocClass(self *thread.Thread, classSize uint32) *Class {
	if err := currentHeap().AllocBytes(classSize); err != nil {
		self.SetPendingOOM(classSize)
		return nil
	}
	return NewClass(classSize)
}

// Lock acquires the class's intrinsic lock.
func (c *Class) Lock(self *thread.Thread) { c.monitor.Lock(self) }

// Unlock releases the class's intrinsic lock.
func (c *Class) Unlock(self *thread.Thread) { c.monitor.Unlock(self) }

// Wait blocks on the class's condition variable; the caller must hold the
// lock and must re-check status after waking.
func (c *Class) Wait(self *thread.Thread) { c.monitor.Wait(self) }

// NotifyAll wakes all threads waiting on the class.
func (c *Class) NotifyAll(self *thread.Thread) { c.monitor.NotifyAll(self) }

// HoldsLock reports whether self owns the class's intrinsic lock.
func (c *Class) HoldsLock(self *thread.Thread) bool { return c.monitor.IsOwner(self) }

// Status returns the lifecycle status with sequentially consistent
// visibility.
func (c *Class) Status() Status {
	return Status(c.status.Load())
}

// SetStatus moves the class to newStatus, enforcing the lifecycle
// invariants: once the linker is initialized, status must not regress
// except into Retired or an error state, and transitions at or above
// Resolved require self to hold the class's lock. Entering an error state
// records the thread's pending failure in the extension block. Waiters
// are notified after the transitions they block on.
func (c *Class) SetStatus(self *thread.Thread, newStatus Status) {
	oldStatus := c.Status()
	linkerReady := linkerInitialized.Load()
	if linkerReady {
		if newStatus <= oldStatus &&
			newStatus != StatusErrorUnresolved &&
			newStatus != StatusErrorResolved &&
			newStatus != StatusRetired {
			fatalf("unexpected change back of class status for %s %v -> %v",
				c.PrettyClass(), oldStatus, newStatus)
		}
		if newStatus >= StatusResolved || oldStatus >= StatusResolved {
			// Resolution code must hold the lock across the transition.
			if !c.monitor.IsOwner(self) {
				fatalf("attempt to change status of class while not holding its lock: %s %v -> %v",
					c.PrettyClass(), oldStatus, newStatus)
			}
		}
	}
	if newStatus.IsErroneous() {
		if c.IsErroneous() {
			fatalf("attempt to set as erroneous an already erroneous class %s old_status: %v new_status: %v",
				c.PrettyClass(), oldStatus, newStatus)
		}
		if (newStatus == StatusErrorResolved) != (oldStatus >= StatusResolved) {
			fatalf("error status %v does not match resolution progress %v of %s",
				newStatus, oldStatus, c.PrettyClass())
		}
		Logger().Error("setting class to erroneous",
			zap.String("class", c.PrettyDescriptor()),
			zap.Error(self.Pending()))

		if ext := c.EnsureExtData(self); ext != nil {
			self.AssertPending()
			ext.SetVerifyError(self.Pending())
		} else {
			// Allocating the extension block failed; the OOM pending on
			// self becomes the reported failure.
			self.AssertPendingOOM()
		}
		self.AssertPending()
	}

	c.status.Store(int32(newStatus))

	// The fast-path allocation size is published after the status write so
	// that a reader observing a valid size knows the class is initialized.
	if newStatus == StatusInitialized && !c.IsVariableSize() {
		if debugChecks && c.objectSizeAllocFastPath.Load() != allocFastPathSentinel {
			fatalf("fast-path size already published for %s", c.PrettyClass())
		}
		// Finalizable objects must always go down the slow path.
		if !c.IsFinalizable() {
			c.objectSizeAllocFastPath.Store(roundUp(c.objectSize, objectAlignment))
		}
	}

	if !linkerReady {
		// During linker bootstrap everything is single threaded and there
		// can be no waiters.
		return
	}
	if c.IsTemp() {
		// Waiters for resolution need to learn of retirement so they can
		// pick up the final copy from the linker's table.
		if newStatus >= StatusResolved {
			fatalf("temporary class %s advanced to %v", c.PrettyDescriptor(), newStatus)
		}
		if newStatus == StatusRetired || newStatus == StatusErrorUnresolved {
			c.monitor.NotifyAll(self)
		}
	} else {
		if newStatus == StatusRetired {
			fatalf("non-temporary class %s retired", c.PrettyDescriptor())
		}
		if oldStatus >= StatusResolved || newStatus >= StatusResolved {
			c.monitor.NotifyAll(self)
		}
	}
}

// Lifecycle predicates.

func (c *Class) IsRetired() bool   { return c.Status() == StatusRetired }
func (c *Class) IsErroneous() bool { return c.Status().IsErroneous() }

func (c *Class) IsErroneousResolved() bool { return c.Status() == StatusErrorResolved }

func (c *Class) IsLoaded() bool { return c.Status() >= StatusLoaded }

func (c *Class) IsResolved() bool {
	s := c.Status()
	return s >= StatusResolved || s == StatusErrorResolved
}

func (c *Class) IsVerified() bool { return c.Status() >= StatusVerified }

func (c *Class) IsInitializing() bool { return c.Status() >= StatusInitializing }

func (c *Class) IsInitialized() bool { return c.Status() == StatusInitialized }

// rawAccessFlags returns the full flag word including runtime bits.
func (c *Class) rawAccessFlags() uint32 { return c.accessFlags.Load() }

// AccessFlags returns the user-visible flag bits.
func (c *Class) AccessFlags() uint32 { return c.accessFlags.Load() & JavaFlagsMask }

// SetAccessFlags installs the flag word, runtime bits included.
func (c *Class) SetAccessFlags(flags uint32) { c.accessFlags.Store(flags) }

// AddAccessFlags sets additional flag bits.
func (c *Class) AddAccessFlags(flags uint32) {
	c.accessFlags.Store(c.accessFlags.Load() | flags)
}

func (c *Class) IsPublic() bool      { return c.rawAccessFlags()&AccPublic != 0 }
func (c *Class) IsFinal() bool       { return c.rawAccessFlags()&AccFinal != 0 }
func (c *Class) IsAbstract() bool    { return c.rawAccessFlags()&AccAbstract != 0 }
func (c *Class) IsInterface() bool   { return c.rawAccessFlags()&AccInterface != 0 }
func (c *Class) IsSynthetic() bool   { return c.rawAccessFlags()&AccSynthetic != 0 }
func (c *Class) IsEnum() bool        { return c.rawAccessFlags()&AccEnum != 0 }
func (c *Class) IsAnnotation() bool  { return c.rawAccessFlags()&AccAnnotation != 0 }
func (c *Class) IsTemp() bool        { return c.rawAccessFlags()&AccClassIsTemp != 0 }
func (c *Class) IsProxyClass() bool  { return c.rawAccessFlags()&AccClassIsProxy != 0 }
func (c *Class) IsFinalizable() bool { return c.rawAccessFlags()&AccClassIsFinalizable != 0 }
func (c *Class) IsClassClass() bool  { return c.rawAccessFlags()&AccClassFlagClass != 0 }
func (c *Class) IsStringClass() bool { return c.rawAccessFlags()&AccClassFlagString != 0 }

func (c *Class) IsPrimitive() bool  { return c.primitiveType != 0 }
func (c *Class) IsArrayClass() bool { return c.componentType != nil }

// IsObjectClass reports whether c is the root object type. The linker
// gives every non-root class, interfaces included, a superclass.
func (c *Class) IsObjectClass() bool {
	return !c.IsPrimitive() && c.super == nil && !c.IsInterface()
}

// IsVariableSize reports whether instances vary in size; those classes
// never publish a fast-path allocation size.
func (c *Class) IsVariableSize() bool {
	return c.IsClassClass() || c.IsArrayClass() || c.IsStringClass()
}

// Structural accessors.

func (c *Class) Super() *Class               { return c.super }
func (c *Class) SetSuper(super *Class)       { c.super = super }
func (c *Class) ComponentType() *Class       { return c.componentType }
func (c *Class) SetComponentType(ct *Class)  { c.componentType = ct }
func (c *Class) ClassLoader() *ClassLoader   { return c.classLoader }
func (c *Class) SetClassLoader(l *ClassLoader) { c.classLoader = l }
func (c *Class) DexCache() *DexCache         { return c.dexCache }
func (c *Class) SetDexCache(dc *DexCache)    { c.dexCache = dc }
func (c *Class) PrimitiveType() byte         { return c.primitiveType }
func (c *Class) SetPrimitiveType(t byte)     { c.primitiveType = t }
func (c *Class) DexTypeIndex() dex.TypeIndex { return c.dexTypeIdx }
func (c *Class) SetDexTypeIndex(idx dex.TypeIndex) { c.dexTypeIdx = idx }
func (c *Class) DexClassDefIndex() uint16    { return c.dexClassDefIdx }
func (c *Class) SetDexClassDefIndex(i uint16) { c.dexClassDefIdx = i }

// SetGeneratedDescriptor caches the descriptor for classes with no
// container definition (proxies).
func (c *Class) SetGeneratedDescriptor(d string) { c.descriptorStr = d }

// SetProxyInterfaces installs the direct interfaces of a generated proxy.
func (c *Class) SetProxyInterfaces(ifaces []*Class) { c.proxyInterfaces = ifaces }

// ClassSize returns the total object size including embedded tables.
func (c *Class) ClassSize() uint32 { return c.classSize.Load() }

// SetClassSize grows the class size. Shrinking is an invariant violation.
func (c *Class) SetClassSize(newSize uint32) {
	if old := c.classSize.Load(); newSize < old {
		var b strings.Builder
		c.DumpClass(&b, DumpClassFullDetail)
		Logger().Error("class size shrank", zap.String("dump", b.String()))
		fatalf("class size shrank for %s: %d vs %d", c.PrettyClass(), newSize, old)
	}
	c.classSize.Store(newSize)
}

// ObjectSize returns the instance size for fixed-size classes.
func (c *Class) ObjectSize() uint32 { return c.objectSize }

// SetObjectSize records the instance size computed by the linker.
func (c *Class) SetObjectSize(size uint32) { c.objectSize = size }

// ObjectSizeAllocFastPath returns the cached allocation size, or the
// sentinel when allocation must re-derive the layout.
func (c *Class) ObjectSizeAllocFastPath() uint32 {
	return c.objectSizeAllocFastPath.Load()
}

// ReferenceInstanceOffsets returns the reference-offset bitmap or the
// walk-super sentinel.
func (c *Class) ReferenceInstanceOffsets() uint32 {
	return c.referenceOffsets.Load()
}

// SetReferenceInstanceOffsets installs the bitmap of instance-field
// offsets holding references. In debug mode the population count is
// checked against the hierarchy's reference field count.
func (c *Class) SetReferenceInstanceOffsets(newOffsets uint32) {
	if debugChecks && newOffsets != RefOffsetsWalkSuper {
		count := 0
		for k := c; k != nil; k = k.super {
			count += k.NumReferenceInstanceFields()
		}
		if bits.OnesCount32(newOffsets) != count {
			fatalf("reference offset bitmap %#x disagrees with %d reference fields of %s",
				newOffsets, count, c.PrettyClass())
		}
	}
	c.referenceOffsets.Store(newOffsets)
}

// Member table installation (linker only).

// SetInstanceFields installs the declared instance fields, which must be
// sorted by name then type descriptor.
func (c *Class) SetInstanceFields(fields []Field) {
	if debugChecks && !fieldsAreSorted(fields) {
		fatalf("instance fields of %s are not sorted", c.PrettyClass())
	}
	for i := range fields {
		fields[i].declaringClass = c
	}
	c.ifields = fields
}

// SetStaticFields installs the declared static fields, which must be
// sorted by name then type descriptor.
func (c *Class) SetStaticFields(fields []Field) {
	if debugChecks && !fieldsAreSorted(fields) {
		fatalf("static fields of %s are not sorted", c.PrettyClass())
	}
	for i := range fields {
		fields[i].declaringClass = c
	}
	c.sfields = fields
}

// SetDirectMethods installs constructors, statics, and privates.
func (c *Class) SetDirectMethods(methods []Method) {
	for i := range methods {
		methods[i].declaringClass = c
	}
	c.directMethods = methods
}

// SetVirtualMethods installs the virtual methods: declared ones first,
// then the methods copied in from interfaces starting at copiedOffset.
func (c *Class) SetVirtualMethods(methods []Method, copiedOffset int) {
	if copiedOffset < 0 || copiedOffset > len(methods) {
		fatalf("copied method offset %d out of range for %s", copiedOffset, c.PrettyClass())
	}
	for i := range methods {
		methods[i].declaringClass = c
		if i >= copiedOffset {
			methods[i].accessFlags |= AccCopied
		}
	}
	c.virtualMethods = methods
	c.copiedOffset = copiedOffset
}

func (c *Class) NumInstanceFields() int { return len(c.ifields) }
func (c *Class) NumStaticFields() int   { return len(c.sfields) }
func (c *Class) NumDirectMethods() int  { return len(c.directMethods) }
func (c *Class) NumVirtualMethods() int { return len(c.virtualMethods) }

func (c *Class) InstanceField(i int) *Field  { return &c.ifields[i] }
func (c *Class) StaticField(i int) *Field    { return &c.sfields[i] }
func (c *Class) DirectMethod(i int) *Method  { return &c.directMethods[i] }
func (c *Class) VirtualMethod(i int) *Method { return &c.virtualMethods[i] }

// NumReferenceInstanceFields counts declared instance fields holding
// references.
func (c *Class) NumReferenceInstanceFields() int {
	n := 0
	for i := range c.ifields {
		if c.ifields[i].IsReference() {
			n++
		}
	}
	return n
}

// declaredVirtualMethods returns the virtual methods declared on this
// class, excluding methods copied in from interfaces.
func (c *Class) declaredVirtualMethods() []Method {
	return c.virtualMethods[:c.copiedOffset]
}

// IfTable returns the flattened interface table.
func (c *Class) IfTable() *IfTable { return c.ifTable }

// SetIfTable installs the flattened interface table; the linker built it
// in reverse topological order.
func (c *Class) SetIfTable(t *IfTable) { c.ifTable = t }

// Imt returns the interface method dispatch table.
func (c *Class) Imt() *ImTable { return c.imt }

// SetImt installs the interface method dispatch table.
func (c *Class) SetImt(t *ImTable) { c.imt = t }

// Naming.

// Descriptor returns the binary descriptor. Primitives and arrays derive
// theirs; classes with a container definition read it from the dex file.
func (c *Class) Descriptor() string {
	switch {
	case c.IsPrimitive():
		return string(c.primitiveType)
	case c.IsArrayClass():
		return descriptor.ArrayOf(c.componentType.Descriptor())
	case c.IsProxyClass():
		return c.descriptorStr
	case c.dexCache != nil && c.dexTypeIdx != dex.NoIndex:
		return c.dexCache.DexFile().TypeDescriptor(c.dexTypeIdx)
	default:
		return c.descriptorStr
	}
}

// Name returns the display name, computing and caching it on first use.
func (c *Class) Name() string {
	if n := c.name.Load(); n != nil {
		return *n
	}
	n := descriptor.DisplayName(c.Descriptor())
	c.name.Store(&n)
	return n
}

// SourceFile returns the source file recorded in the container, or "".
func (c *Class) SourceFile() string {
	def := c.classDef()
	if def == nil {
		// Generated classes have no class def.
		return ""
	}
	return def.SourceFile
}

// Location describes where the class came from.
func (c *Class) Location() string {
	if c.dexCache != nil && !c.IsProxyClass() {
		return c.dexCache.Location()
	}
	// Arrays and proxies are generated and have no container location.
	return "generated class"
}

// classDef returns the container definition, or nil for generated classes.
func (c *Class) classDef() *dex.ClassDef {
	if c.dexClassDefIdx == dex.NoClassDef || c.dexCache == nil {
		return nil
	}
	return c.dexCache.DexFile().ClassDef(c.dexClassDefIdx)
}

// Hierarchy.

// Depth counts superclass links above c.
func (c *Class) Depth() uint32 {
	depth := uint32(0)
	for k := c; k.super != nil; k = k.super {
		depth++
	}
	return depth
}

// IsSubClass walks the superclass chain looking for target. Interfaces
// are not considered; use Implements for those.
func (c *Class) IsSubClass(target *Class) bool {
	if debugChecks && (c.IsInterface() || c.IsPrimitive()) {
		fatalf("IsSubClass on non-class %s", c.PrettyClass())
	}
	for k := c; k != nil; k = k.super {
		if k == target {
			return true
		}
	}
	return false
}

// Implements reports whether c transitively implements iface.
func (c *Class) Implements(iface *Class) bool {
	return c.ifTable.Contains(iface)
}

// IsAssignableFrom reports whether a value of type src can be assigned to
// a variable of type c.
func (c *Class) IsAssignableFrom(src *Class) bool {
	if src == nil {
		return false
	}
	switch {
	case c == src:
		return true
	case c.IsObjectClass():
		return !src.IsPrimitive()
	case c.IsInterface():
		return src.Implements(c)
	case src.IsArrayClass():
		return c.isArrayAssignableFrom(src)
	default:
		return !src.IsInterface() && !src.IsPrimitive() && src.IsSubClass(c)
	}
}

func (c *Class) isArrayAssignableFrom(src *Class) bool {
	if !c.IsArrayClass() {
		return false
	}
	return c.componentType.IsAssignableFrom(src.componentType)
}

// GetCommonSuperClass returns the closest class assignable from both c
// and klass. Defined for classes only, never interfaces.
func (c *Class) GetCommonSuperClass(klass *Class) *Class {
	if klass == nil || klass.IsInterface() || c.IsInterface() {
		fatalf("common superclass requires two classes, got %s and %s",
			c.PrettyClass(), PrettyClassOf(klass))
	}
	common := c
	for !common.IsAssignableFrom(klass) {
		old := common
		common = common.super
		if common == nil {
			fatalf("no common superclass above %s", old.PrettyClass())
		}
	}
	return common
}

// Equals reports type identity: same descriptor and same defining loader.
func (c *Class) Equals(other *Class) bool {
	if c == other {
		return true
	}
	return other != nil &&
		c.classLoader == other.classLoader &&
		c.Descriptor() == other.Descriptor()
}

// IsInSamePackage reports whether c and that live in the same package:
// loaders must match, and array classes compare by element type.
func (c *Class) IsInSamePackage(that *Class) bool {
	klass1, klass2 := c, that
	if klass1 == klass2 {
		return true
	}
	// Class loaders must match.
	if klass1.classLoader != klass2.classLoader {
		return false
	}
	// Arrays are in the same package as their element classes.
	for klass1.IsArrayClass() {
		klass1 = klass1.componentType
	}
	for klass2.IsArrayClass() {
		klass2 = klass2.componentType
	}
	if klass1 == klass2 {
		return true
	}
	return descriptor.InSamePackage(klass1.Descriptor(), klass2.Descriptor())
}

// Direct interfaces.

// NumDirectInterfaces returns the number of directly declared interfaces.
// Array classes implement exactly the two marker interfaces.
func (c *Class) NumDirectInterfaces() int {
	switch {
	case c.IsPrimitive():
		return 0
	case c.IsArrayClass():
		return 2
	case c.IsProxyClass():
		return len(c.proxyInterfaces)
	default:
		if def := c.classDef(); def != nil {
			return len(def.Interfaces)
		}
		return 0
	}
}

// DirectInterfaceTypeIdx returns the container type index of the idx-th
// direct interface.
func (c *Class) DirectInterfaceTypeIdx(idx int) dex.TypeIndex {
	if c.IsPrimitive() || c.IsArrayClass() {
		fatalf("direct interface type index on generated class %s", c.PrettyClass())
	}
	def := c.classDef()
	if def == nil {
		fatalf("direct interface type index without class def on %s", c.PrettyClass())
	}
	return def.Interfaces[idx]
}

// DirectInterface returns the idx-th direct interface if it has been
// resolved, nil otherwise. For array classes the marker interfaces come
// from the interface table the linker installed.
func (c *Class) DirectInterface(idx int) *Class {
	switch {
	case c.IsArrayClass():
		if c.ifTable == nil || idx >= c.ifTable.Count() {
			return nil
		}
		return c.ifTable.Interface(idx)
	case c.IsProxyClass():
		return c.proxyInterfaces[idx]
	default:
		typeIdx := c.DirectInterfaceTypeIdx(idx)
		return c.dexCache.ResolvedType(typeIdx)
	}
}

// FindTypeIndexInOtherDexFile returns this class's type index within
// another container, or dex.NoIndex when the container never mentions it.
func (c *Class) FindTypeIndexInOtherDexFile(file *dex.File) dex.TypeIndex {
	return file.FindTypeIndex(c.Descriptor())
}

func roundUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

// PrettyClassOf is a nil-tolerant PrettyClass.
func PrettyClassOf(c *Class) string {
	if c == nil {
		return "null"
	}
	return c.PrettyClass()
}
