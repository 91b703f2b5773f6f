package linker

import (
	"sync"
	"testing"
	"time"

	"github.com/AquaPie/art/dex"
	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/heap"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

func newTestLinker(t *testing.T, h heap.Heap) *Linker {
	t.Helper()
	l := NewWithDefaults(h)
	if err := l.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	t.Cleanup(l.Shutdown)
	return l
}

// testFile builds a container with the given extra types after the
// standard preamble (Object at 0).
func testFile(types []string, defs []dex.ClassDef) *dex.File {
	all := append([]string{"Ljava/lang/Object;"}, types...)
	return dex.NewFile("test.jar", all, defs)
}

func TestBootstrap_Universe(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())

	obj := l.ObjectClass()
	if obj == nil || !obj.IsInitialized() {
		t.Fatal("object root missing or uninitialized")
	}
	if mirror.GetClassClass() == nil {
		t.Fatal("class-of-classes not installed")
	}
	if !mirror.LinkerInitialized() {
		t.Fatal("linker gate not armed")
	}
	intClass := l.Primitive('I')
	if intClass == nil || !intClass.IsPrimitive() || intClass.Name() != "int" {
		t.Fatalf("int primitive wrong: %v", intClass)
	}
	if l.LookupClass(nil, "Ljava/lang/Cloneable;") == nil {
		t.Fatal("Cloneable not published")
	}
}

func TestBootstrap_Twice(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	if err := l.Bootstrap(); err == nil {
		t.Fatal("second bootstrap should fail")
	}
}

func TestDefineAndResolveClass(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LWidget;"}, []dex.ClassDef{{
		ClassIdx:    1,
		SuperIdx:    dex.NoIndex,
		AccessFlags: mirror.AccPublic,
		SourceFile:  "Widget.java",
	}})
	cache := mirror.NewDexCache(file, 8, 8)

	temp, err := l.DefineClass(self, ClassSource{
		Cache:  cache,
		DefIdx: 0,
		InstanceFields: []mirror.Field{
			mirror.NewField("count", "I", mirror.AccPublic, 0),
			mirror.NewField("buffer", "[B", mirror.AccPrivate, 1),
		},
		DirectMethods: []mirror.Method{
			mirror.NewMethod("<init>", "()V", mirror.AccPublic|mirror.AccConstructor, 0),
		},
		VirtualMethods: []mirror.Method{
			mirror.NewMethod("run", "()V", mirror.AccPublic, 1),
		},
	})
	if err != nil {
		t.Fatalf("DefineClass failed: %v", err)
	}
	if !temp.IsTemp() || !temp.IsLoaded() {
		t.Fatalf("temp class wrong state: temp=%v status=%v", temp.IsTemp(), temp.Status())
	}

	final, err := l.ResolveClass(self, temp)
	if err != nil {
		t.Fatalf("ResolveClass failed: %v", err)
	}
	if !final.IsResolved() || final.IsTemp() {
		t.Fatalf("final class wrong state: %v", final.Status())
	}
	if !temp.IsRetired() {
		t.Fatalf("temp class not retired: %v", temp.Status())
	}
	if final.Super() != l.ObjectClass() {
		t.Fatal("superclass not the object root")
	}
	if got := l.LookupClass(nil, "LWidget;"); got != final {
		t.Fatal("final class not published")
	}
	if cache.ResolvedType(1) != final {
		t.Fatal("container cache not re-pointed to the final class")
	}
	if final.EmbeddedVTableLength() != 1 {
		t.Fatalf("embedded vtable length = %d", final.EmbeddedVTableLength())
	}
	if f := final.FindDeclaredInstanceField("count", "I"); f == nil {
		t.Fatal("declared field lost in resolution")
	}
}

func TestResolveClass_VTableOverride(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LBase;", "LDerived;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
		{ClassIdx: 2, SuperIdx: 1, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 8)

	baseTemp, err := l.DefineClass(self, ClassSource{
		Cache: cache, DefIdx: 0,
		VirtualMethods: []mirror.Method{
			mirror.NewMethod("run", "()V", mirror.AccPublic, 0),
			mirror.NewMethod("stop", "()V", mirror.AccPublic, 1),
		},
	})
	if err != nil {
		t.Fatalf("define base: %v", err)
	}
	base, err := l.ResolveClass(self, baseTemp)
	if err != nil {
		t.Fatalf("resolve base: %v", err)
	}

	derivedTemp, err := l.DefineClass(self, ClassSource{
		Cache: cache, DefIdx: 1,
		VirtualMethods: []mirror.Method{
			mirror.NewMethod("run", "()V", mirror.AccPublic, 2),
			mirror.NewMethod("extra", "()V", mirror.AccPublic, 3),
		},
	})
	if err != nil {
		t.Fatalf("define derived: %v", err)
	}
	derived, err := l.ResolveClass(self, derivedTemp)
	if err != nil {
		t.Fatalf("resolve derived: %v", err)
	}

	if got := derived.EmbeddedVTableLength(); got != 3 {
		t.Fatalf("derived vtable length = %d, want 3", got)
	}
	// Slot 0 inherited "run" must now be the override.
	if m := derived.EmbeddedVTableEntry(0); m.DeclaringClass() != derived {
		t.Fatalf("run not overridden: declared on %s", m.DeclaringClass().PrettyDescriptor())
	}
	// Slot 1 "stop" stays inherited.
	if m := derived.EmbeddedVTableEntry(1); m.DeclaringClass() != base {
		t.Fatalf("stop should be inherited from base")
	}
	if !base.IsAssignableFrom(derived) {
		t.Fatal("derived must be assignable to base")
	}
}

func TestResolveClass_InterfaceTableOrder(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LTop;", "LMid;", "LImpl;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic | mirror.AccInterface | mirror.AccAbstract},
		{ClassIdx: 2, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic | mirror.AccInterface | mirror.AccAbstract,
			Interfaces: []dex.TypeIndex{1}},
		{ClassIdx: 3, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic,
			Interfaces: []dex.TypeIndex{2}},
	})
	cache := mirror.NewDexCache(file, 0, 8)

	for defIdx := uint16(0); defIdx < 2; defIdx++ {
		temp, err := l.DefineClass(self, ClassSource{
			Cache: cache, DefIdx: defIdx,
			VirtualMethods: []mirror.Method{
				mirror.NewMethod("m", "()V", mirror.AccPublic|mirror.AccAbstract, uint32(defIdx)),
			},
		})
		if err != nil {
			t.Fatalf("define %d: %v", defIdx, err)
		}
		if _, err := l.ResolveClass(self, temp); err != nil {
			t.Fatalf("resolve %d: %v", defIdx, err)
		}
	}

	implTemp, err := l.DefineClass(self, ClassSource{
		Cache: cache, DefIdx: 2,
		VirtualMethods: []mirror.Method{
			mirror.NewMethod("m", "()V", mirror.AccPublic, 2),
		},
	})
	if err != nil {
		t.Fatalf("define impl: %v", err)
	}
	impl, err := l.ResolveClass(self, implTemp)
	if err != nil {
		t.Fatalf("resolve impl: %v", err)
	}

	it := impl.IfTable()
	if it.Count() != 2 {
		t.Fatalf("iftable count = %d, want 2", it.Count())
	}
	// Superinterfaces precede their subinterfaces: Top before Mid.
	if it.Interface(0).Descriptor() != "LTop;" || it.Interface(1).Descriptor() != "LMid;" {
		t.Fatalf("iftable order: %s, %s",
			it.Interface(0).Descriptor(), it.Interface(1).Descriptor())
	}
	// Each entry routes to the implementation.
	if ms := it.Methods(1); len(ms) != 1 || ms[0].DeclaringClass() != impl {
		t.Fatal("interface method not routed to the implementation")
	}
	top := l.LookupClass(nil, "LTop;")
	if !top.IsAssignableFrom(impl) {
		t.Fatal("impl must be assignable to its transitive interface")
	}
}

func TestWaitForResolution_ReroutesFromRetiredTemp(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("resolver")

	file := testFile([]string{"LShared;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 0)
	temp, err := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0})
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	type outcome struct {
		c   *mirror.Class
		err *errors.Error
	}
	got := make(chan outcome, 1)
	var started sync.WaitGroup
	started.Add(1)
	go func() {
		waiter := thread.New("waiter")
		started.Done()
		c, err := l.WaitForResolution(waiter, temp)
		got <- outcome{c, err}
	}()
	started.Wait()

	final, err := l.ResolveClass(self, temp)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	select {
	case o := <-got:
		if o.err != nil {
			t.Fatalf("waiter failed: %v", o.err)
		}
		if o.c != final {
			t.Fatal("waiter did not land on the final class")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never returned")
	}
}

func TestResolveClass_MissingSuperIsErroneous(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LOrphan;", "LGone;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: 2, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 0)
	temp, err := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0})
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	if _, err = l.ResolveClass(self, temp); err == nil {
		t.Fatal("expected resolution failure")
	}
	if err.Kind != errors.KindNotFound {
		t.Fatalf("error kind = %v", err.Kind)
	}
	if !temp.IsErroneous() {
		t.Fatalf("temp class should be erroneous, got %v", temp.Status())
	}
	// Subsequent waiters see the failure.
	if _, werr := l.WaitForResolution(self, temp); werr == nil {
		t.Fatal("expected waiters to observe the failure")
	}
}

func TestDefineClass_DuplicateRejected(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LOnce;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 0)
	temp, err := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0})
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := l.ResolveClass(self, temp); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0}); err == nil {
		t.Fatal("duplicate definition should fail")
	}
}

func TestInitializeClass(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LBase;", "LDerived;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
		{ClassIdx: 2, SuperIdx: 1, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 8)

	baseTemp, _ := l.DefineClass(self, ClassSource{
		Cache: cache, DefIdx: 0,
		DirectMethods: []mirror.Method{
			mirror.NewMethod("<clinit>", "()V", mirror.AccStatic|mirror.AccConstructor, 0),
		},
	})
	base, err := l.ResolveClass(self, baseTemp)
	if err != nil {
		t.Fatalf("resolve base: %v", err)
	}
	derivedTemp, _ := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 1})
	derived, err := l.ResolveClass(self, derivedTemp)
	if err != nil {
		t.Fatalf("resolve derived: %v", err)
	}

	if err := l.InitializeClass(self, derived); err != nil {
		t.Fatalf("InitializeClass failed: %v", err)
	}
	if !derived.IsInitialized() {
		t.Fatalf("derived status = %v", derived.Status())
	}
	// Superclass initialization happens first and sticks.
	if !base.IsInitialized() {
		t.Fatalf("base status = %v", base.Status())
	}
	// Verified classes get their methods marked pre-verified.
	if m := base.FindClassInitializer(); m == nil || !m.SkipsAccessChecks() {
		t.Fatal("initializer not marked pre-verified")
	}
	// Idempotent.
	if err := l.InitializeClass(self, derived); err != nil {
		t.Fatalf("second initialization: %v", err)
	}
}

func TestInitializeClass_Concurrent(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	file := testFile([]string{"LShared;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 0)
	temp, _ := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0})
	klass, err := l.ResolveClass(self, temp)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	const n = 8
	errs := make([]*errors.Error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = l.InitializeClass(thread.New("worker"), klass)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d failed: %v", i, err)
		}
	}
	if !klass.IsInitialized() {
		t.Fatalf("status = %v", klass.Status())
	}
}

func TestAllocArrayClass(t *testing.T) {
	l := newTestLinker(t, heap.Unlimited())
	self := thread.New("main")

	intClass := l.Primitive('I')
	arr, err := l.AllocArrayClass(self, intClass)
	if err != nil {
		t.Fatalf("AllocArrayClass failed: %v", err)
	}
	if arr.Descriptor() != "[I" {
		t.Fatalf("descriptor = %q", arr.Descriptor())
	}
	if !arr.IsInitialized() || !arr.IsArrayClass() {
		t.Fatalf("array state wrong: %v", arr.Status())
	}
	if arr.NumDirectInterfaces() != 2 {
		t.Fatalf("marker interfaces = %d", arr.NumDirectInterfaces())
	}
	cloneable := l.LookupClass(nil, "Ljava/lang/Cloneable;")
	if !cloneable.IsAssignableFrom(arr) {
		t.Fatal("arrays implement Cloneable")
	}

	// Same component yields the same published class.
	again, err := l.AllocArrayClass(self, intClass)
	if err != nil {
		t.Fatalf("second AllocArrayClass failed: %v", err)
	}
	if again != arr {
		t.Fatal("array class identity lost")
	}

	// Arrays of arrays.
	arr2, err := l.AllocArrayClass(self, arr)
	if err != nil {
		t.Fatalf("nested AllocArrayClass failed: %v", err)
	}
	if arr2.Descriptor() != "[[I" {
		t.Fatalf("nested descriptor = %q", arr2.Descriptor())
	}
}

func TestDefineClass_OutOfMemory(t *testing.T) {
	// Budget covers bootstrap but not the definition after it.
	sim := heap.NewSim()
	l := newTestLinker(t, sim)
	self := thread.New("main")

	exhausted := heap.NewSimWithBudget(1)
	mirror.SetHeap(exhausted)
	t.Cleanup(func() { mirror.SetHeap(sim) })

	file := testFile([]string{"LStarved;"}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex, AccessFlags: mirror.AccPublic},
	})
	cache := mirror.NewDexCache(file, 0, 0)
	c, err := l.DefineClass(self, ClassSource{Cache: cache, DefIdx: 0})
	if c != nil || err == nil {
		t.Fatalf("expected allocation failure, got %v, %v", c, err)
	}
	if !err.IsOutOfMemory() {
		t.Fatalf("error kind = %v", err.Kind)
	}
}
