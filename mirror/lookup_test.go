package mirror

import (
	"testing"

	"github.com/AquaPie/art/thread"
)

func fieldsOf(specs ...[3]string) []Field {
	fields := make([]Field, 0, len(specs))
	for i, s := range specs {
		flags := uint32(AccPublic)
		if s[2] == "static" {
			flags |= AccStatic
		}
		fields = append(fields, NewField(s[0], s[1], flags, uint32(i)))
	}
	SortFields(fields)
	return fields
}

func TestFindDeclaredInstanceField_BinarySearch(t *testing.T) {
	resetRuntime(t)
	c := newTestClass("LWidget;", nil)
	c.SetInstanceFields(fieldsOf(
		[3]string{"alpha", "I", ""},
		[3]string{"beta", "J", ""},
		[3]string{"beta", "Ljava/lang/String;", ""},
		[3]string{"gamma", "[B", ""},
		[3]string{"zeta", "Z", ""},
	))

	for _, tc := range []struct {
		name, typ string
		want      bool
	}{
		{"alpha", "I", true},
		{"beta", "J", true},
		{"beta", "Ljava/lang/String;", true},
		{"gamma", "[B", true},
		{"zeta", "Z", true},
		{"alpha", "J", false},
		{"delta", "I", false},
		{"", "I", false},
	} {
		f := c.FindDeclaredInstanceField(tc.name, tc.typ)
		if (f != nil) != tc.want {
			t.Fatalf("FindDeclaredInstanceField(%q, %q) = %v, want found=%v", tc.name, tc.typ, f, tc.want)
		}
		if f != nil && (f.Name() != tc.name || f.TypeDescriptor() != tc.typ) {
			t.Fatalf("found wrong field %s for (%q, %q)", f.PrettyField(), tc.name, tc.typ)
		}
	}
}

func TestFindDeclaredInstanceField_DuplicateNameAndType(t *testing.T) {
	resetRuntime(t)
	// Obfuscators emit classes where two fields share a name and type.
	// Lookup must return one of them rather than fail.
	c := newTestClass("LObfuscated;", nil)
	c.SetInstanceFields(fieldsOf(
		[3]string{"a", "I", ""},
		[3]string{"a", "I", ""},
		[3]string{"b", "I", ""},
	))
	f := c.FindDeclaredInstanceField("a", "I")
	if f == nil {
		t.Fatal("expected one of the duplicate fields")
	}
	if f.Name() != "a" || f.TypeDescriptor() != "I" {
		t.Fatalf("found wrong field %s", f.PrettyField())
	}
}

func TestFindInstanceField_WalksSuperclasses(t *testing.T) {
	resetRuntime(t)
	base := newTestClass("LBase;", nil)
	base.SetInstanceFields(fieldsOf([3]string{"count", "I", ""}))
	derived := newTestClass("LDerived;", base)
	derived.SetInstanceFields(fieldsOf([3]string{"extra", "J", ""}))

	if f := derived.FindInstanceField("count", "I"); f == nil || f.DeclaringClass() != base {
		t.Fatalf("expected inherited field declared on base, got %v", f)
	}
	if f := derived.FindDeclaredInstanceField("count", "I"); f != nil {
		t.Fatal("declared lookup must not see inherited fields")
	}
}

func TestFindStaticField_RecursesInterfaces(t *testing.T) {
	resetRuntime(t)
	iface := newTestInterface("LHasConstant;")
	iface.SetStaticFields(fieldsOf([3]string{"MAX", "I", "static"}))

	super := newTestInterface("LGrandConstant;")
	super.SetStaticFields(fieldsOf([3]string{"MIN", "I", "static"}))

	// Give the implementing class its direct interface through the proxy
	// interface list, which DirectInterface serves without a container.
	c := newTestClass("LImpl;", nil)
	c.AddAccessFlags(AccClassIsProxy)
	c.SetProxyInterfaces([]*Class{iface})

	// Interface statics of superinterfaces are reached recursively.
	iface.AddAccessFlags(AccClassIsProxy)
	iface.SetProxyInterfaces([]*Class{super})

	if f := FindStaticField(c, "MAX", "I"); f == nil || f.DeclaringClass() != iface {
		t.Fatalf("expected MAX from direct interface, got %v", f)
	}
	if f := FindStaticField(c, "MIN", "I"); f == nil || f.DeclaringClass() != super {
		t.Fatalf("expected MIN from superinterface, got %v", f)
	}
	if f := FindStaticField(c, "NONE", "I"); f != nil {
		t.Fatalf("expected no match, got %s", f.PrettyField())
	}
}

func TestFindField_ResolutionOrder(t *testing.T) {
	resetRuntime(t)
	c := newTestClass("LShadow;", nil)
	c.SetInstanceFields(fieldsOf([3]string{"value", "I", ""}))
	c.SetStaticFields(fieldsOf([3]string{"value", "I", "static"}))

	// Declared instance fields shadow declared statics of the same class.
	f := FindField(c, "value", "I")
	if f == nil || f.IsStatic() {
		t.Fatalf("expected the instance field first, got %v", f)
	}
}

func methodOf(name, sig string, flags uint32) Method {
	return NewMethod(name, sig, flags, 0)
}

func TestFindDirectMethod_WalksSuperclasses(t *testing.T) {
	resetRuntime(t)
	base := newTestClass("LBase;", nil)
	base.SetDirectMethods([]Method{
		methodOf("<init>", "()V", AccPublic|AccConstructor),
		methodOf("helper", "()V", AccPrivate),
	})
	derived := newTestClass("LDerived;", base)
	derived.SetDirectMethods([]Method{
		methodOf("<init>", "()V", AccPublic|AccConstructor),
	})

	m := derived.FindDirectMethod("helper", "()V")
	if m == nil || m.DeclaringClass() != base {
		t.Fatalf("expected helper from base, got %v", m)
	}
	if m := derived.FindDeclaredDirectMethod("helper", "()V"); m != nil {
		t.Fatal("declared lookup must not see inherited methods")
	}
}

func TestFindVirtualMethod_SignatureDisambiguates(t *testing.T) {
	resetRuntime(t)
	c := newTestClass("LOverloads;", nil)
	c.SetVirtualMethods([]Method{
		methodOf("run", "()V", AccPublic),
		methodOf("run", "(I)V", AccPublic),
	}, 2)

	m := c.FindVirtualMethod("run", "(I)V")
	if m == nil || m.Signature() != "(I)V" {
		t.Fatalf("expected the (I)V overload, got %v", m)
	}
	if m := c.FindVirtualMethod("run", "(J)V"); m != nil {
		t.Fatalf("expected no match for (J)V, got %s", m.PrettyMethod())
	}
}

func TestFindClassInitializer(t *testing.T) {
	resetRuntime(t)
	c := newTestClass("LStaticInit;", nil)
	c.SetDirectMethods([]Method{
		methodOf("<init>", "()V", AccPublic|AccConstructor),
		methodOf("<clinit>", "()V", AccStatic|AccConstructor),
	})
	m := c.FindClassInitializer()
	if m == nil || m.Name() != "<clinit>" {
		t.Fatalf("expected <clinit>, got %v", m)
	}

	bare := newTestClass("LNoInit;", nil)
	if m := bare.FindClassInitializer(); m != nil {
		t.Fatalf("expected no initializer, got %s", m.PrettyMethod())
	}
}

// buildDiamond sets up the interface diamond used by the invoke-super
// tests:
//
//	LTop;  declares m()V abstract
//	LLeft; extends Top, declares m()V default
//	LRight; extends Top, declares m()V abstract
//
// The returned class implements Left and Right, with a flattened table
// in topological order Top, Left, Right.
func buildDiamond(t *testing.T, leftDefault, rightDefault bool) (c, top, left, right *Class) {
	t.Helper()
	top = newTestInterface("LTop;")
	top.SetVirtualMethods([]Method{methodOf("m", "()V", AccPublic|AccAbstract)}, 1)
	top.SetIfTable(NewIfTable(0))

	mkBranch := func(desc string, dflt bool) *Class {
		iface := newTestInterface(desc)
		flags := uint32(AccPublic)
		if dflt {
			flags |= AccDefault
		} else {
			flags |= AccAbstract
		}
		iface.SetVirtualMethods([]Method{methodOf("m", "()V", flags)}, 1)
		it := NewIfTable(1)
		it.SetInterface(0, top)
		iface.SetIfTable(it)
		return iface
	}
	left = mkBranch("LLeft;", leftDefault)
	right = mkBranch("LRight;", rightDefault)

	c = newTestClass("LImpl;", nil)
	it := NewIfTable(3)
	it.SetInterface(0, top)
	it.SetInterface(1, left)
	it.SetInterface(2, right)
	c.SetIfTable(it)
	return c, top, left, right
}

func TestFindVirtualMethodForInterfaceSuper_DefaultWins(t *testing.T) {
	resetRuntime(t)
	c, top, left, _ := buildDiamond(t, true, false)
	_ = c

	// Resolving m against Left itself: Left declares it, immediate hit.
	ref := top.VirtualMethod(0)
	got := left.FindVirtualMethodForInterfaceSuper(ref)
	if got == nil || got.DeclaringClass() != left {
		t.Fatalf("expected Left's own declaration, got %v", got)
	}
}

func TestFindVirtualMethodForInterfaceSuper_AbstractDominatesInheritedDefault(t *testing.T) {
	resetRuntime(t)
	// Sub extends Left (which has the default) and abstracts m away again.
	_, top, left, _ := buildDiamond(t, true, false)

	sub := newTestInterface("LSub;")
	sub.SetVirtualMethods([]Method{methodOf("m", "()V", AccPublic|AccAbstract)}, 1)
	it := NewIfTable(2)
	it.SetInterface(0, top)
	it.SetInterface(1, left)
	sub.SetIfTable(it)

	// Resolver target: an interface flattening Sub after Left, so the
	// reverse walk sees Sub's abstract before Left's default.
	target := newTestInterface("LTarget;")
	target.SetVirtualMethods(nil, 0)
	tt := NewIfTable(3)
	tt.SetInterface(0, top)
	tt.SetInterface(1, left)
	tt.SetInterface(2, sub)
	target.SetIfTable(tt)

	ref := top.VirtualMethod(0)
	got := target.FindVirtualMethodForInterfaceSuper(ref)
	if got == nil {
		t.Fatal("expected a resolution result")
	}
	// Left's default is dominated by Sub's abstract redeclaration, so the
	// abstract method is the result.
	if !got.IsAbstract() || got.DeclaringClass() != sub {
		t.Fatalf("expected Sub's abstract to dominate Left's default, got %s on %s",
			got.PrettyMethod(), got.DeclaringClass().PrettyDescriptor())
	}
}

func TestFindVirtualMethodForInterfaceSuper_UnrelatedAbstractDoesNotDominate(t *testing.T) {
	resetRuntime(t)
	// Right's abstract comes from an unrelated lineage; Left's default
	// stands. The reverse walk sees Right before Left.
	c, top, left, right := buildDiamond(t, true, false)

	ref := top.VirtualMethod(0)
	got := c.FindVirtualMethodForInterfaceSuper(ref)
	if got == nil {
		t.Fatal("expected a resolution result")
	}
	if got.IsAbstract() {
		t.Fatalf("expected the concrete default from Left, got abstract from %s",
			got.DeclaringClass().PrettyDescriptor())
	}
	if got.DeclaringClass() != left {
		t.Fatalf("expected Left's default, got %s", got.DeclaringClass().PrettyDescriptor())
	}
	_ = right
}

func TestFindVirtualMethodForInterfaceSuper_AllAbstract(t *testing.T) {
	resetRuntime(t)
	c, top, _, right := buildDiamond(t, false, false)

	ref := top.VirtualMethod(0)
	got := c.FindVirtualMethodForInterfaceSuper(ref)
	if got == nil {
		t.Fatal("expected an abstract fallback result")
	}
	if !got.IsAbstract() {
		t.Fatalf("expected abstract, got %s", got.PrettyMethod())
	}
	// The first abstract collected by the reverse walk wins; that is
	// Right, the most derived entry.
	if got.DeclaringClass() != right {
		t.Fatalf("expected Right's abstract, got %s", got.DeclaringClass().PrettyDescriptor())
	}
}

func TestFindInterfaceMethod_SearchesFlattenedTable(t *testing.T) {
	resetRuntime(t)
	c, top, _, _ := buildDiamond(t, true, false)

	m := c.FindInterfaceMethod("m", "()V")
	if m == nil {
		t.Fatal("expected m found through the flattened table")
	}
	_ = top
}

func TestSetSkipAccessChecksFlagOnAllMethods(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LChecked;", nil)
	c.SetDirectMethods([]Method{
		methodOf("<init>", "()V", AccPublic|AccConstructor),
		methodOf("jni", "()V", AccPublic|AccNative),
	})
	c.SetVirtualMethods([]Method{
		methodOf("run", "()V", AccPublic),
		methodOf("todo", "()V", AccPublic|AccAbstract),
	}, 2)
	advance(self, c, StatusVerified)

	c.SetSkipAccessChecksFlagOnAllMethods()
	if !c.DirectMethod(0).SkipsAccessChecks() {
		t.Fatal("constructor should be marked")
	}
	if c.DirectMethod(1).SkipsAccessChecks() {
		t.Fatal("native method must not be marked")
	}
	if !c.VirtualMethod(0).SkipsAccessChecks() {
		t.Fatal("virtual method should be marked")
	}
	if c.VirtualMethod(1).SkipsAccessChecks() {
		t.Fatal("abstract method must not be marked")
	}
}
