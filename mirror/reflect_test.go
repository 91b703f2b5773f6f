package mirror

import (
	"testing"

	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/thread"
)

func TestGetDeclaredMethod_PrefersNonSynthetic(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LCovariant;", nil)
	// Covariant return types: the compiler emits a synthetic bridge with
	// the same name and parameters.
	c.SetVirtualMethods([]Method{
		methodOf("get", "()Ljava/lang/Object;", AccPublic|AccSynthetic),
		methodOf("get", "()Ljava/lang/String;", AccPublic),
	}, 2)

	m, err := c.GetDeclaredMethod(self, "get", "()")
	if err != nil {
		t.Fatalf("GetDeclaredMethod failed: %v", err)
	}
	if m == nil || m.IsSynthetic() {
		t.Fatalf("expected the non-synthetic method, got %v", m)
	}
}

func TestGetDeclaredMethod_SyntheticFallback(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LEscalated;", nil)
	c.SetVirtualMethods([]Method{
		methodOf("access", "()V", AccPublic|AccSynthetic),
	}, 1)

	m, err := c.GetDeclaredMethod(self, "access", "()")
	if err != nil {
		t.Fatalf("GetDeclaredMethod failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected the synthetic method as fallback")
	}
}

func TestGetDeclaredMethod_NeverReturnsMiranda(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LAbstractImpl;", nil)
	c.SetVirtualMethods([]Method{
		methodOf("run", "()V", AccPublic|AccAbstract|AccMiranda),
	}, 0)

	m, err := c.GetDeclaredMethod(self, "run", "()")
	if err != nil {
		t.Fatalf("GetDeclaredMethod failed: %v", err)
	}
	if m != nil {
		t.Fatalf("miranda methods must never be returned, got %s", m.PrettyMethod())
	}
}

func TestGetDeclaredMethod_DirectMethodsExcludeConstructors(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LHelpers;", nil)
	c.SetDirectMethods([]Method{
		methodOf("<init>", "()V", AccPublic|AccConstructor),
		methodOf("helper", "(I)V", AccPrivate|AccStatic),
	})

	m, err := c.GetDeclaredMethod(self, "helper", "(I)")
	if err != nil {
		t.Fatalf("GetDeclaredMethod failed: %v", err)
	}
	if m == nil || m.Name() != "helper" {
		t.Fatalf("expected helper, got %v", m)
	}

	m, err = c.GetDeclaredMethod(self, "<init>", "()")
	if err != nil {
		t.Fatalf("GetDeclaredMethod failed: %v", err)
	}
	if m != nil {
		t.Fatal("constructors are not methods")
	}
}

func TestGetDeclaredMethod_EmptyNameIsError(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LAnything;", nil)
	m, err := c.GetDeclaredMethod(self, "", "()")
	if m != nil || err == nil {
		t.Fatalf("expected nil-name error, got %v, %v", m, err)
	}
	if err.Kind != errors.KindNilPointer {
		t.Fatalf("error kind = %v", err.Kind)
	}
}

func TestGetDeclaredMethod_PropagatesPendingFailure(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LUnlucky;", nil)
	c.SetVirtualMethods([]Method{
		methodOf("run", "()V", AccPublic),
	}, 1)

	pending := errors.Resolution("LUnlucky;", nil)
	self.SetPending(pending)
	m, err := c.GetDeclaredMethod(self, "run", "()")
	if m != nil {
		t.Fatal("scan must stop on a pending failure")
	}
	if err != pending {
		t.Fatalf("expected the pending failure propagated, got %v", err)
	}
}

func TestGetDeclaredConstructor(t *testing.T) {
	resetRuntime(t)
	self := thread.New("main")
	c := newTestClass("LBuilders;", nil)
	c.SetDirectMethods([]Method{
		methodOf("<clinit>", "()V", AccStatic|AccConstructor),
		methodOf("<init>", "()V", AccPublic|AccConstructor),
		methodOf("<init>", "(I)V", AccPublic|AccConstructor),
	})

	m, err := c.GetDeclaredConstructor(self, "(I)")
	if err != nil {
		t.Fatalf("GetDeclaredConstructor failed: %v", err)
	}
	if m == nil || m.Signature() != "(I)V" {
		t.Fatalf("expected the (I)V constructor, got %v", m)
	}

	// The static initializer never matches, even with empty parameters.
	m, err = c.GetDeclaredConstructor(self, "()")
	if err != nil {
		t.Fatalf("GetDeclaredConstructor failed: %v", err)
	}
	if m == nil || m.IsStatic() {
		t.Fatalf("expected the instance constructor, got %v", m)
	}
}
