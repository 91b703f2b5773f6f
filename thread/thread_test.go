package thread

import (
	"testing"

	"github.com/AquaPie/art/errors"
)

func TestThread_PendingLifecycle(t *testing.T) {
	th := New("worker")
	if th.IsPending() {
		t.Fatal("fresh thread should have no pending failure")
	}

	th.SetPendingOOM(4096)
	if !th.IsPending() {
		t.Fatal("expected pending failure after SetPendingOOM")
	}
	if !th.Pending().IsOutOfMemory() {
		t.Fatal("pending failure should be OOM")
	}
	th.AssertPending()
	th.AssertPendingOOM()

	th.ClearPending()
	if th.IsPending() {
		t.Fatal("expected no pending failure after clear")
	}
	th.AssertNoPending()
}

func TestThread_AssertPendingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AssertPending on clean thread should panic")
		}
	}()
	New("worker").AssertPending()
}

func TestThread_AssertPendingOOMRejectsOtherFailures(t *testing.T) {
	th := New("worker")
	th.SetPending(errors.Verification("LA;", "bad"))
	defer func() {
		if recover() == nil {
			t.Fatal("AssertPendingOOM should panic for non-OOM failure")
		}
	}()
	th.AssertPendingOOM()
}

func TestThread_UniqueIDs(t *testing.T) {
	a := New("a")
	b := New("b")
	if a.ID() == b.ID() {
		t.Fatal("threads should have distinct ids")
	}
}
