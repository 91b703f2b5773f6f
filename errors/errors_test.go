package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := New(PhaseVerify, KindVerification).
		Class("Lcom/example/Widget;").
		Detail("register v3 type mismatch").
		Build()

	msg := err.Error()
	if !strings.Contains(msg, "[verify]") {
		t.Errorf("missing phase: %s", msg)
	}
	if !strings.Contains(msg, "verification") {
		t.Errorf("missing kind: %s", msg)
	}
	if !strings.Contains(msg, "Lcom/example/Widget;") {
		t.Errorf("missing class: %s", msg)
	}
}

func TestError_MemberFormat(t *testing.T) {
	err := NoSuchField("Lcom/example/Widget;", "count")
	msg := err.Error()
	if !strings.Contains(msg, "Lcom/example/Widget;.count") {
		t.Errorf("expected class.member in message, got %s", msg)
	}
}

func TestError_Is(t *testing.T) {
	a := OutOfMemory(PhaseAlloc, 128)
	b := OutOfMemory(PhaseAlloc, 4096)
	if !stderrors.Is(a, b) {
		t.Error("errors with same phase and kind should match")
	}

	c := Verification("LA;", "bad")
	if stderrors.Is(a, c) {
		t.Error("errors with different phase/kind should not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Resolution("LA;", cause)
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "underlying") {
		t.Errorf("cause missing from message: %s", err.Error())
	}
}

func TestError_IsOutOfMemory(t *testing.T) {
	if !OutOfMemory(PhaseLink, 64).IsOutOfMemory() {
		t.Error("allocation errors should report out-of-memory")
	}
	if Verification("LA;", "bad").IsOutOfMemory() {
		t.Error("verification errors should not report out-of-memory")
	}
}
