package mirror

import (
	"sync/atomic"

	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/thread"
)

// classExtSize is the allocation charged for one extension block.
const classExtSize = 64

// ClassExt is the lazily attached side table for rarely needed class
// data: the failure that made the class erroneous, the generic signature,
// and the annotations overlay. Exactly one ClassExt is ever installed per
// class; see Class.EnsureExtData.
type ClassExt struct {
	verifyError      atomic.Pointer[errors.Error]
	genericSignature atomic.Pointer[string]
	annotations      atomic.Pointer[[]byte]
}

// VerifyError returns the recorded failure cause, or nil.
func (e *ClassExt) VerifyError() *errors.Error {
	return e.verifyError.Load()
}

// SetVerifyError records the failure that made the owning class erroneous.
func (e *ClassExt) SetVerifyError(err *errors.Error) {
	e.verifyError.Store(err)
}

// GenericSignature returns the generic signature string, or "".
func (e *ClassExt) GenericSignature() string {
	if s := e.genericSignature.Load(); s != nil {
		return *s
	}
	return ""
}

// SetGenericSignature records the generic signature.
func (e *ClassExt) SetGenericSignature(sig string) {
	e.genericSignature.Store(&sig)
}

// Annotations returns the raw annotations overlay, or nil.
func (e *ClassExt) Annotations() []byte {
	if a := e.annotations.Load(); a != nil {
		return *a
	}
	return nil
}

// SetAnnotations records the annotations overlay.
func (e *ClassExt) SetAnnotations(data []byte) {
	e.annotations.Store(&data)
}

// ExtData returns the class's extension block if one has been attached.
func (c *Class) ExtData() *ClassExt {
	return c.extData.Load()
}

// EnsureExtData returns the class's extension block, allocating and
// installing one first if needed. Installation is first-writer-wins: the
// block is compare-and-swapped against absent, and a losing allocation is
// discarded in favor of the winner. Any failure already pending on self is
// temporarily cleared so allocation can proceed and restored afterwards;
// if allocation itself fails, an out-of-memory condition replaces it and
// nil is returned.
func (c *Class) EnsureExtData(self *thread.Thread) *ClassExt {
	if existing := c.extData.Load(); existing != nil {
		return existing
	}

	// Clear the pending failure so we can allocate.
	saved := self.Pending()
	self.ClearPending()

	if err := currentHeap().AllocBytes(classExtSize); err != nil {
		self.SetPendingOOM(classExtSize)
		return nil
	}
	fresh := &ClassExt{}

	var ret *ClassExt
	if c.extData.CompareAndSwap(nil, fresh) {
		ret = fresh
	} else {
		// Another thread won the race; use its block.
		ret = c.extData.Load()
	}
	if ret == nil {
		fatalf("extension data absent after successful install on %s", c.PrettyClass())
	}

	// Restore the failure if there was one.
	if saved != nil {
		self.SetPending(saved)
	}
	return ret
}
