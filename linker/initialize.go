package linker

import (
	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

// VerifyClass takes a resolved class through verification. The model
// carries no bytecode, so verification here is the structural walk:
// superclass verified first, then the class's own transition, then the
// pre-verified marking of its methods.
func (l *Linker) VerifyClass(self *thread.Thread, klass *mirror.Class) *errors.Error {
	if klass.IsVerified() {
		return nil
	}
	if !klass.IsResolved() {
		return errors.InvalidInput(errors.PhaseVerify,
			"verification of unresolved class "+klass.PrettyDescriptor())
	}
	if super := klass.Super(); super != nil && !super.IsVerified() {
		if err := l.VerifyClass(self, super); err != nil {
			return err
		}
	}

	klass.Lock(self)
	defer klass.Unlock(self)
	if klass.IsVerified() {
		return nil
	}
	if klass.IsErroneous() {
		return resolutionError(klass)
	}
	klass.SetStatus(self, mirror.StatusVerifying)
	klass.SetStatus(self, mirror.StatusVerified)
	klass.SetSkipAccessChecksFlagOnAllMethods()
	l.logTransition(klass, "class verified")
	return nil
}

// InitializeClass runs static initialization: superclass first, then the
// class's own initializer under the standard protocol. A thread arriving
// while another initializes waits on the class monitor; everyone past
// the wait observes Initialized or an error state.
func (l *Linker) InitializeClass(self *thread.Thread, klass *mirror.Class) *errors.Error {
	if klass.IsInitialized() {
		return nil
	}
	if err := l.VerifyClass(self, klass); err != nil {
		return err
	}
	// Superinitialization happens outside the class's own lock.
	if super := klass.Super(); super != nil && !super.IsInitialized() {
		if err := l.InitializeClass(self, super); err != nil {
			return err
		}
	}

	klass.Lock(self)
	for klass.IsInitializing() && !klass.IsInitialized() && !klass.IsErroneous() {
		klass.Wait(self)
	}
	switch {
	case klass.IsInitialized():
		klass.Unlock(self)
		return nil
	case klass.IsErroneous():
		klass.Unlock(self)
		err := resolutionError(klass)
		self.SetPending(err)
		return err
	}
	klass.SetStatus(self, mirror.StatusInitializing)
	klass.Unlock(self)

	// The initializer body would run here, outside the lock. The model
	// has no interpreter; the initializer is recorded but not executed.
	_ = klass.FindClassInitializer()

	klass.Lock(self)
	klass.SetStatus(self, mirror.StatusInitialized)
	klass.Unlock(self)
	l.logTransition(klass, "class initialized")
	return nil
}
