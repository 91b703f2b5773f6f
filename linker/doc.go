// Package linker drives class definition, linking, and initialization
// over the mirror class model.
//
// # Main Types
//
//   - Linker: owns the loaded-class table and the bootstrap universe
//   - ClassSource: parsed member lists for one class definition
//
// # Thread Safety
//
// Linker is safe for concurrent use. Resolution of a single class is
// serialized on that class's intrinsic lock; concurrent callers wait via
// WaitForResolution.
//
// # Lifecycle
//
//  1. Bootstrap() builds the primordial universe (object root, class of
//     classes, array marker interfaces, primitives) single threaded.
//  2. DefineClass() produces a temporary class at Loaded.
//  3. ResolveClass() links tables, copies into the final class, retires
//     the temporary one, and publishes the final class at Resolved.
//  4. InitializeClass() walks verification and static initialization.
//
// # Example
//
//	l := linker.NewWithDefaults(heap.Unlimited())
//	l.Bootstrap()
//	defer l.Shutdown()
//	temp, _ := l.DefineClass(self, src)
//	klass, _ := l.ResolveClass(self, temp)
package linker
