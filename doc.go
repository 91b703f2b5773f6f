// Package art provides a Go implementation of a managed-runtime class
// object model and its member-resolution engine.
//
// Classes carry their shape (fields, methods, vtable, interface table),
// a lifecycle status that advances monotonically from loading through
// resolution to initialization, and the lookup machinery the runtime
// uses to resolve field and method references against them.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	art/                 Root package documentation
//	├── mirror/          Class, Field, Method and the resolution engine
//	├── linker/          Class definition, linking and initialization
//	├── dex/             Immutable class-container views
//	├── descriptor/      Type descriptor parsing and pretty-printing
//	├── heap/            Allocation and relocation interfaces
//	├── thread/          Thread identity for lock ownership
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Bootstrap a linker and define a class:
//
//	l := linker.NewWithDefaults(heap.NewSim())
//	if err := l.Bootstrap(); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Shutdown()
//
//	self := thread.New("main")
//	temp, err := l.DefineClass(self, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	klass, err := l.ResolveClass(self, temp)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := klass.FindVirtualMethod("run", "()V")
//	fmt.Println(m.PrettyMethod())
//
// # Class Lifecycle
//
// A class moves through statuses in one direction only:
//
//   - NotReady → Idx → Loaded → Resolving → Resolved
//   - Resolved → Verifying → Verified → Initializing → Initialized
//   - Any status may fall into an error status, which is terminal
//
// Classes under linking are temporary objects. Resolution produces the
// final class, publishes it, and retires the temporary one; threads
// waiting on the temporary class are rerouted to the final class.
//
// # Thread Safety
//
// Classes are safe for concurrent use. Status transitions across the
// resolution boundary require holding the class monitor, and waiters
// block on the monitor's condition until the class resolves, retires,
// or becomes erroneous.
package art
