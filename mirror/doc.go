// Package mirror implements the runtime-visible class metadata object
// model: the Class object itself, its lifecycle status machine, and the
// member-resolution engine queried by interpreter, compiler, and
// reflection callers.
//
// # Main Types
//
//   - Class: metadata for one loaded class, interface, array, or primitive
//   - DexCache: per-container cache of resolved constants
//   - ClassExt: lazily attached extension block for rare data
//   - Field, Method: declared members owned by a Class
//   - IfTable: flattened interface table in reverse topological order
//
// # Thread Safety
//
// Lookups are read-only and lock-free; they may run concurrently with each
// other on any number of classes. Mutation is the loader/linker's job and
// is serialized by each class's monitor: status transitions at or above
// Resolved require the calling thread to hold the class's lock. Status is
// published with sequentially consistent atomics, and the fast-path
// allocation size is published strictly after Initialized status so a
// reader observing a valid size transitively observes initialization.
//
// # Lifecycle
//
//	NotReady → Idx → Loaded → Resolving → Resolved → Verifying …
//	… → Verified → Initializing → Initialized
//
// Status never regresses except into the terminal Retired,
// ErrorUnresolved, and ErrorResolved states. Violations are programming
// errors and abort.
package mirror
