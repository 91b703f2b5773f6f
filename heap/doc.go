// Package heap defines the collaborator surface the class runtime consumes
// from the garbage collector: byte-accounted allocation with out-of-memory
// reporting, the read barrier returning the current address of a possibly
// relocated reference, and root enumeration.
//
// The in-process implementation (Sim) does not move objects on its own;
// relocation can be driven explicitly, which is how the structural-copy
// fixup pass is exercised. Call sites that apply the barrier must remain
// even when the barrier is an identity map.
package heap
