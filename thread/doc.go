// Package thread models the per-worker state the class runtime needs from
// its callers: the pending failure condition slot.
//
// Operations that can fail in a user-visible way (allocation, resolution)
// record their failure on the calling Thread rather than returning it,
// matching the host runtime's exception discipline. A Thread is not safe
// for concurrent use; each worker goroutine owns exactly one.
package thread
