// Package dex exposes the read-only surface of a binary class container
// that the class runtime consumes: type descriptor strings, class
// definitions, interface type lists, and source file names, all addressed
// by index.
//
// A File is immutable after construction and safe for concurrent use.
// Parsing the container format itself is out of scope; Files are built
// from already-decoded tables.
package dex
