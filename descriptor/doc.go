// Package descriptor provides conversions between binary type descriptors
// and display names, plus package-equality comparison.
//
// A binary descriptor is the encoded type-name form used by the class
// container format: "I" for int, "[I" for int[], "Ljava/lang/String;" for
// a reference type. The display name is what Class.getName returns:
// keywords for primitives ("int"), the bracket form for primitive arrays
// ("[I"), and dotted names between "L" and ";" for reference-type arrays
// ("[Ljava.lang.String;").
//
// All functions are pure and safe for concurrent use.
package descriptor
