package descriptor

import "strings"

// Type markers used by the binary descriptor grammar.
const (
	RefPrefix        = 'L'
	RefSuffix        = ';'
	ArrayPrefix      = '['
	PathSeparator    = '/'
	DisplaySeparator = '.'
)

// primitiveKeywords maps single-character primitive descriptors to their
// language keywords.
var primitiveKeywords = map[byte]string{
	'Z': "boolean",
	'B': "byte",
	'C': "char",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
	'V': "void",
}

// IsPrimitive reports whether descriptor names a primitive type.
func IsPrimitive(descriptor string) bool {
	if len(descriptor) != 1 {
		return false
	}
	_, ok := primitiveKeywords[descriptor[0]]
	return ok
}

// PrimitiveKeyword returns the language keyword for a primitive descriptor
// character, or "" if the character is not a primitive marker.
func PrimitiveKeyword(c byte) string {
	return primitiveKeywords[c]
}

// ToDot converts a binary descriptor to dotted form. A bare reference
// descriptor loses its L/; markers; array descriptors keep all markers.
// Path separators become dots in either case.
//
//	"Ljava/lang/String;"  -> "java.lang.String"
//	"[Ljava/lang/String;" -> "[Ljava.lang.String;"
//	"[I"                  -> "[I"
func ToDot(descriptor string) string {
	if len(descriptor) > 1 && descriptor[0] == RefPrefix && descriptor[len(descriptor)-1] == RefSuffix {
		descriptor = descriptor[1 : len(descriptor)-1]
	}
	return strings.ReplaceAll(descriptor, string(PathSeparator), string(DisplaySeparator))
}

// DisplayName computes the user-visible name for a descriptor. Primitive
// descriptors map to keywords, arrays keep the bracket-prefixed descriptor
// form with a dotted element type, and reference descriptors lose their
// markers and gain dots.
//
//	"I"                   -> "int"
//	"[I"                  -> "[I"
//	"Ljava/lang/String;"  -> "java.lang.String"
//	"[Ljava/lang/String;" -> "[Ljava.lang.String;"
func DisplayName(descriptor string) string {
	if descriptor == "" {
		return ""
	}
	if kw := primitiveKeywords[descriptor[0]]; kw != "" && len(descriptor) == 1 {
		return kw
	}
	return ToDot(descriptor)
}

// Pretty renders a descriptor in source form for diagnostics:
// "[[Ljava/lang/String;" becomes "java.lang.String[][]".
func Pretty(descriptor string) string {
	dims := 0
	for dims < len(descriptor) && descriptor[dims] == ArrayPrefix {
		dims++
	}
	elem := descriptor[dims:]

	var b strings.Builder
	if len(elem) == 1 {
		if kw := primitiveKeywords[elem[0]]; kw != "" {
			b.WriteString(kw)
		} else {
			b.WriteString(elem)
		}
	} else {
		b.WriteString(DisplayName(elem))
	}
	for i := 0; i < dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// ArrayOf returns the descriptor for an array whose component type has the
// given descriptor.
func ArrayOf(component string) string {
	return string(ArrayPrefix) + component
}

// ElementType strips one level of array nesting. It returns the input
// unchanged for non-array descriptors.
func ElementType(descriptor string) string {
	if len(descriptor) > 1 && descriptor[0] == ArrayPrefix {
		return descriptor[1:]
	}
	return descriptor
}

// InSamePackage reports whether two binary descriptors name types in the
// same package. The descriptors are compared by their longest common
// prefix: they are in the same package iff neither contains a path
// separator at or after the point where they diverge.
func InSamePackage(d1, d2 string) bool {
	minLen := len(d1)
	if len(d2) < minLen {
		minLen = len(d2)
	}
	i := 0
	for i < minLen && d1[i] == d2[i] {
		i++
	}
	if strings.IndexByte(d1[i:], PathSeparator) >= 0 ||
		strings.IndexByte(d2[i:], PathSeparator) >= 0 {
		return false
	}
	return true
}
