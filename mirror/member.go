package mirror

import (
	"sort"
	"strings"

	"github.com/AquaPie/art/descriptor"
)

// Field is one declared field of a class. Fields are immutable once their
// class reaches Resolved.
type Field struct {
	declaringClass *Class
	name           string
	typeDescriptor string
	accessFlags    uint32
	dexFieldIndex  uint32
	offset         uint32
}

// NewField constructs a declared field. The linker owns construction;
// callers elsewhere only read.
func NewField(name, typeDescriptor string, accessFlags, dexFieldIndex uint32) Field {
	return Field{
		name:           name,
		typeDescriptor: typeDescriptor,
		accessFlags:    accessFlags,
		dexFieldIndex:  dexFieldIndex,
	}
}

func (f *Field) Name() string           { return f.name }
func (f *Field) TypeDescriptor() string { return f.typeDescriptor }
func (f *Field) DeclaringClass() *Class { return f.declaringClass }
func (f *Field) DexFieldIndex() uint32  { return f.dexFieldIndex }
func (f *Field) Offset() uint32         { return f.offset }

// AccessFlags returns the user-visible flag bits.
func (f *Field) AccessFlags() uint32 { return f.accessFlags & JavaFlagsMask }

func (f *Field) IsStatic() bool { return f.accessFlags&AccStatic != 0 }
func (f *Field) IsFinal() bool  { return f.accessFlags&AccFinal != 0 }

// IsReference reports whether the field holds an object reference.
func (f *Field) IsReference() bool {
	c := f.typeDescriptor[0]
	return c == descriptor.RefPrefix || c == descriptor.ArrayPrefix
}

// SetOffset is called by the linker once the instance layout is known.
func (f *Field) SetOffset(offset uint32) { f.offset = offset }

// PrettyField renders the field for diagnostics: "int com.example.Widget.count".
func (f *Field) PrettyField() string {
	var b strings.Builder
	b.WriteString(descriptor.Pretty(f.typeDescriptor))
	b.WriteByte(' ')
	if f.declaringClass != nil {
		b.WriteString(f.declaringClass.PrettyDescriptor())
		b.WriteByte('.')
	}
	b.WriteString(f.name)
	return b.String()
}

// Method is one method of a class: declared here, or copied in from an
// interface during linking (default, miranda, and conflict methods carry
// the corresponding runtime flag bits).
type Method struct {
	declaringClass *Class
	name           string
	signature      string // e.g. "(ILjava/lang/String;)V"
	accessFlags    uint32
	dexMethodIndex uint32
}

// NewMethod constructs a method. The linker owns construction.
func NewMethod(name, signature string, accessFlags, dexMethodIndex uint32) Method {
	return Method{
		name:           name,
		signature:      signature,
		accessFlags:    accessFlags,
		dexMethodIndex: dexMethodIndex,
	}
}

func (m *Method) Name() string           { return m.name }
func (m *Method) Signature() string      { return m.signature }
func (m *Method) DeclaringClass() *Class { return m.declaringClass }
func (m *Method) DexMethodIndex() uint32 { return m.dexMethodIndex }

// AccessFlags returns the user-visible flag bits.
func (m *Method) AccessFlags() uint32 { return m.accessFlags & JavaFlagsMask }

func (m *Method) IsStatic() bool          { return m.accessFlags&AccStatic != 0 }
func (m *Method) IsAbstract() bool        { return m.accessFlags&AccAbstract != 0 }
func (m *Method) IsNative() bool          { return m.accessFlags&AccNative != 0 }
func (m *Method) IsSynthetic() bool       { return m.accessFlags&AccSynthetic != 0 }
func (m *Method) IsMiranda() bool         { return m.accessFlags&AccMiranda != 0 }
func (m *Method) IsDefault() bool         { return m.accessFlags&AccDefault != 0 }
func (m *Method) IsDefaultConflict() bool { return m.accessFlags&AccDefaultConflict != 0 }
func (m *Method) IsCopied() bool          { return m.accessFlags&AccCopied != 0 }
func (m *Method) IsConstructor() bool     { return m.accessFlags&AccConstructor != 0 }

// IsClassInitializer reports whether m is the static initializer.
func (m *Method) IsClassInitializer() bool {
	return m.IsConstructor() && m.IsStatic()
}

// IsInvokable reports whether the method has an executable body.
func (m *Method) IsInvokable() bool {
	return !m.IsAbstract() && !m.IsDefaultConflict()
}

// HasSameNameAndSignature reports whether two methods match by name and
// full signature.
func (m *Method) HasSameNameAndSignature(other *Method) bool {
	return m.name == other.name && m.signature == other.signature
}

// SetSkipAccessChecks marks the method as pre-verified.
func (m *Method) SetSkipAccessChecks() {
	m.accessFlags |= AccSkipAccessChecks
}

// SkipsAccessChecks reports whether the method was marked pre-verified.
func (m *Method) SkipsAccessChecks() bool {
	return m.accessFlags&AccSkipAccessChecks != 0
}

// PrettyMethod renders the method for diagnostics:
// "com.example.Widget.resize(II)V".
func (m *Method) PrettyMethod() string {
	var b strings.Builder
	if m.declaringClass != nil {
		b.WriteString(m.declaringClass.PrettyDescriptor())
		b.WriteByte('.')
	}
	b.WriteString(m.name)
	b.WriteString(m.signature)
	return b.String()
}

// SortFields orders declared fields by name then type descriptor, the
// order the binary search in field lookup depends on.
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].name != fields[j].name {
			return fields[i].name < fields[j].name
		}
		return fields[i].typeDescriptor < fields[j].typeDescriptor
	})
}

// fieldsAreSorted verifies the sorted-order invariant.
func fieldsAreSorted(fields []Field) bool {
	for i := 1; i < len(fields); i++ {
		prev, cur := &fields[i-1], &fields[i]
		if prev.name > cur.name ||
			(prev.name == cur.name && prev.typeDescriptor > cur.typeDescriptor) {
			return false
		}
	}
	return true
}
