package dex

import "fmt"

// TypeIndex addresses a type descriptor within a File.
type TypeIndex uint16

// NoIndex is the sentinel for "no type index".
const NoIndex = TypeIndex(0xFFFF)

// NoClassDef is the sentinel for classes without a definition in any
// container (arrays, proxies).
const NoClassDef = uint16(0xFFFF)

// ClassDef describes one class definition within a container.
type ClassDef struct {
	ClassIdx    TypeIndex   // type index of the defined class
	SuperIdx    TypeIndex   // type index of the superclass, NoIndex for the root
	AccessFlags uint32
	SourceFile  string      // "" when the container omits it
	Interfaces  []TypeIndex // direct interfaces, declaration order
}

// File is the decoded, immutable view of one binary class container.
type File struct {
	location     string
	types        []string
	defs         []ClassDef
	byDescriptor map[string]TypeIndex
}

// NewFile builds a File from decoded tables. The descriptor strings in
// types are indexed by TypeIndex; defs reference them.
func NewFile(location string, types []string, defs []ClassDef) *File {
	byDesc := make(map[string]TypeIndex, len(types))
	for i, d := range types {
		byDesc[d] = TypeIndex(i)
	}
	return &File{
		location:     location,
		types:        types,
		defs:         defs,
		byDescriptor: byDesc,
	}
}

// Location returns the container's origin path or URL.
func (f *File) Location() string {
	return f.location
}

// NumTypes returns the number of type descriptors.
func (f *File) NumTypes() int {
	return len(f.types)
}

// TypeDescriptor returns the descriptor string for a type index.
func (f *File) TypeDescriptor(idx TypeIndex) string {
	if int(idx) >= len(f.types) {
		panic(fmt.Sprintf("dex: type index %d out of range (%d types in %s)",
			idx, len(f.types), f.location))
	}
	return f.types[idx]
}

// FindTypeIndex returns the type index for a descriptor, or NoIndex if the
// container does not mention the type.
func (f *File) FindTypeIndex(descriptor string) TypeIndex {
	if idx, ok := f.byDescriptor[descriptor]; ok {
		return idx
	}
	return NoIndex
}

// NumClassDefs returns the number of class definitions.
func (f *File) NumClassDefs() int {
	return len(f.defs)
}

// ClassDef returns the definition at the given index.
func (f *File) ClassDef(i uint16) *ClassDef {
	return &f.defs[i]
}

// FindClassDef returns the definition index for a class type index, or
// NoClassDef when the type is only referenced, never defined, here.
func (f *File) FindClassDef(classIdx TypeIndex) uint16 {
	for i := range f.defs {
		if f.defs[i].ClassIdx == classIdx {
			return uint16(i)
		}
	}
	return NoClassDef
}
