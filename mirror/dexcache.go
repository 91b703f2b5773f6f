package mirror

import (
	"github.com/AquaPie/art/dex"
)

// DexCache caches resolution results for one binary container: symbolic
// type, field, and method indices map to their resolved runtime objects.
// Entries are written by the linker during resolution and treated as
// effectively immutable by readers. Generated classes (arrays, proxies,
// primitives) have no DexCache.
type DexCache struct {
	dexFile         *dex.File
	resolvedTypes   []*Class
	resolvedFields  []*Field
	resolvedMethods []*Method
}

// NewDexCache creates a cache sized to the container's constant tables.
func NewDexCache(file *dex.File, numFields, numMethods int) *DexCache {
	return &DexCache{
		dexFile:         file,
		resolvedTypes:   make([]*Class, file.NumTypes()),
		resolvedFields:  make([]*Field, numFields),
		resolvedMethods: make([]*Method, numMethods),
	}
}

// DexFile returns the backing container.
func (dc *DexCache) DexFile() *dex.File {
	return dc.dexFile
}

// Location returns the backing container's origin.
func (dc *DexCache) Location() string {
	return dc.dexFile.Location()
}

// ResolvedType returns the cached class for a type index, or nil.
func (dc *DexCache) ResolvedType(idx dex.TypeIndex) *Class {
	if int(idx) >= len(dc.resolvedTypes) {
		return nil
	}
	return dc.resolvedTypes[idx]
}

// SetResolvedType records a resolution result.
func (dc *DexCache) SetResolvedType(idx dex.TypeIndex, klass *Class) {
	dc.resolvedTypes[idx] = klass
}

// ResolvedField returns the cached field for a field index, or nil.
func (dc *DexCache) ResolvedField(idx uint32) *Field {
	if int(idx) >= len(dc.resolvedFields) {
		return nil
	}
	return dc.resolvedFields[idx]
}

// SetResolvedField records a resolution result.
func (dc *DexCache) SetResolvedField(idx uint32, f *Field) {
	dc.resolvedFields[idx] = f
}

// ResolvedMethod returns the cached method for a method index, or nil.
func (dc *DexCache) ResolvedMethod(idx uint32) *Method {
	if int(idx) >= len(dc.resolvedMethods) {
		return nil
	}
	return dc.resolvedMethods[idx]
}

// SetResolvedMethod records a resolution result.
func (dc *DexCache) SetResolvedMethod(idx uint32, m *Method) {
	dc.resolvedMethods[idx] = m
}
