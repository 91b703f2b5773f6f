package mirror

import (
	"github.com/AquaPie/art/heap"
	"github.com/AquaPie/art/thread"
)

// PopulateEmbeddedVTable moves the linker's working virtual-method table
// into the class's embedded trailing storage. The working table of the
// root object class is kept around afterwards because array classes reuse
// it during their own linking; every other class drops it.
func (c *Class) PopulateEmbeddedVTable() {
	table := c.linkedVTable
	if table == nil {
		fatalf("populating embedded vtable of %s with no working table", c.PrettyClass())
	}
	c.embeddedVTable = make([]*Method, len(table))
	copy(c.embeddedVTable, table)
	if !c.IsObjectClass() {
		c.linkedVTable = nil
	}
}

// EmbeddedVTableLength returns the length of the embedded table.
func (c *Class) EmbeddedVTableLength() int { return len(c.embeddedVTable) }

// EmbeddedVTableEntry returns slot i of the embedded table.
func (c *Class) EmbeddedVTableEntry(i int) *Method { return c.embeddedVTable[i] }

// SetVTable installs the linker's working virtual-method table.
func (c *Class) SetVTable(table []*Method) { c.linkedVTable = table }

// VTableDuringLinking returns the working table, or the embedded one once
// it has been populated.
func (c *Class) VTableDuringLinking() []*Method {
	if c.linkedVTable != nil {
		return c.linkedVTable
	}
	return c.embeddedVTable
}

// CopyOf builds the final class object for a temporary linking class: a
// copy of the fixed header grown to newLength bytes of trailing storage,
// with the working vtable embedded and the given dispatch table
// installed. The copy is published at Resolving; the caller retires the
// original afterwards. On allocation failure an out-of-memory condition
// is left pending on self and nil is returned.
func (c *Class) CopyOf(self *thread.Thread, newLength uint32, imt *ImTable) *Class {
	if newLength < fixedHeaderSize {
		fatalf("copy of %s to %d bytes, smaller than the fixed header", c.PrettyClass(), newLength)
	}
	h := currentHeap()
	if err := h.AllocBytes(newLength); err != nil {
		self.SetPendingOOM(newLength)
		self.AssertPendingOOM()
		return nil
	}

	// Everything below runs before the copy is published anywhere, so no
	// lock ordering applies yet.
	n := &Class{}
	n.monitor.init()
	n.copyHeaderFrom(c)
	n.SetStatus(self, StatusResolving)
	n.PopulateEmbeddedVTable()
	n.SetImt(imt)
	n.SetClassSize(newLength)
	n.adjustReferences(h)
	return n
}

// copyHeaderFrom copies the fixed header of src, leaving the trailing
// embedded tables for PopulateEmbeddedVTable. The temporary-class marker
// does not carry over; the copy is the final class.
func (c *Class) copyHeaderFrom(src *Class) {
	c.status.Store(src.status.Load())
	c.accessFlags.Store(src.rawAccessFlags() &^ AccClassIsTemp)
	c.classSize.Store(src.ClassSize())
	c.objectSizeAllocFastPath.Store(src.objectSizeAllocFastPath.Load())
	c.referenceOffsets.Store(src.referenceOffsets.Load())
	c.extData.Store(src.extData.Load())
	c.name.Store(src.name.Load())

	c.super = src.super
	c.componentType = src.componentType
	c.classLoader = src.classLoader
	c.dexCache = src.dexCache
	c.proxyInterfaces = src.proxyInterfaces

	c.dexTypeIdx = src.dexTypeIdx
	c.dexClassDefIdx = src.dexClassDefIdx
	c.primitiveType = src.primitiveType
	c.descriptorStr = src.descriptorStr
	c.objectSize = src.objectSize

	c.ifields = src.ifields
	c.sfields = src.sfields
	c.directMethods = src.directMethods
	c.virtualMethods = src.virtualMethods
	c.copiedOffset = src.copiedOffset

	c.linkedVTable = src.linkedVTable
	c.ifTable = src.ifTable

	// The shared member tables must stop claiming the temporary class as
	// their declarer.
	for i := range c.ifields {
		c.ifields[i].declaringClass = c
	}
	for i := range c.sfields {
		c.sfields[i].declaringClass = c
	}
	for i := range c.directMethods {
		c.directMethods[i].declaringClass = c
	}
	for i := range c.virtualMethods {
		c.virtualMethods[i].declaringClass = c
	}
}

// adjustReferences runs every reference held by the copy through the heap
// barrier so no stale pre-relocation pointers survive in the new object.
func (c *Class) adjustReferences(h heap.Heap) {
	c.super = adjustClass(h, c.super)
	c.componentType = adjustClass(h, c.componentType)
	if c.classLoader != nil {
		c.classLoader = h.Adjust(c.classLoader).(*ClassLoader)
	}
	if c.dexCache != nil {
		c.dexCache = h.Adjust(c.dexCache).(*DexCache)
	}
	if ext := c.extData.Load(); ext != nil {
		c.extData.Store(h.Adjust(ext).(*ClassExt))
	}
	for i, iface := range c.proxyInterfaces {
		c.proxyInterfaces[i] = adjustClass(h, iface)
	}
	for i, m := range c.embeddedVTable {
		if m != nil {
			c.embeddedVTable[i] = h.Adjust(m).(*Method)
		}
	}
	if c.ifTable != nil {
		for i, n := 0, c.ifTable.Count(); i < n; i++ {
			c.ifTable.SetInterface(i, adjustClass(h, c.ifTable.Interface(i)))
		}
	}
}

func adjustClass(h heap.Heap, c *Class) *Class {
	if c == nil {
		return nil
	}
	return h.Adjust(c).(*Class)
}
