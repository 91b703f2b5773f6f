package linker

import (
	"github.com/AquaPie/art/dex"
	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

// ClassSource carries one class definition: the container entry plus the
// member lists the loader parsed out of it. Field slices need not be
// pre-sorted; definition sorts them.
type ClassSource struct {
	Cache  *mirror.DexCache
	DefIdx uint16
	Loader *mirror.ClassLoader

	InstanceFields []mirror.Field
	StaticFields   []mirror.Field
	DirectMethods  []mirror.Method
	VirtualMethods []mirror.Method
}

// DefineClass builds the temporary class for a definition and takes it
// to Loaded. The temporary class carries no embedded tables; the final,
// fully sized object is produced at resolution. On allocation failure an
// out-of-memory error is returned and left pending on self.
func (l *Linker) DefineClass(self *thread.Thread, src ClassSource) (*mirror.Class, *errors.Error) {
	if src.Cache == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "class source has no container cache")
	}
	def := src.Cache.DexFile().ClassDef(src.DefIdx)
	if def == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "class source names no container definition")
	}
	descriptor := src.Cache.DexFile().TypeDescriptor(def.ClassIdx)
	if existing := l.LookupClass(src.Loader, descriptor); existing != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Class(descriptor).
			Detail("class already defined").
			Build()
	}

	c := mirror.AllocClass(self, mirror.ComputeClassSize(0))
	if c == nil {
		return nil, self.Pending()
	}
	c.SetClassLoader(src.Loader)
	c.SetDexCache(src.Cache)
	c.SetDexTypeIndex(def.ClassIdx)
	c.SetDexClassDefIndex(src.DefIdx)
	c.SetAccessFlags(def.AccessFlags | mirror.AccClassIsTemp)
	c.SetStatus(self, mirror.StatusIdx)
	src.Cache.SetResolvedType(def.ClassIdx, c)

	mirror.SortFields(src.InstanceFields)
	mirror.SortFields(src.StaticFields)
	c.SetInstanceFields(src.InstanceFields)
	c.SetStaticFields(src.StaticFields)
	c.SetDirectMethods(src.DirectMethods)
	c.SetVirtualMethods(src.VirtualMethods, len(src.VirtualMethods))

	c.SetStatus(self, mirror.StatusLoaded)
	l.logTransition(c, "class defined")
	return c, nil
}

// resolveSuper returns the superclass for a temporary class, resolving
// it through the container if needed. The root object class has none.
func (l *Linker) resolveSuper(self *thread.Thread, c *mirror.Class) (*mirror.Class, *errors.Error) {
	cache := c.DexCache()
	def := cache.DexFile().ClassDef(c.DexClassDefIndex())
	if def.SuperIdx == dex.NoIndex {
		return l.object, nil
	}
	if super := cache.ResolvedType(def.SuperIdx); super != nil {
		return l.resolvedForm(self, super)
	}
	desc := cache.DexFile().TypeDescriptor(def.SuperIdx)
	super := l.LookupClass(c.ClassLoader(), desc)
	if super == nil {
		return nil, errors.NotFound(errors.PhaseResolve, "superclass", desc)
	}
	cache.SetResolvedType(def.SuperIdx, super)
	return l.resolvedForm(self, super)
}

// resolvedForm maps a possibly temporary or still-resolving class to its
// published final form, waiting if another thread owns the resolution.
func (l *Linker) resolvedForm(self *thread.Thread, c *mirror.Class) (*mirror.Class, *errors.Error) {
	if c.IsResolved() && !c.IsErroneous() {
		return c, nil
	}
	if c.IsTemp() || !c.IsResolved() {
		if final := l.LookupClass(c.ClassLoader(), c.Descriptor()); final != nil && final != c {
			c = final
		}
	}
	if c.IsResolved() && !c.IsErroneous() {
		return c, nil
	}
	return l.WaitForResolution(self, c)
}

// directInterfaces resolves every direct interface of a temporary class.
func (l *Linker) directInterfaces(self *thread.Thread, c *mirror.Class) ([]*mirror.Class, *errors.Error) {
	n := c.NumDirectInterfaces()
	if n == 0 {
		return nil, nil
	}
	cache := c.DexCache()
	out := make([]*mirror.Class, 0, n)
	for i := 0; i < n; i++ {
		typeIdx := c.DirectInterfaceTypeIdx(i)
		iface := cache.ResolvedType(typeIdx)
		if iface == nil {
			desc := cache.DexFile().TypeDescriptor(typeIdx)
			iface = l.LookupClass(c.ClassLoader(), desc)
			if iface == nil {
				return nil, errors.NotFound(errors.PhaseResolve, "interface", desc)
			}
			cache.SetResolvedType(typeIdx, iface)
		}
		iface, err := l.resolvedForm(self, iface)
		if err != nil {
			return nil, err
		}
		if !iface.IsInterface() {
			return nil, errors.New(errors.PhaseResolve, errors.KindIncompatible).
				Class(c.Descriptor()).
				Detail("direct interface " + iface.PrettyDescriptor() + " is not an interface").
				Build()
		}
		out = append(out, iface)
	}
	return out, nil
}
