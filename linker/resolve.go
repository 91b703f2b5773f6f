package linker

import (
	"hash/fnv"

	"go.uber.org/zap"

	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

// ResolveClass links a temporary class and publishes its final form:
// superclass and interfaces are resolved, the virtual-method table and
// flattened interface table are computed, the final class object is
// produced with CopyOf, and the temporary class is retired. Concurrent
// resolvers of the same class serialize on its lock; losers pick up the
// winner's final class.
func (l *Linker) ResolveClass(self *thread.Thread, temp *mirror.Class) (*mirror.Class, *errors.Error) {
	if !temp.IsTemp() {
		// Already final: either resolved or being resolved elsewhere.
		return l.WaitForResolution(self, temp)
	}

	temp.Lock(self)
	if temp.IsRetired() || temp.IsErroneous() {
		temp.Unlock(self)
		return l.WaitForResolution(self, temp)
	}

	super, err := l.resolveSuper(self, temp)
	if err == nil && super != nil {
		if super.IsInterface() || super.IsFinal() {
			err = errors.New(errors.PhaseResolve, errors.KindIncompatible).
				Class(temp.Descriptor()).
				Detail("invalid superclass " + super.PrettyDescriptor()).
				Build()
		}
	}
	var ifaces []*mirror.Class
	if err == nil {
		ifaces, err = l.directInterfaces(self, temp)
	}
	if err != nil {
		l.markErroneous(self, temp, err)
		temp.Unlock(self)
		return nil, err
	}
	temp.SetSuper(super)

	vtable := buildVTable(temp, super)
	temp.SetVTable(vtable)
	temp.SetIfTable(linkInterfaceTable(temp, super, ifaces, vtable))

	newLength := mirror.ComputeClassSize(len(vtable))
	final := temp.CopyOf(self, newLength, buildImt(temp.IfTable()))
	if final == nil {
		err := self.Pending()
		l.markErroneous(self, temp, err)
		temp.Unlock(self)
		return nil, err
	}
	l.publish(final)
	if cache := final.DexCache(); cache != nil {
		cache.SetResolvedType(final.DexTypeIndex(), final)
	}

	// Retire the temporary class; its waiters re-route to the table.
	temp.SetStatus(self, mirror.StatusRetired)
	temp.Unlock(self)

	final.Lock(self)
	final.SetStatus(self, mirror.StatusResolved)
	final.Unlock(self)
	l.logTransition(final, "class resolved")
	return final, nil
}

// WaitForResolution blocks until klass resolves, fails, or retires. A
// retired temporary class routes the caller to the published final one.
func (l *Linker) WaitForResolution(self *thread.Thread, klass *mirror.Class) (*mirror.Class, *errors.Error) {
	klass.Lock(self)
	for !klass.IsResolved() && !klass.IsErroneous() && !klass.IsRetired() {
		klass.Wait(self)
	}
	status := klass.Status()
	klass.Unlock(self)

	switch {
	case status == mirror.StatusRetired:
		final := l.LookupClass(klass.ClassLoader(), klass.Descriptor())
		if final == nil || final == klass {
			return nil, errors.NotFound(errors.PhaseResolve, "final class", klass.Descriptor())
		}
		return l.WaitForResolution(self, final)
	case status.IsErroneous():
		err := resolutionError(klass)
		self.SetPending(err)
		return nil, err
	default:
		return klass, nil
	}
}

// resolutionError reconstructs the failure recorded on an erroneous
// class.
func resolutionError(klass *mirror.Class) *errors.Error {
	if ext := klass.ExtData(); ext != nil {
		if verr := ext.VerifyError(); verr != nil {
			return errors.Resolution(klass.Descriptor(), verr)
		}
	}
	return errors.Resolution(klass.Descriptor(), nil)
}

// markErroneous records err as the class's terminal failure.
func (l *Linker) markErroneous(self *thread.Thread, klass *mirror.Class, err *errors.Error) {
	self.SetPending(err)
	if klass.IsResolved() {
		klass.SetStatus(self, mirror.StatusErrorResolved)
	} else {
		klass.SetStatus(self, mirror.StatusErrorUnresolved)
	}
	Logger().Warn("class marked erroneous",
		zap.String("class", klass.PrettyDescriptor()),
		zap.Error(err))
}

// buildVTable computes the working virtual-method table: the super's
// table with overrides applied, new declared methods appended.
func buildVTable(c, super *mirror.Class) []*mirror.Method {
	vtable := make([]*mirror.Method, 0, c.NumVirtualMethods())
	if super != nil {
		vtable = append(vtable, super.VTableDuringLinking()...)
	}
	for i := 0; i < c.NumVirtualMethods(); i++ {
		m := c.VirtualMethod(i)
		overrode := false
		for j, inherited := range vtable {
			if inherited.HasSameNameAndSignature(m) {
				vtable[j] = m
				overrode = true
				break
			}
		}
		if !overrode {
			vtable = append(vtable, m)
		}
	}
	return vtable
}

// linkInterfaceTable flattens the interface graph in reverse topological
// order: the super's table first, then each direct interface preceded by
// its own superinterfaces. Walking the result backwards therefore visits
// the most derived interfaces first, which the interface-super resolver
// depends on. Each entry carries the class's implementations of that
// interface's declared methods, looked up in the working vtable.
func linkInterfaceTable(c, super *mirror.Class, directs []*mirror.Class, vtable []*mirror.Method) *mirror.IfTable {
	seen := make(map[*mirror.Class]bool)
	var ordered []*mirror.Class
	add := func(iface *mirror.Class) {
		if !seen[iface] {
			seen[iface] = true
			ordered = append(ordered, iface)
		}
	}
	if super != nil && super.IfTable() != nil {
		for i, n := 0, super.IfTable().Count(); i < n; i++ {
			add(super.IfTable().Interface(i))
		}
	}
	for _, iface := range directs {
		if it := iface.IfTable(); it != nil {
			for i, n := 0, it.Count(); i < n; i++ {
				add(it.Interface(i))
			}
		}
		add(iface)
	}

	table := mirror.NewIfTable(len(ordered))
	for i, iface := range ordered {
		table.SetInterface(i, iface)
		if c.IsInterface() {
			continue
		}
		impls := make([]*mirror.Method, iface.NumVirtualMethods())
		for j := 0; j < iface.NumVirtualMethods(); j++ {
			decl := iface.VirtualMethod(j)
			for _, impl := range vtable {
				if impl.HasSameNameAndSignature(decl) {
					impls[j] = impl
					break
				}
			}
		}
		table.SetMethods(i, impls)
	}
	return table
}

// buildImt distributes the flattened table's interface methods over the
// fixed-size dispatch table. Slot collisions keep the first assignment;
// dispatch falls back to the interface table for the rest.
func buildImt(ifTable *mirror.IfTable) *mirror.ImTable {
	imt := &mirror.ImTable{}
	for i, n := 0, ifTable.Count(); i < n; i++ {
		methods := ifTable.Methods(i)
		iface := ifTable.Interface(i)
		for j := 0; j < iface.NumVirtualMethods(); j++ {
			var impl *mirror.Method
			if j < len(methods) {
				impl = methods[j]
			}
			if impl == nil {
				continue
			}
			decl := iface.VirtualMethod(j)
			slot := imtSlot(decl)
			if imt.Get(slot) == nil {
				imt.Set(slot, impl)
			}
		}
	}
	return imt
}

func imtSlot(m *mirror.Method) int {
	h := fnv.New32a()
	h.Write([]byte(m.Name()))
	h.Write([]byte(m.Signature()))
	return int(h.Sum32() % mirror.ImTableSize)
}
