package linker

import (
	"github.com/AquaPie/art/descriptor"
	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

// AllocArrayClass synthesizes the array class over a component type.
// Array classes are generated: object superclass, the root's vtable, the
// two marker interfaces in the flattened table, and a lifecycle that
// goes straight to Initialized. Repeated requests return the published
// class.
func (l *Linker) AllocArrayClass(self *thread.Thread, component *mirror.Class) (*mirror.Class, *errors.Error) {
	if component == nil {
		return nil, errors.NilPointer(errors.PhaseLoad, "array component == null")
	}
	desc := descriptor.ArrayOf(component.Descriptor())
	if existing := l.LookupClass(component.ClassLoader(), desc); existing != nil {
		return existing, nil
	}

	rootTable := l.object.VTableDuringLinking()
	c := mirror.AllocClass(self, mirror.ComputeClassSize(len(rootTable)))
	if c == nil {
		return nil, self.Pending()
	}
	c.SetSuper(l.object)
	c.SetComponentType(component)
	c.SetClassLoader(component.ClassLoader())

	// Arrays are final and never instantiable through a constructor; the
	// component's visibility carries over.
	flags := mirror.AccFinal | mirror.AccAbstract
	if component.IsPublic() {
		flags |= mirror.AccPublic
	}
	c.SetAccessFlags(flags)

	table := mirror.NewIfTable(2)
	table.SetInterface(0, l.cloneable)
	table.SetInterface(1, l.serializable)
	c.SetIfTable(table)

	c.SetVTable(rootTable)
	c.SetStatus(self, mirror.StatusIdx)
	c.SetStatus(self, mirror.StatusLoaded)
	c.SetStatus(self, mirror.StatusResolving)
	c.PopulateEmbeddedVTable()

	c.Lock(self)
	c.SetStatus(self, mirror.StatusResolved)
	c.SetStatus(self, mirror.StatusVerifying)
	c.SetStatus(self, mirror.StatusVerified)
	c.SetStatus(self, mirror.StatusInitializing)
	c.SetStatus(self, mirror.StatusInitialized)
	c.Unlock(self)

	if winner := l.publishIfAbsent(c); winner != c {
		return winner, nil
	}
	l.logTransition(c, "array class synthesized")
	return c, nil
}
