package mirror

import (
	"fmt"
	"io"

	"github.com/AquaPie/art/descriptor"
)

// DumpClass detail flags.
const (
	DumpClassFullDetail  = 1 << 0
	DumpClassClassLoader = 1 << 1
	DumpClassInitialized = 1 << 2
)

// DumpClass writes a human-readable description of the class to w. With
// no flags a single summary line is produced; DumpClassFullDetail emits
// the full member listing. Field layouts are only shown once the class is
// resolved, since offsets are meaningless before then.
func (c *Class) DumpClass(w io.Writer, flags int) {
	if flags&DumpClassFullDetail == 0 {
		fmt.Fprint(w, c.PrettyClass())
		if flags&DumpClassClassLoader != 0 {
			fmt.Fprintf(w, " %s", c.ClassLoader().Name())
		}
		if flags&DumpClassInitialized != 0 {
			fmt.Fprintf(w, " %s", c.Status())
		}
		fmt.Fprintln(w)
		return
	}

	kind := "class"
	if c.IsInterface() {
		kind = "interface"
	}
	super := c.Super()
	fmt.Fprintf(w, "----- %s '%s' cl=%s -----\n", kind, c.Descriptor(), c.ClassLoader().Name())
	superSize := -1
	if super != nil {
		superSize = int(super.ObjectSize())
	}
	fmt.Fprintf(w, "  objectSize=%d (%d from super)\n", c.ObjectSize(), superSize)
	raw := c.rawAccessFlags()
	fmt.Fprintf(w, "  access=0x%04x.%04x\n", raw>>16, raw&JavaFlagsMask)
	if super != nil {
		fmt.Fprintf(w, "  super='%s' (cl=%s)\n", super.PrettyClass(), super.ClassLoader().Name())
	}
	if c.IsArrayClass() {
		fmt.Fprintf(w, "  componentType=%s\n", PrettyClassOf(c.ComponentType()))
	}
	if n := c.NumDirectInterfaces(); n > 0 {
		fmt.Fprintf(w, "  interfaces (%d):\n", n)
		for i := 0; i < n; i++ {
			iface := c.DirectInterface(i)
			if iface == nil {
				fmt.Fprintf(w, "    %2d: nil!\n", i)
			} else {
				fmt.Fprintf(w, "    %2d: %s (cl=%s)\n", i, iface.PrettyClass(), iface.ClassLoader().Name())
			}
		}
	}
	if !c.IsLoaded() {
		fmt.Fprintln(w, "  class not yet loaded")
		return
	}
	superVirtuals := 0
	if super != nil {
		superVirtuals = super.NumVirtualMethods()
	}
	fmt.Fprintf(w, "  vtable (%d entries, %d in super):\n", c.NumVirtualMethods(), superVirtuals)
	for i := 0; i < c.NumVirtualMethods(); i++ {
		fmt.Fprintf(w, "    %2d: %s\n", i, c.VirtualMethod(i).PrettyMethod())
	}
	fmt.Fprintf(w, "  direct methods (%d entries):\n", c.NumDirectMethods())
	for i := 0; i < c.NumDirectMethods(); i++ {
		fmt.Fprintf(w, "    %2d: %s\n", i, c.DirectMethod(i).PrettyMethod())
	}
	if n := c.NumStaticFields(); n > 0 {
		fmt.Fprintf(w, "  static fields (%d entries):\n", n)
		if c.IsResolved() {
			for i := 0; i < n; i++ {
				fmt.Fprintf(w, "    %2d: %s\n", i, c.StaticField(i).PrettyField())
			}
		} else {
			fmt.Fprintln(w, "    <not yet available>")
		}
	}
	if n := c.NumInstanceFields(); n > 0 {
		fmt.Fprintf(w, "  instance fields (%d entries):\n", n)
		if c.IsResolved() {
			for i := 0; i < n; i++ {
				fmt.Fprintf(w, "    %2d: %s\n", i, c.InstanceField(i).PrettyField())
			}
		} else {
			fmt.Fprintln(w, "    <not yet available>")
		}
	}
}

// PrettyDescriptor returns the descriptor in source form, e.g.
// "java.lang.String[]".
func (c *Class) PrettyDescriptor() string {
	return descriptor.Pretty(c.Descriptor())
}

// PrettyClass renders the class the way a reflective Class object prints.
func (c *Class) PrettyClass() string {
	return "java.lang.Class<" + c.PrettyDescriptor() + ">"
}

// PrettyClassAndClassLoader additionally names the defining loader.
func (c *Class) PrettyClassAndClassLoader() string {
	return "java.lang.Class<" + c.PrettyDescriptor() + "," + c.classLoader.Name() + ">"
}
