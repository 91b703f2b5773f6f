package mirror

import "strings"

// findFieldByNameAndType binary searches a sorted declared-field array.
// Fields are sorted by name, then type descriptor; the container verifier
// guarantees the order. The same name and type can appear more than once
// in obfuscated containers, in which case an arbitrary duplicate wins.
func findFieldByNameAndType(fields []Field, name, typ string) *Field {
	if len(fields) == 0 {
		return nil
	}
	low, high := 0, len(fields)
	var ret *Field
	for low < high {
		mid := (low + high) / 2
		field := &fields[mid]
		result := strings.Compare(field.name, name)
		if result == 0 {
			result = strings.Compare(field.typeDescriptor, typ)
		}
		if result < 0 {
			low = mid + 1
		} else if result > 0 {
			high = mid
		} else {
			ret = field
			break
		}
	}
	if debugChecks {
		var found *Field
		for i := range fields {
			if fields[i].name == name && fields[i].typeDescriptor == typ {
				found = &fields[i]
				break
			}
		}
		if (found == nil) != (ret == nil) {
			fatalf("binary search disagrees with linear scan for %s:%s (sorted-order invariant broken)",
				name, typ)
		}
	}
	return ret
}

// FindDeclaredInstanceField looks up a field declared on this class by
// name and type descriptor. Interfaces never declare instance state, so
// they are not consulted anywhere in instance-field resolution.
func (c *Class) FindDeclaredInstanceField(name, typ string) *Field {
	return findFieldByNameAndType(c.ifields, name, typ)
}

// FindDeclaredInstanceFieldByIndex looks up a declared instance field by
// its index in the given container.
func (c *Class) FindDeclaredInstanceFieldByIndex(dexCache *DexCache, fieldIdx uint32) *Field {
	if c.dexCache != dexCache {
		return nil
	}
	for i := range c.ifields {
		if c.ifields[i].dexFieldIndex == fieldIdx {
			return &c.ifields[i]
		}
	}
	return nil
}

// FindInstanceField resolves an instance field against this class and its
// superclasses.
func (c *Class) FindInstanceField(name, typ string) *Field {
	for k := c; k != nil; k = k.super {
		if f := k.FindDeclaredInstanceField(name, typ); f != nil {
			return f
		}
	}
	return nil
}

// FindInstanceFieldByIndex resolves an instance field by container index
// against this class and its superclasses.
func (c *Class) FindInstanceFieldByIndex(dexCache *DexCache, fieldIdx uint32) *Field {
	for k := c; k != nil; k = k.super {
		if f := k.FindDeclaredInstanceFieldByIndex(dexCache, fieldIdx); f != nil {
			return f
		}
	}
	return nil
}

// FindDeclaredStaticField looks up a static field declared on this class.
func (c *Class) FindDeclaredStaticField(name, typ string) *Field {
	return findFieldByNameAndType(c.sfields, name, typ)
}

// FindDeclaredStaticFieldByIndex looks up a declared static field by its
// index in the given container.
func (c *Class) FindDeclaredStaticFieldByIndex(dexCache *DexCache, fieldIdx uint32) *Field {
	if c.dexCache != dexCache {
		return nil
	}
	for i := range c.sfields {
		if c.sfields[i].dexFieldIndex == fieldIdx {
			return &c.sfields[i]
		}
	}
	return nil
}

// FindStaticField resolves a static field: for each class in klass's
// superclass chain, the declared statics are checked first, then each
// direct interface recursively. First match wins; ambiguity was ruled out
// by container verification.
func FindStaticField(klass *Class, name, typ string) *Field {
	for k := klass; k != nil; k = k.super {
		if f := k.FindDeclaredStaticField(name, typ); f != nil {
			return f
		}
		for i, n := 0, k.NumDirectInterfaces(); i < n; i++ {
			iface := k.DirectInterface(i)
			if iface == nil {
				continue
			}
			if f := FindStaticField(iface, name, typ); f != nil {
				return f
			}
		}
	}
	return nil
}

// FindStaticFieldByIndex is FindStaticField keyed by container index.
func FindStaticFieldByIndex(klass *Class, dexCache *DexCache, fieldIdx uint32) *Field {
	for k := klass; k != nil; k = k.super {
		if f := k.FindDeclaredStaticFieldByIndex(dexCache, fieldIdx); f != nil {
			return f
		}
		for i, n := 0, k.NumDirectInterfaces(); i < n; i++ {
			iface := k.DirectInterface(i)
			if iface == nil {
				continue
			}
			if f := FindStaticFieldByIndex(iface, dexCache, fieldIdx); f != nil {
				return f
			}
		}
	}
	return nil
}

// FindField resolves an unqualified field reference in language
// resolution order: declared instance fields, declared statics, then the
// direct interfaces' statics, for each class in the superclass chain.
func FindField(klass *Class, name, typ string) *Field {
	for k := klass; k != nil; k = k.super {
		if f := k.FindDeclaredInstanceField(name, typ); f != nil {
			return f
		}
		if f := k.FindDeclaredStaticField(name, typ); f != nil {
			return f
		}
		for i, n := 0, k.NumDirectInterfaces(); i < n; i++ {
			iface := k.DirectInterface(i)
			if iface == nil {
				continue
			}
			if f := FindStaticField(iface, name, typ); f != nil {
				return f
			}
		}
	}
	return nil
}

// FindDeclaredDirectMethod looks up a constructor, static, or private
// method declared on this class.
func (c *Class) FindDeclaredDirectMethod(name, signature string) *Method {
	for i := range c.directMethods {
		m := &c.directMethods[i]
		if m.name == name && m.signature == signature {
			return m
		}
	}
	return nil
}

// FindDeclaredDirectMethodByIndex looks up a declared direct method by
// container index.
func (c *Class) FindDeclaredDirectMethodByIndex(dexCache *DexCache, methodIdx uint32) *Method {
	if c.dexCache != dexCache {
		return nil
	}
	for i := range c.directMethods {
		if c.directMethods[i].dexMethodIndex == methodIdx {
			return &c.directMethods[i]
		}
	}
	return nil
}

// FindDeclaredDirectMethodByName returns the first declared direct method
// with the given name, any signature.
func (c *Class) FindDeclaredDirectMethodByName(name string) *Method {
	for i := range c.directMethods {
		if c.directMethods[i].name == name {
			return &c.directMethods[i]
		}
	}
	return nil
}

// FindDirectMethod resolves a direct method against this class and its
// superclasses.
func (c *Class) FindDirectMethod(name, signature string) *Method {
	for k := c; k != nil; k = k.super {
		if m := k.FindDeclaredDirectMethod(name, signature); m != nil {
			return m
		}
	}
	return nil
}

// FindDirectMethodByIndex resolves a direct method by container index
// against this class and its superclasses.
func (c *Class) FindDirectMethodByIndex(dexCache *DexCache, methodIdx uint32) *Method {
	for k := c; k != nil; k = k.super {
		if m := k.FindDeclaredDirectMethodByIndex(dexCache, methodIdx); m != nil {
			return m
		}
	}
	return nil
}

// FindDeclaredVirtualMethod looks up a virtual method owned by this
// class. Copied methods are included on purpose: conflict and miranda
// markers synthesized during linking must be found here.
func (c *Class) FindDeclaredVirtualMethod(name, signature string) *Method {
	for i := range c.virtualMethods {
		m := &c.virtualMethods[i]
		if m.name == name && m.signature == signature {
			return m
		}
	}
	return nil
}

// FindDeclaredVirtualMethodByIndex looks up a declared (non-copied)
// virtual method by container index.
func (c *Class) FindDeclaredVirtualMethodByIndex(dexCache *DexCache, methodIdx uint32) *Method {
	if c.dexCache != dexCache {
		return nil
	}
	declared := c.declaredVirtualMethods()
	for i := range declared {
		if declared[i].dexMethodIndex == methodIdx {
			return &declared[i]
		}
	}
	return nil
}

// FindDeclaredVirtualMethodByName returns the first virtual method with
// the given name, any signature.
func (c *Class) FindDeclaredVirtualMethodByName(name string) *Method {
	for i := range c.virtualMethods {
		if c.virtualMethods[i].name == name {
			return &c.virtualMethods[i]
		}
	}
	return nil
}

// FindVirtualMethod resolves a virtual method against this class and its
// superclasses.
func (c *Class) FindVirtualMethod(name, signature string) *Method {
	for k := c; k != nil; k = k.super {
		if m := k.FindDeclaredVirtualMethod(name, signature); m != nil {
			return m
		}
	}
	return nil
}

// FindVirtualMethodByIndex resolves a virtual method by container index
// against this class and its superclasses.
func (c *Class) FindVirtualMethodByIndex(dexCache *DexCache, methodIdx uint32) *Method {
	for k := c; k != nil; k = k.super {
		if m := k.FindDeclaredVirtualMethodByIndex(dexCache, methodIdx); m != nil {
			return m
		}
	}
	return nil
}

// FindInterfaceMethod resolves an interface method: the current class
// first, then every interface in the flattened table.
func (c *Class) FindInterfaceMethod(name, signature string) *Method {
	if m := c.FindDeclaredVirtualMethod(name, signature); m != nil {
		return m
	}
	for i, n := 0, c.ifTable.Count(); i < n; i++ {
		if m := c.ifTable.Interface(i).FindDeclaredVirtualMethod(name, signature); m != nil {
			return m
		}
	}
	return nil
}

// FindInterfaceMethodByIndex is FindInterfaceMethod keyed by container
// index.
func (c *Class) FindInterfaceMethodByIndex(dexCache *DexCache, methodIdx uint32) *Method {
	if m := c.FindDeclaredVirtualMethodByIndex(dexCache, methodIdx); m != nil {
		return m
	}
	for i, n := 0, c.ifTable.Count(); i < n; i++ {
		if m := c.ifTable.Interface(i).FindDeclaredVirtualMethodByIndex(dexCache, methodIdx); m != nil {
			return m
		}
	}
	return nil
}

// FindVirtualMethodForInterfaceSuper resolves an invoke-super of an
// interface method on interface c. The class's own virtual methods are
// checked first; conflict markers were copied there during linking. The
// flattened interface table is then walked in reverse, most derived
// interfaces first. A concrete default method is taken unless an abstract
// redeclaration collected earlier dominates it, meaning a more specific
// lineage abstracted the method away; an undominated default wins
// immediately. If only abstract declarations were found, the first one
// collected is returned, an arbitrary but deterministic choice the
// language tolerates.
func (c *Class) FindVirtualMethodForInterfaceSuper(method *Method) *Method {
	if debugChecks {
		if !c.IsInterface() {
			fatalf("interface-super resolution on non-interface %s", c.PrettyClass())
		}
		if method.declaringClass != nil && !method.declaringClass.IsInterface() {
			fatalf("interface-super resolution of non-interface method %s", method.PrettyMethod())
		}
	}
	for i := range c.virtualMethods {
		ifaceMethod := &c.virtualMethods[i]
		if method.HasSameNameAndSignature(ifaceMethod) {
			return ifaceMethod
		}
	}

	var abstractMethods []*Method
	for k := c.ifTable.Count(); k != 0; {
		k--
		iface := c.ifTable.Interface(k)
		declared := iface.declaredVirtualMethods()
		for i := range declared {
			current := &declared[i]
			if !current.HasSameNameAndSignature(method) {
				continue
			}
			if current.IsDefault() {
				// A default from one superinterface lineage can be
				// overridden by an abstract redeclaration from another.
				// Skip the default if any collected abstract method's
				// declarer is a superinterface of this one.
				overridden := false
				for _, possible := range abstractMethods {
					if iface.IsAssignableFrom(possible.declaringClass) {
						overridden = true
						break
					}
				}
				if !overridden {
					return current
				}
			} else {
				// Might override a default elsewhere; stash and keep going.
				abstractMethods = append(abstractMethods, current)
			}
		}
	}
	if len(abstractMethods) == 0 {
		return nil
	}
	return abstractMethods[0]
}

// FindClassInitializer returns the static initializer, or nil.
func (c *Class) FindClassInitializer() *Method {
	for i := range c.directMethods {
		m := &c.directMethods[i]
		if m.IsClassInitializer() {
			return m
		}
	}
	return nil
}

// SetSkipAccessChecksFlagOnAllMethods marks every invokable non-native
// method as pre-verified. Callable only once the class is verified.
func (c *Class) SetSkipAccessChecksFlagOnAllMethods() {
	if debugChecks && !c.IsVerified() {
		fatalf("skip-access-checks on unverified class %s", c.PrettyClass())
	}
	for i := range c.directMethods {
		if m := &c.directMethods[i]; !m.IsNative() && m.IsInvokable() {
			m.SetSkipAccessChecks()
		}
	}
	for i := range c.virtualMethods {
		if m := &c.virtualMethods[i]; !m.IsNative() && m.IsInvokable() {
			m.SetSkipAccessChecks()
		}
	}
}
