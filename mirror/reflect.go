package mirror

import (
	"strings"

	"github.com/AquaPie/art/errors"
	"github.com/AquaPie/art/thread"
)

// paramsOf strips the return type from a full signature, leaving the
// parameter list "(...)" that reflective lookup matches on.
func paramsOf(signature string) string {
	if i := strings.IndexByte(signature, ')'); i >= 0 {
		return signature[:i+1]
	}
	return signature
}

// GetDeclaredMethod performs reflective declared-method lookup by name
// and parameter list, e.g. params "(ILjava/lang/String;)". Covariant
// return types permit a class to carry several methods with the same
// name and parameters; a non-synthetic one is preferred, a synthetic one
// is still returned to handle escalated visibility, and runtime-made
// miranda methods are never returned. A failure already pending on self
// aborts the scan and is propagated; a clean miss returns nil, nil.
func (c *Class) GetDeclaredMethod(self *thread.Thread, name, params string) (*Method, *errors.Error) {
	if name == "" {
		return nil, errors.NilPointer(errors.PhaseRuntime, "name == null")
	}
	const skipModifiers = AccMiranda | AccSynthetic
	var result *Method
	for i := range c.virtualMethods {
		m := &c.virtualMethods[i]
		if self.IsPending() {
			return nil, self.Pending()
		}
		if m.name != name || paramsOf(m.signature) != params {
			continue
		}
		if m.accessFlags&skipModifiers == 0 {
			return m, nil
		}
		if !m.IsMiranda() {
			result = m
		}
	}
	if result == nil {
		for i := range c.directMethods {
			m := &c.directMethods[i]
			if m.IsConstructor() {
				continue
			}
			if self.IsPending() {
				return nil, self.Pending()
			}
			if m.name != name || paramsOf(m.signature) != params {
				continue
			}
			if m.accessFlags&skipModifiers == 0 {
				return m, nil
			}
			// Direct methods cannot be mirandas; this one is synthetic.
			result = m
		}
	}
	return result, nil
}

// GetDeclaredConstructor performs reflective constructor lookup by
// parameter list. The static initializer never matches.
func (c *Class) GetDeclaredConstructor(self *thread.Thread, params string) (*Method, *errors.Error) {
	for i := range c.directMethods {
		m := &c.directMethods[i]
		if m.IsStatic() || !m.IsConstructor() {
			continue
		}
		if self.IsPending() {
			return nil, self.Pending()
		}
		if paramsOf(m.signature) == params {
			return m, nil
		}
	}
	return nil, nil
}
