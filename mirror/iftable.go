package mirror

// IfTable is the flattened interface table of a class: every interface the
// class transitively implements, paired with the method table mapping each
// interface method to the class's implementation. The linker produces the
// entries in reverse topological order (the most derived interfaces sit
// at the highest indices), and default-method resolution depends on
// walking them from the end.
type IfTable struct {
	entries []ifTableEntry
}

type ifTableEntry struct {
	iface   *Class
	methods []*Method
}

// NewIfTable creates a table with room for count interfaces.
func NewIfTable(count int) *IfTable {
	return &IfTable{entries: make([]ifTableEntry, count)}
}

// Count returns the number of interfaces.
func (t *IfTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Interface returns the interface class at index i.
func (t *IfTable) Interface(i int) *Class {
	return t.entries[i].iface
}

// SetInterface installs the interface class at index i.
func (t *IfTable) SetInterface(i int, iface *Class) {
	t.entries[i].iface = iface
}

// Methods returns the implementation table for interface i, parallel to
// that interface's declared virtual methods.
func (t *IfTable) Methods(i int) []*Method {
	return t.entries[i].methods
}

// SetMethods installs the implementation table for interface i.
func (t *IfTable) SetMethods(i int, methods []*Method) {
	t.entries[i].methods = methods
}

// Contains reports whether iface appears in the table.
func (t *IfTable) Contains(iface *Class) bool {
	if t == nil {
		return false
	}
	for i := range t.entries {
		if t.entries[i].iface == iface {
			return true
		}
	}
	return false
}
