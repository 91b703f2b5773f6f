package mirror

// Access flags shared by classes, fields, and methods. The low 16 bits
// mirror the container format; higher bits are runtime-private and masked
// out of the user-visible view.
const (
	AccPublic       uint32 = 0x0001
	AccPrivate      uint32 = 0x0002
	AccProtected    uint32 = 0x0004
	AccStatic       uint32 = 0x0008
	AccFinal        uint32 = 0x0010
	AccSynchronized uint32 = 0x0020
	AccVolatile     uint32 = 0x0040 // fields
	AccBridge       uint32 = 0x0040 // methods
	AccTransient    uint32 = 0x0080 // fields
	AccVarargs      uint32 = 0x0080 // methods
	AccNative       uint32 = 0x0100
	AccInterface    uint32 = 0x0200
	AccAbstract     uint32 = 0x0400
	AccStrict       uint32 = 0x0800
	AccSynthetic    uint32 = 0x1000
	AccAnnotation   uint32 = 0x2000
	AccEnum         uint32 = 0x4000

	// Runtime-private method bits.
	AccConstructor      uint32 = 0x00010000
	AccSkipAccessChecks uint32 = 0x00080000
	AccCopied           uint32 = 0x00100000 // copied into a class from an interface
	AccMiranda          uint32 = 0x00200000
	AccDefault          uint32 = 0x00400000
	AccDefaultConflict  uint32 = 0x00800000 // synthesized diamond-conflict marker

	// Runtime-private class bits.
	AccClassIsTemp        uint32 = 0x00040000 // not yet superseded by its final copy
	AccClassIsProxy       uint32 = 0x00080000
	AccClassFlagString    uint32 = 0x10000000
	AccClassFlagClass     uint32 = 0x20000000 // the class of all Class objects
	AccClassIsFinalizable uint32 = 0x80000000

	// JavaFlagsMask selects the user-visible flag bits.
	JavaFlagsMask uint32 = 0xFFFF
)
