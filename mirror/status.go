package mirror

// Status tracks a class's progress through loading, linking, verification,
// and initialization. The numeric ordering is load-bearing: lifecycle
// transitions must be non-decreasing, with the three negative terminal
// states reachable from anywhere.
type Status int32

const (
	StatusRetired         Status = -3 // temporary class superseded by its final copy
	StatusErrorResolved   Status = -2
	StatusErrorUnresolved Status = -1
	StatusNotReady        Status = 0
	StatusIdx             Status = 1 // descriptor indices populated, nothing loaded
	StatusLoaded          Status = 2 // dex definition loaded
	StatusResolving       Status = 3 // just cloned from a temporary class
	StatusResolved        Status = 4 // superclass and tables linked
	StatusVerifying       Status = 5
	StatusVerifyingAtRuntime        Status = 6 // compile-time verification deferred
	StatusVerifiedNeedsAccessChecks Status = 7
	StatusVerified                  Status = 8
	StatusInitializing              Status = 9
	StatusInitialized               Status = 10
)

// IsErroneous reports whether s is one of the two error states.
func (s Status) IsErroneous() bool {
	return s == StatusErrorResolved || s == StatusErrorUnresolved
}

func (s Status) String() string {
	switch s {
	case StatusRetired:
		return "Retired"
	case StatusErrorResolved:
		return "ErrorResolved"
	case StatusErrorUnresolved:
		return "ErrorUnresolved"
	case StatusNotReady:
		return "NotReady"
	case StatusIdx:
		return "Idx"
	case StatusLoaded:
		return "Loaded"
	case StatusResolving:
		return "Resolving"
	case StatusResolved:
		return "Resolved"
	case StatusVerifying:
		return "Verifying"
	case StatusVerifyingAtRuntime:
		return "VerifyingAtRuntime"
	case StatusVerifiedNeedsAccessChecks:
		return "VerifiedNeedsAccessChecks"
	case StatusVerified:
		return "Verified"
	case StatusInitializing:
		return "Initializing"
	case StatusInitialized:
		return "Initialized"
	default:
		return "Unknown"
	}
}
