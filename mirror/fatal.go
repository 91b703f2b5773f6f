package mirror

import (
	"fmt"

	"go.uber.org/zap"
)

// debugChecks enables the expensive cross-validation paths: binary-search
// results double-checked against linear scans, reference-offset bitmap
// population counts, and similar invariant audits. Off by default.
var debugChecks = false

// fatalf reports a programming-error invariant violation: it logs the
// diagnostic through zap and panics. These indicate a bug in a
// collaborator, not a recoverable runtime condition.
func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Logger().Error("fatal class invariant violation", zap.String("detail", msg))
	panic("mirror: " + msg)
}
