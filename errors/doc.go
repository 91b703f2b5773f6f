// Package errors provides structured error types for the class runtime.
//
// Errors are categorized by Phase (where in the class lifecycle the error
// occurred) and Kind (error category). The Error type includes rich
// context: the affected class descriptor, member name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseVerify, errors.KindVerification).
//		Class("Lcom/example/Widget;").
//		Detail("register v3 type mismatch").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfMemory(errors.PhaseLink, 4096)
//	err := errors.Resolution("Lcom/example/Widget;", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
