// Package errors provides structured error types for the uthread library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error
// category). The Error type carries the offending configuration field or
// value, a human-readable detail and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
//		Field("StackSize").
//		Value(512).
//		Detail("stack size below minimum %d", 4096).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapacityExhausted(1024)
//	err := errors.Closed(errors.PhaseCreate)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind are equal.
package errors
