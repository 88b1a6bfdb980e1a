// Package errors provides structured error types for the owned-drop library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the offending handle and type ID where a
// registry operation is involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegistry, errors.KindBorrowed).
//		Handle(h).
//		Detail("2 outstanding borrows").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseRegistry, h)
//	err := errors.Closed(errors.PhaseRegistry, "insert")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
