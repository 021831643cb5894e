// Package errors provides structured error types for the sides module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: path, offending Go type, vtable slot, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindInvalidVtable).
//		Type("*thing.Instance").
//		Slot("number").
//		Detail("slot is nil").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotRegistered()
//	err := errors.InvalidVtable("*thing.Instance", "destroy")
//
// All errors implement the standard error interface and support errors.Is/As.
// ErrProviderNotRegistered and ErrInvalidVtable can be used as errors.Is targets.
package errors
