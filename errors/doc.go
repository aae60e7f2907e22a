// Package errors provides structured error types for the resolvefs module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the filesystem path, the offending Go type, the resolution
// depth and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindUnsupported).
//		GoType("int").
//		Depth(3).
//		Detail("value cannot be materialized").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MaxDepthExceeded(63)
//	err := errors.FromOS(errors.PhaseStat, path, osErr)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so the exported sentinels work as targets:
//
//	if errors.Is(err, rferrors.ErrMaxDepthExceeded) { ... }
package errors
