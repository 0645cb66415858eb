// Package errors provides structured error types for the otio-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending handle, the dynamic and required type names,
// the engine outcome when one was reported, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
//		Handle(h).
//		Type("Track.1").
//		Want("Clip").
//		Build()
//
// Or use convenience constructors for the bridge taxonomy:
//
//	err := errors.StaleHandle(errors.PhaseResolve, h)
//	err := errors.AlreadyParented(errors.PhaseDispatch, child, "V1")
//
// Callers match on kind with the phase-less sentinels:
//
//	if errors.Is(err, errors.ErrInvalidHandle) { ... } // also true for stale handles
//
// None of these errors are raised as panics. The only panic is KindCorrupt,
// used when the handle table detects its own inconsistency.
package errors
