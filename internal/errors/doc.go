// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// input validation, calculation) and for carrying the underlying cause.
//
// The factorial core itself never fails: given validated inputs it always
// produces a (possibly wrapped) result. Everything here belongs to the
// layers around it.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors
