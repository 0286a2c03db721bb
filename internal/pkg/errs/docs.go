// Package errs provides standardized error types for the reconciler.
// Every type wraps a sentinel so callers can classify failures with errors.Is
// while still getting a descriptive message:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: an aggregate or record does not exist
//
// Each type has a constructor with and without a cause, an Error method and an
// Unwrap method exposing the sentinel and the cause.
package errs
