// Package errs provides standardized error types for the dispatch service.
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrConflict) usable with errors.Is
//   - a struct type carrying the identifiers a caller needs to retry
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Generic validation errors (ValueIsRequiredError, ValueIsInvalidError,
// ValueIsOutOfRangeError, ObjectNotFoundError) are used by value objects and
// repositories. The dispatch taxonomy (GeometryError, NoZonesAvailableError,
// TemplateNotFoundError, ConflictError, CapacityExceededError,
// InvalidStateError, ExternalServiceError) is surfaced by use cases and mapped
// to HTTP status codes by the inbound adapter.
//
// An order that falls outside every zone is not an error; it is reported in
// the assignment result.
package errs
