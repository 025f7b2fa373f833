package rc

import "errors"

// ErrViolation indicates a Release or Delete was attempted against a cell
// whose reference count made the operation illegal: releasing the last
// reference, or deleting a cell something else still refers to. This is a
// contract violation in the caller, never an implicit free.
var ErrViolation = errors.New("rc: reference-count violation")
