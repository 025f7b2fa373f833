package hashcell

import "errors"

// ErrNotFound indicates Delete was asked to remove a key the hash does not
// contain.
var ErrNotFound = errors.New("hashcell: key not found")
