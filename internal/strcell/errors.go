package strcell

import "errors"

// ErrCapacity indicates an operation would grow a string beyond MaxLength.
var ErrCapacity = errors.New("strcell: capacity exceeded")
