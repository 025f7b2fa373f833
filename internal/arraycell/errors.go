package arraycell

import "errors"

// ErrCapacity indicates a push or concatenation would exceed a cell's fixed
// capacity.
var ErrCapacity = errors.New("arraycell: capacity exceeded")

// ErrEmpty indicates Unshift was called against an array with no elements.
var ErrEmpty = errors.New("arraycell: array is empty")
