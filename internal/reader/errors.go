package reader

import "errors"

// ErrUnexpectedClose indicates a ")" token appeared where an expression was
// expected.
var ErrUnexpectedClose = errors.New("reader: unexpected )")

// ErrUnterminated indicates the token stream ran out before a "(" found its
// matching ")".
var ErrUnterminated = errors.New("reader: unterminated list")
