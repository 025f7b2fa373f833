package eval

import "errors"

var (
	// ErrArityMismatch indicates a lambda call's argument count did not
	// match its parameter list.
	ErrArityMismatch = errors.New("eval: arity mismatch")

	// ErrUnknownProc indicates the head of an application resolved to
	// nothing callable.
	ErrUnknownProc = errors.New("eval: unknown procedure")

	// ErrNotCallable indicates a value that is neither a primitive nor a
	// lambda triple was used in call position.
	ErrNotCallable = errors.New("eval: value is not callable")
)
