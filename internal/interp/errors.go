package interp

import (
	"errors"
	"fmt"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/builtins"
	"github.com/sck/clispy-go/internal/eval"
	"github.com/sck/clispy-go/internal/hashcell"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/reader"
	"github.com/sck/clispy-go/internal/strcell"
)

// Kind identifies one of the seven error categories the interpreter's
// process-wide error slot distinguishes.
type Kind int

const (
	KindNone Kind = iota
	KindOutOfMemory
	KindTypeMismatch
	KindReaderError
	KindUnknownProc
	KindArityMismatch
	KindCapacityExceeded
	KindRCViolation
)

func (k Kind) String() string {
	switch k {
	case KindOutOfMemory:
		return "out-of-memory"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindReaderError:
		return "reader-error"
	case KindUnknownProc:
		return "unknown-proc"
	case KindArityMismatch:
		return "arity-mismatch"
	case KindCapacityExceeded:
		return "capacity-exceeded"
	case KindRCViolation:
		return "rc-violation"
	default:
		return "none"
	}
}

// SchemeError is the Go-facing view of the process-wide error slot: the
// slot itself (message + kind) and a Go error both report the same fact,
// not two redundant mechanisms — SchemeError just lets callers use
// errors.Is/errors.As the idiomatic way instead of polling the slot.
type SchemeError struct {
	Kind Kind
	Func string
	Msg  string
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Func, e.Msg)
}

// classify maps an error surfacing from any package in the dependency
// graph to the error kind spec's process-wide slot distinguishes.
func classify(fn string, err error) *SchemeError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, arena.ErrNoSpace):
		return &SchemeError{KindOutOfMemory, fn, msg}
	case errors.Is(err, rc.ErrViolation):
		return &SchemeError{KindRCViolation, fn, msg}
	case errors.Is(err, reader.ErrUnexpectedClose), errors.Is(err, reader.ErrUnterminated):
		return &SchemeError{KindReaderError, fn, msg}
	case errors.Is(err, eval.ErrUnknownProc):
		return &SchemeError{KindUnknownProc, fn, msg}
	case errors.Is(err, eval.ErrArityMismatch):
		return &SchemeError{KindArityMismatch, fn, msg}
	case errors.Is(err, eval.ErrNotCallable), errors.Is(err, arena.ErrBadRef), errors.Is(err, hashcell.ErrNotFound),
		errors.Is(err, builtins.ErrNotNumber), errors.Is(err, builtins.ErrDivByZero), errors.Is(err, builtins.ErrNotArray):
		return &SchemeError{KindTypeMismatch, fn, msg}
	case errors.Is(err, arraycell.ErrCapacity), errors.Is(err, arraycell.ErrEmpty), errors.Is(err, strcell.ErrCapacity):
		return &SchemeError{KindCapacityExceeded, fn, msg}
	default:
		return &SchemeError{KindTypeMismatch, fn, msg}
	}
}
