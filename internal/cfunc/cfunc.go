// Package cfunc gives the boxed c-function value a callable payload. A Go
// function can't be written into arena bytes directly, so a cfunc cell
// stores an index into a process-wide registry instead; internal/builtins
// populates the registry, and internal/eval calls through it. Splitting
// this out of internal/builtins avoids a cycle: eval must invoke
// primitives without importing builtins, which itself has no reason to
// import eval (primitives never recurse back into evaluation).
package cfunc

import (
	"encoding/binary"
	"errors"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/value"
)

// ErrBadIndex indicates a cfunc cell's stored index has no registered
// function — it should never happen outside of memory corruption.
var ErrBadIndex = errors.New("cfunc: bad registry index")

// Func is a registered primitive: given the argument array cell (spec's
// "list returns the argument array itself" applies here too — callers get
// the raw args array, not a Go slice), it returns one value.
type Func func(a *arena.Arena, args value.Ref) (value.Value, error)

var registry []Func

// New registers fn and allocates a cfunc cell pointing at it.
func New(a *arena.Arena, fn Func) (value.Ref, error) {
	idx := len(registry)
	registry = append(registry, fn)
	ref, err := a.Alloc(value.TagCFunc)
	if err != nil {
		return 0, err
	}
	binary.LittleEndian.PutUint32(a.Payload(ref)[0:4], uint32(idx))
	return ref, nil
}

// Call invokes the function a cfunc cell points at.
func Call(a *arena.Arena, ref value.Ref, args value.Ref) (value.Value, error) {
	idx := binary.LittleEndian.Uint32(a.Payload(ref)[0:4])
	if int(idx) >= len(registry) {
		return value.Nil, ErrBadIndex
	}
	return registry[idx](a, args)
}
