// Package interp is the interpreter facade: it wires one arena, the
// symbol intern table, the global environment and every builtin into a
// single handle, the way pkg/hive's Open/NewEditor delegate into
// internal/reader and internal/edit rather than leaving callers to wire
// those pieces themselves. The arena, global environment and (through
// internal/symbol) the intern table are process singletons in practice,
// but every one of them not excepted by spec.md §4.7's interning rule is
// reached only through this struct, never through a package-level var.
package interp

import (
	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/builtins"
	"github.com/sck/clispy-go/internal/eval"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/reader"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

// Interp holds one interpreter's entire mutable state.
type Interp struct {
	arena  *arena.Arena
	global value.Ref
	// lastErr is the process-wide error slot spec.md §7 describes, scoped
	// to this Interp rather than a package global — EvalLine resets it on
	// entry and the caller reads it back through LastError.
	lastErr *SchemeError
}

// New reserves size bytes of arena (arena.DefaultSize if size <= 0),
// installs the symbol intern table, builds the global environment, and
// registers every builtin into it.
func New(size int) (*Interp, error) {
	if size <= 0 {
		size = arena.DefaultSize
	}
	a, err := arena.New(size)
	if err != nil {
		return nil, err
	}
	if err := symbol.Init(a); err != nil {
		a.Close()
		return nil, err
	}
	global, err := symbol.EnvNew(a, arena.NoRef)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := builtins.Register(a, global); err != nil {
		a.Close()
		return nil, err
	}
	return &Interp{arena: a, global: global}, nil
}

// Close releases the underlying arena mapping.
func (ip *Interp) Close() error {
	return ip.arena.Close()
}

// LastError returns the error slot EvalLine most recently set, or nil if
// the last evaluation succeeded.
func (ip *Interp) LastError() *SchemeError {
	return ip.lastErr
}

// EvalLine resets the error slot, reads one form from line, and evaluates
// it in the global environment. A blank or comment-only line reads as
// value.Nil with no error, matching internal/reader's per-line contract.
func (ip *Interp) EvalLine(line string) (value.Value, error) {
	ip.lastErr = nil

	form, err := reader.Read(ip.arena, line)
	if err != nil {
		ip.lastErr = classify("reader.Read", err)
		return value.Nil, ip.lastErr
	}
	if form.IsNil() {
		return value.Nil, nil
	}

	result, err := eval.Eval(ip.arena, form, ip.global)
	if err != nil {
		ip.lastErr = classify("eval.Eval", err)
		return value.Nil, ip.lastErr
	}
	return result, nil
}

// Sweep reclaims every cell at rc == 1. Spec's sweep timing requires this
// run once between top-level forms, never mid-evaluation; cmd/clispy's
// REPL loop calls it once per line, matching the reference's cl_repl
// calling cl_gc_collect() once per iteration regardless of interactivity.
func (ip *Interp) Sweep() (int, error) {
	return rc.Sweep(ip.arena)
}

// ToString renders a value the way the REPL's "-> " line and the
// display builtin both do.
func (ip *Interp) ToString(v value.Value) string {
	return builtins.ToString(ip.arena, v)
}
