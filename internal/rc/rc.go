// Package rc implements the interpreter's hybrid reference-counting
// reclaimer: allocation installs rc = 1, every subsequent store into a
// container retains, and sweep treats "still rc == 1 after one REPL turn"
// as garbage — not a general-purpose collector, since cycles would leak,
// but the language has no way to construct one from user code.
package rc

import (
	"fmt"

	"github.com/sck/clispy-go/internal/alloclog"
	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/value"
)

// Teardown releases everything a boxed cell owns — array entries, hash
// keys/values, pair chains — before the cell returns to the free list.
// Each container package registers its own teardown from an init(), the
// way database/sql drivers register themselves with the sql package: it
// lets rc delete any boxed tag without importing internal/strcell,
// internal/arraycell or internal/hashcell, which in turn import rc to
// retain and release the values they store. Importing back would cycle.
type Teardown func(a *arena.Arena, ref value.Ref)

var teardowns = map[value.Tag]Teardown{}

// Register installs the teardown function for a boxed tag.
func Register(tag value.Tag, fn Teardown) {
	teardowns[tag] = fn
}

// Retain is a no-op for nil, bool, int and float. For boxed values it
// increments the cell's header reference count.
func Retain(a *arena.Arena, v value.Value) {
	if v.Tag.Immediate() {
		return
	}
	a.SetRC(v.Ref, a.RC(v.Ref)+1)
}

// Release is a no-op for immediates. For boxed values it requires rc >= 2
// and decrements; releasing a cell already at rc 1 is a contract violation
// — the caller should have gone through Delete instead.
func Release(a *arena.Arena, v value.Value) error {
	if v.Tag.Immediate() {
		return nil
	}
	cur := a.RC(v.Ref)
	if cur < 2 {
		return fmt.Errorf("%w: release of cell #%d at rc %d", ErrViolation, v.Ref, cur)
	}
	a.SetRC(v.Ref, cur-1)
	return nil
}

// Delete requires rc == 1: it tears down every child the cell owns via the
// tag's registered Teardown, then returns the cell to the free list.
func Delete(a *arena.Arena, ref value.Ref) error {
	cur := a.RC(ref)
	if cur != 1 {
		return fmt.Errorf("%w: delete of cell #%d at rc %d", ErrViolation, ref, cur)
	}
	tag := a.Tag(ref)
	if fn, ok := teardowns[tag]; ok {
		fn(a, ref)
	}
	alloclog.Free(ref, tag)
	return a.Free(ref)
}

// Sweep walks every slot and deletes any cell observed at rc == 1: the
// allocator's own initial retain is the only one left, so nothing in the
// program still refers to it. This runs once between top-level forms, never
// mid-evaluation — the call stack is always fully unwound when it runs, so
// nothing live is ever caught mid-construction at rc == 1.
func Sweep(a *arena.Arena) (reclaimed int, err error) {
	n := a.NumSlots()
	for i := value.Ref(0); uint32(i) < n; i++ {
		if a.RC(i) == 1 {
			if derr := Delete(a, i); derr != nil {
				return reclaimed, derr
			}
			reclaimed++
		}
	}
	alloclog.Sweep(reclaimed)
	return reclaimed, nil
}
