// Package arraycell implements the array cell: a logical size, a logical
// start offset, and a fixed-capacity vector of values embedded in the cell.
// Popping from the front advances start rather than shifting; pushing past
// capacity is rejected rather than spilling into a second cell.
package arraycell

import (
	"encoding/binary"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/value"
)

const headerFields = 8 // size uint32 + start uint32

// Capacity is the number of elements a single array cell can hold.
const Capacity = (arena.PayloadSize - headerFields) / value.EncodedSize

func init() {
	rc.Register(value.TagArray, func(a *arena.Arena, ref value.Ref) {
		size, start := size(a, ref), start(a, ref)
		for i := start; i < size; i++ {
			_ = rc.Release(a, slotValue(a, ref, i))
		}
	})
}

func size(a *arena.Arena, ref value.Ref) int {
	return int(binary.LittleEndian.Uint32(a.Payload(ref)[0:4]))
}

func setSize(a *arena.Arena, ref value.Ref, n int) {
	binary.LittleEndian.PutUint32(a.Payload(ref)[0:4], uint32(n))
}

func start(a *arena.Arena, ref value.Ref) int {
	return int(binary.LittleEndian.Uint32(a.Payload(ref)[4:8]))
}

func setStart(a *arena.Arena, ref value.Ref, n int) {
	binary.LittleEndian.PutUint32(a.Payload(ref)[4:8], uint32(n))
}

func slotOffset(i int) int { return headerFields + i*value.EncodedSize }

func slotValue(a *arena.Arena, ref value.Ref, i int) value.Value {
	off := slotOffset(i)
	return value.Decode(a.Payload(ref)[off : off+value.EncodedSize])
}

func setSlotValue(a *arena.Arena, ref value.Ref, i int, v value.Value) {
	off := slotOffset(i)
	value.Encode(a.Payload(ref)[off:off+value.EncodedSize], v)
}

// New allocates an empty array cell.
func New(a *arena.Arena) (value.Ref, error) {
	ref, err := a.Alloc(value.TagArray)
	if err != nil {
		return 0, err
	}
	a.Zero(ref)
	return ref, nil
}

// Len returns size - start, the number of live elements.
func Len(a *arena.Arena, ref value.Ref) int {
	return size(a, ref) - start(a, ref)
}

// Index returns the i'th live element, or Nil if i is out of [0, Len) range.
func Index(a *arena.Arena, ref value.Ref, i int) value.Value {
	if i < 0 || i >= Len(a, ref) {
		return value.Nil
	}
	return slotValue(a, ref, start(a, ref)+i)
}

// Push retains v and appends it at the end, bounded by the cell's fixed
// capacity.
func Push(a *arena.Arena, ref value.Ref, v value.Value) error {
	s := size(a, ref)
	if s >= Capacity {
		return ErrCapacity
	}
	rc.Retain(a, v)
	setSlotValue(a, ref, s, v)
	setSize(a, ref, s+1)
	return nil
}

// Unshift removes and returns the front live element, releasing the array's
// ownership of it and advancing start. Despite its name (inherited from the
// reference implementation's token-queue usage), this pops the front rather
// than pushing one — it is how the reader consumes its token array.
func Unshift(a *arena.Arena, ref value.Ref) (value.Value, error) {
	if Len(a, ref) == 0 {
		return value.Nil, ErrEmpty
	}
	st := start(a, ref)
	v := slotValue(a, ref, st)
	_ = rc.Release(a, v)
	setStart(a, ref, st+1)
	return v, nil
}

// Iterate returns the element at *cursor and advances it, or reports ok ==
// false once the live range is exhausted. Callers own the cursor, typically
// starting it at 0.
func Iterate(a *arena.Arena, ref value.Ref, cursor *int) (value.Value, bool) {
	if *cursor >= Len(a, ref) {
		return value.Nil, false
	}
	v := Index(a, ref, *cursor)
	*cursor++
	return v, true
}

// Clone deep-copies the cell's live range into a new array, retaining every
// entry (the new array is an independent owner, not an alias).
func Clone(a *arena.Arena, ref value.Ref) (value.Ref, error) {
	out, err := New(a)
	if err != nil {
		return 0, err
	}
	n := Len(a, ref)
	for i := 0; i < n; i++ {
		if err := Push(a, out, Index(a, ref, i)); err != nil {
			return 0, err
		}
	}
	return out, nil
}

// Concat returns a fresh array holding x's live elements immediately
// followed by y's, with no gap between them (the off-by-one skipped slot in
// the reference C implementation is not reproduced here).
func Concat(a *arena.Arena, x, y value.Ref) (value.Ref, error) {
	out, err := New(a)
	if err != nil {
		return 0, err
	}
	nx, ny := Len(a, x), Len(a, y)
	if nx+ny > Capacity {
		return 0, ErrCapacity
	}
	for i := 0; i < nx; i++ {
		if err := Push(a, out, Index(a, x, i)); err != nil {
			return 0, err
		}
	}
	for i := 0; i < ny; i++ {
		if err := Push(a, out, Index(a, y, i)); err != nil {
			return 0, err
		}
	}
	return out, nil
}

// Map applies fn to every live element and collects the results into a new
// array.
func Map(a *arena.Arena, ref value.Ref, fn func(value.Value) (value.Value, error)) (value.Ref, error) {
	out, err := New(a)
	if err != nil {
		return 0, err
	}
	n := Len(a, ref)
	for i := 0; i < n; i++ {
		mapped, err := fn(Index(a, ref, i))
		if err != nil {
			return 0, err
		}
		if err := Push(a, out, mapped); err != nil {
			return 0, err
		}
	}
	return out, nil
}

// Join concatenates every live element's to-string form, separated by sep,
// into a new string cell.
func Join(a *arena.Arena, ref value.Ref, sep string, toString func(value.Value) string) (value.Ref, error) {
	n := Len(a, ref)
	var out []byte
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, sep...)
		}
		out = append(out, toString(Index(a, ref, i))...)
	}
	return strcell.New(a, out)
}

// SplitSpaces splits a string cell's content on ASCII space into a new
// array of new string cells, one per non-empty run between separators. This
// implements spec's string "split" operation; it lives here, not in
// strcell, because its result is an array and strcell must not import
// arraycell (arraycell already imports strcell for Join, and a two-way
// import would cycle).
func SplitSpaces(a *arena.Arena, strRef value.Ref) (value.Ref, error) {
	out, err := New(a)
	if err != nil {
		return 0, err
	}
	content := strcell.Bytes(a, strRef)
	start := -1
	// Push's retain is the only reference this token ever needs: a fresh
	// cell's allocation rc of 1 is never explicitly released by its
	// creator, only by a later structural removal (delete/unshift/
	// overwrite) — see internal/rc's package doc.
	flush := func(end int) error {
		if start < 0 {
			return nil
		}
		tok, err := strcell.New(a, content[start:end])
		if err != nil {
			return err
		}
		return Push(a, out, value.String(tok))
	}
	for i, b := range content {
		if b == ' ' {
			if err := flush(i); err != nil {
				return 0, err
			}
			start = -1
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if err := flush(len(content)); err != nil {
		return 0, err
	}
	return out, nil
}
