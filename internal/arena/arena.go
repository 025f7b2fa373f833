// Package arena implements the interpreter's single mapped region of
// fixed-size cells: one large virtual reservation, carved into equal slots,
// threaded through a singly-linked free-chunk list. It mirrors the teacher's
// internal/mmfile mmap idiom for the reservation itself, but — unlike
// hive/alloc.FastAllocator's segregated size-class free lists for
// variable-size registry cells — every slot here is the same fixed size, so
// the free structure collapses to one list.
package arena

import (
	"encoding/binary"

	"github.com/sck/clispy-go/internal/alloclog"
	"github.com/sck/clispy-go/internal/value"
)

const (
	// CellSize is the fixed slot size, matching the ≈64 KiB reference cell.
	CellSize = 1 << 16

	// headerSize is the rc+tag header that precedes every cell's payload.
	headerSize = 8

	// PayloadSize is the usable bytes within a cell, after its header.
	PayloadSize = CellSize - headerSize

	// DefaultSize is the default reservation (≈70 GiB): large, but only
	// touched pages are ever physically committed.
	DefaultSize = 70 << 30
)

// NoRef marks the end of the free-chunk list and the absence of a parent
// hash reference. It is never a valid slot index.
const NoRef = value.Ref(^uint32(0))

// Arena owns one mmap'd region: a one-slot descriptor followed by N
// fixed-size slots, indexed by Ref starting at 0.
type Arena struct {
	mem      []byte
	unmap    func() error
	numSlots uint32
}

// New reserves size bytes (rounded down to a whole number of slots plus the
// descriptor slot) and installs a single free chunk spanning every slot.
func New(size int) (*Arena, error) {
	if size < 2*CellSize {
		size = 2 * CellSize
	}
	mem, unmap, err := mmapRegion(size)
	if err != nil {
		return nil, err
	}
	a := &Arena{
		mem:      mem,
		unmap:    unmap,
		numSlots: uint32((len(mem) - CellSize) / CellSize),
	}
	a.init()
	return a, nil
}

// Close releases the underlying mapping. The arena must not be used after.
func (a *Arena) Close() error {
	if a.unmap == nil {
		return nil
	}
	return a.unmap()
}

// NumSlots returns the total slot count the region was carved into.
func (a *Arena) NumSlots() uint32 { return a.numSlots }

func (a *Arena) init() {
	a.setFreeHead(NoRef)
	if a.numSlots == 0 {
		return
	}
	// One chunk, spanning every slot, anchored at slot 0. The link lives in
	// the payload, not the header, so a free cell's rc/tag bytes stay
	// meaningful (rc reads 0, tag reads whatever it was tagged as an
	// Alloc argument; both start zero-valued on a fresh mmap page).
	chunk := a.Payload(value.Ref(0))
	binary.LittleEndian.PutUint32(chunk[0:4], uint32(NoRef))
	binary.LittleEndian.PutUint32(chunk[4:8], a.numSlots)
	a.setFreeHead(value.Ref(0))
}

// --- descriptor accessors (the descriptor lives in the region's first slot) ---

func (a *Arena) freeHead() value.Ref {
	return value.Ref(binary.LittleEndian.Uint32(a.mem[0:4]))
}

func (a *Arena) setFreeHead(ref value.Ref) {
	binary.LittleEndian.PutUint32(a.mem[0:4], uint32(ref))
}

// slot returns the full CellSize-byte region for ref, descriptor excluded:
// ref 0 is the first real slot, stored just past the descriptor's own slot.
func (a *Arena) slot(ref value.Ref) []byte {
	off := CellSize + int(ref)*CellSize
	return a.mem[off : off+CellSize]
}

func (a *Arena) header(ref value.Ref) []byte { return a.slot(ref)[:headerSize] }

// Payload returns the mutable payload bytes for a cell. Callers index into it
// according to the layout their cell type defines (string/array/hash/pair).
func (a *Arena) Payload(ref value.Ref) []byte { return a.slot(ref)[headerSize:] }

// RC returns a cell's current reference count.
func (a *Arena) RC(ref value.Ref) uint32 {
	return binary.LittleEndian.Uint32(a.header(ref)[0:4])
}

// SetRC overwrites a cell's reference count directly; used by internal/rc.
func (a *Arena) SetRC(ref value.Ref, rc uint32) {
	binary.LittleEndian.PutUint32(a.header(ref)[0:4], rc)
}

// Tag returns a cell's tag, the redundant copy the header carries for sweep
// observation (the free list clears rc but deliberately leaves tag intact).
func (a *Arena) Tag(ref value.Ref) value.Tag {
	return value.Tag(a.header(ref)[4])
}

func (a *Arena) setTag(ref value.Ref, tag value.Tag) {
	a.header(ref)[4] = byte(tag)
}

// Retag overwrites a cell's header tag without touching its payload or rc.
// Used only by internal/symbol's interning: a string and a symbol share a
// cell layout, so interning a new name retags its string cell in place
// rather than copying it.
func (a *Arena) Retag(ref value.Ref, tag value.Tag) {
	a.setTag(ref, tag)
}

// Alloc takes the head free chunk: if it spans exactly one slot, the list
// head advances past it; otherwise its size is decremented and the chunk's
// trailing slot is handed back. The new cell's header is initialised with
// rc = 1 and the given tag; the payload is left as-is (zero, for an
// untouched mmap page) until the caller's Zero or first write.
func (a *Arena) Alloc(tag value.Tag) (value.Ref, error) {
	head := a.freeHead()
	if head == NoRef {
		return 0, ErrNoSpace
	}
	chunk := a.Payload(head)
	next := value.Ref(binary.LittleEndian.Uint32(chunk[0:4]))
	count := binary.LittleEndian.Uint32(chunk[4:8])
	if count == 0 {
		return 0, ErrNoSpace
	}

	var ref value.Ref
	if count == 1 {
		ref = head
		a.setFreeHead(next)
	} else {
		ref = value.Ref(uint32(head) + count - 1)
		binary.LittleEndian.PutUint32(chunk[4:8], count-1)
	}

	a.SetRC(ref, 1)
	a.setTag(ref, tag)
	alloclog.Alloc(ref, tag)
	return ref, nil
}

// Free prepends ref to the free list as a single-slot chunk, clears its
// reference count, and leaves the tag untouched (sweep inspects it before
// the next allocation overwrites it).
func (a *Arena) Free(ref value.Ref) error {
	if uint32(ref) >= a.numSlots {
		return ErrBadRef
	}
	head := a.freeHead()
	chunk := a.Payload(ref)
	binary.LittleEndian.PutUint32(chunk[0:4], uint32(head))
	binary.LittleEndian.PutUint32(chunk[4:8], 1)
	a.setFreeHead(ref)
	a.SetRC(ref, 0)
	return nil
}

// Zero overwrites a cell's payload, not its header, with zeros.
func (a *Arena) Zero(ref value.Ref) {
	p := a.Payload(ref)
	for i := range p {
		p[i] = 0
	}
}
