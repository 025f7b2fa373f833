// Package hashcell implements the hash cell (a size counter, B bucket
// heads, and a parent reference — the same structure internal/symbol
// reuses for both the intern table and lexical environment frames) and the
// hash-pair cell collisions chain through. Buckets collide LIFO: the
// newest binding for a bucket shadows older ones on Get.
package hashcell

import (
	"encoding/binary"
	"math"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/value"
)

const hashHeaderFields = 8 // size uint32 + 4 bytes padding before the bucket table
const parentFieldSize = 4  // parent ref uint32, stored after the bucket table

// Buckets is the number of bucket heads B, sized so the size counter, every
// bucket head, and the trailing parent reference all fit in one cell.
const Buckets = (arena.PayloadSize - hashHeaderFields - parentFieldSize) / value.EncodedSize

func init() {
	rc.Register(value.TagHash, func(a *arena.Arena, ref value.Ref) {
		for b := 0; b < Buckets; b++ {
			head := bucketHead(a, ref, b)
			for head.Tag == value.TagHashPair {
				next := pairNext(a, head.Ref)
				// rc.Delete dispatches to the TagHashPair teardown
				// registered below, which releases key and value.
				_ = rc.Delete(a, head.Ref)
				head = next
			}
		}
	})
	rc.Register(value.TagHashPair, func(a *arena.Arena, ref value.Ref) {
		_ = rc.Release(a, pairKey(a, ref))
		_ = rc.Release(a, pairValue(a, ref))
	})
}

func sizeOf(a *arena.Arena, ref value.Ref) int {
	return int(binary.LittleEndian.Uint32(a.Payload(ref)[0:4]))
}

func setSize(a *arena.Arena, ref value.Ref, n int) {
	binary.LittleEndian.PutUint32(a.Payload(ref)[0:4], uint32(n))
}

func bucketOffset(b int) int { return hashHeaderFields + b*value.EncodedSize }

func bucketHead(a *arena.Arena, ref value.Ref, b int) value.Value {
	off := bucketOffset(b)
	return value.Decode(a.Payload(ref)[off : off+value.EncodedSize])
}

func setBucketHead(a *arena.Arena, ref value.Ref, b int, v value.Value) {
	off := bucketOffset(b)
	value.Encode(a.Payload(ref)[off:off+value.EncodedSize], v)
}

func parentOffset() int { return bucketOffset(Buckets) }

// Parent returns the hash's parent reference, or arena.NoRef at the root.
func Parent(a *arena.Arena, ref value.Ref) value.Ref {
	off := parentOffset()
	return value.Ref(binary.LittleEndian.Uint32(a.Payload(ref)[off : off+4]))
}

func setParent(a *arena.Arena, ref value.Ref, parent value.Ref) {
	off := parentOffset()
	binary.LittleEndian.PutUint32(a.Payload(ref)[off:off+4], uint32(parent))
}

// --- hash-pair cell: key, value, next-in-bucket ---

func pairField(a *arena.Arena, ref value.Ref, i int) value.Value {
	off := i * value.EncodedSize
	return value.Decode(a.Payload(ref)[off : off+value.EncodedSize])
}

func setPairField(a *arena.Arena, ref value.Ref, i int, v value.Value) {
	off := i * value.EncodedSize
	value.Encode(a.Payload(ref)[off:off+value.EncodedSize], v)
}

func pairKey(a *arena.Arena, ref value.Ref) value.Value   { return pairField(a, ref, 0) }
func pairValue(a *arena.Arena, ref value.Ref) value.Value { return pairField(a, ref, 1) }
func pairNext(a *arena.Arena, ref value.Ref) value.Value  { return pairField(a, ref, 2) }

func newPair(a *arena.Arena, key, val, next value.Value) (value.Ref, error) {
	ref, err := a.Alloc(value.TagHashPair)
	if err != nil {
		return 0, err
	}
	setPairField(a, ref, 0, key)
	setPairField(a, ref, 1, val)
	setPairField(a, ref, 2, next)
	return ref, nil
}

// New allocates an empty hash cell with the given parent (arena.NoRef for a
// root hash, i.e. one with no lexical or intern-table parent).
func New(a *arena.Arena, parent value.Ref) (value.Ref, error) {
	ref, err := a.Alloc(value.TagHash)
	if err != nil {
		return 0, err
	}
	a.Zero(ref)
	for b := 0; b < Buckets; b++ {
		setBucketHead(a, ref, b, value.Nil)
	}
	setParent(a, ref, parent)
	return ref, nil
}

// KeyHash hashes a key the way Set/Get/Delete bucket it: strings and
// symbols hash by content, everything else by its raw value word.
func KeyHash(a *arena.Arena, key value.Value) uint64 {
	if key.IsStringlike() {
		return strcell.Hash(a, key.Ref)
	}
	switch key.Tag {
	case value.TagFloat:
		return math.Float64bits(key.F)
	case value.TagInt, value.TagBool:
		return uint64(key.I)
	default:
		return uint64(key.Ref)
	}
}

// KeyEqual compares two keys the way Set/Get/Delete do: content equality for
// string/symbol keys — a string candidate matches a symbol entry with the
// same bytes, which is exactly how symbol.Intern looks up an as-yet-untagged
// candidate against the table of already-interned symbols — raw-word
// equality otherwise.
func KeyEqual(a *arena.Arena, x, y value.Value) bool {
	if x.IsStringlike() && y.IsStringlike() {
		return strcell.Equals(a, x.Ref, y.Ref)
	}
	if x.Tag != y.Tag {
		return false
	}
	return x.RawEqual(y)
}

func bucketIndex(a *arena.Arena, key value.Value) int {
	return int(KeyHash(a, key) % uint64(Buckets))
}

// findPair returns the pair holding key in ref's own buckets (not walking
// the parent chain), and the pair immediately before it in its bucket's
// chain (value.Nil if it is the bucket head).
func findPair(a *arena.Arena, ref value.Ref, key value.Value) (pair, prev value.Value, bucket int) {
	bucket = bucketIndex(a, key)
	prev = value.Nil
	cur := bucketHead(a, ref, bucket)
	for cur.Tag == value.TagHashPair {
		if KeyEqual(a, pairKey(a, cur.Ref), key) {
			return cur, prev, bucket
		}
		prev = cur
		cur = pairNext(a, cur.Ref)
	}
	return value.Nil, value.Nil, bucket
}

// Get returns the value bound to key in ref's own buckets (not the parent
// chain; internal/symbol.EnvFind walks parents itself), or Nil if absent.
func Get(a *arena.Arena, ref value.Ref, key value.Value) value.Value {
	pair, _, _ := findPair(a, ref, key)
	if pair.Tag != value.TagHashPair {
		return value.Nil
	}
	return pairValue(a, pair.Ref)
}

// Set binds key to val in ref. An existing binding is overwritten in
// place: the new value is retained, the old one released, and the key
// itself is left untouched. A new binding retains both key and val and is
// prepended to its bucket, so repeated lookups see the newest match first.
func Set(a *arena.Arena, ref value.Ref, key, val value.Value) error {
	pair, _, bucket := findPair(a, ref, key)
	if pair.Tag == value.TagHashPair {
		old := pairValue(a, pair.Ref)
		rc.Retain(a, val)
		setPairField(a, pair.Ref, 1, val)
		return rc.Release(a, old)
	}

	head := bucketHead(a, ref, bucket)
	rc.Retain(a, key)
	rc.Retain(a, val)
	newRef, err := newPair(a, key, val, head)
	if err != nil {
		return err
	}
	setBucketHead(a, ref, bucket, value.HashPair(newRef))
	setSize(a, ref, sizeOf(a, ref)+1)
	return nil
}

// Delete unlinks key's pair from its bucket, releases the key and value it
// held, frees the pair, and decrements size.
func Delete(a *arena.Arena, ref value.Ref, key value.Value) error {
	pair, prev, bucket := findPair(a, ref, key)
	if pair.Tag != value.TagHashPair {
		return ErrNotFound
	}
	next := pairNext(a, pair.Ref)
	if prev.Tag == value.TagHashPair {
		setPairField(a, prev.Ref, 2, next)
	} else {
		setBucketHead(a, ref, bucket, next)
	}
	// rc.Delete dispatches to the TagHashPair teardown, which releases
	// the key and value this pair owned.
	if err := rc.Delete(a, pair.Ref); err != nil {
		return err
	}
	setSize(a, ref, sizeOf(a, ref)-1)
	return nil
}

// Size returns the count of hash-pairs reachable from ref's own buckets.
func Size(a *arena.Arena, ref value.Ref) int { return sizeOf(a, ref) }
