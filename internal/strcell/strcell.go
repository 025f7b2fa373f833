// Package strcell implements the string (and, identically, symbol) cell:
// a length prefix followed by raw bytes, with a trailing NUL maintained for
// host interop. A string cell owns no child Values, so it registers no
// rc.Teardown — freeing the cell is all reclamation ever needs to do.
package strcell

import (
	"encoding/binary"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/value"
)

const lenPrefixSize = 4

// MaxLength is the longest content a string cell can hold, leaving room for
// the length prefix and the trailing NUL this package always maintains.
const MaxLength = arena.PayloadSize - lenPrefixSize - 1

func length(a *arena.Arena, ref value.Ref) int {
	return int(binary.LittleEndian.Uint32(a.Payload(ref)[:lenPrefixSize]))
}

func setLength(a *arena.Arena, ref value.Ref, n int) {
	binary.LittleEndian.PutUint32(a.Payload(ref)[:lenPrefixSize], uint32(n))
}

func write(a *arena.Arena, ref value.Ref, content []byte) {
	p := a.Payload(ref)
	setLength(a, ref, len(content))
	copy(p[lenPrefixSize:], content)
	p[lenPrefixSize+len(content)] = 0 // trailing NUL
}

// New allocates a string cell holding a copy of content.
func New(a *arena.Arena, content []byte) (value.Ref, error) {
	if len(content) > MaxLength {
		return 0, ErrCapacity
	}
	ref, err := a.Alloc(value.TagString)
	if err != nil {
		return 0, err
	}
	write(a, ref, content)
	return ref, nil
}

// Len returns a string cell's content length, excluding the trailing NUL.
func Len(a *arena.Arena, ref value.Ref) int { return length(a, ref) }

// Bytes returns the cell's content, excluding the trailing NUL. The slice
// aliases the arena and is only valid until the next mutation of ref.
func Bytes(a *arena.Arena, ref value.Ref) []byte {
	n := length(a, ref)
	return a.Payload(ref)[lenPrefixSize : lenPrefixSize+n]
}

// CString returns the cell's content including its trailing NUL, for
// passing to host code that expects a C-style terminated buffer.
func CString(a *arena.Arena, ref value.Ref) []byte {
	n := length(a, ref)
	return a.Payload(ref)[lenPrefixSize : lenPrefixSize+n+1]
}

// Append writes src's bytes after dst's and returns dst, mutated in place.
// It fails rather than truncate if the combined length would exceed
// MaxLength.
func Append(a *arena.Arena, dst, src value.Ref) (value.Ref, error) {
	dstBytes := Bytes(a, dst)
	srcBytes := Bytes(a, src)
	if len(dstBytes)+len(srcBytes) > MaxLength {
		return 0, ErrCapacity
	}
	combined := append(append([]byte{}, dstBytes...), srcBytes...)
	write(a, dst, combined)
	return dst, nil
}

// Replace returns a new string with every literal occurrence of find in src
// substituted by subst. Matching is literal, not a regular expression.
func Replace(a *arena.Arena, src value.Ref, find, subst []byte) (value.Ref, error) {
	content := Bytes(a, src)
	if len(find) == 0 {
		return New(a, content)
	}
	var out []byte
	for i := 0; i < len(content); {
		if i+len(find) <= len(content) && string(content[i:i+len(find)]) == string(find) {
			out = append(out, subst...)
			i += len(find)
			continue
		}
		out = append(out, content[i])
		i++
	}
	return New(a, out)
}

// Hash computes the classic v = byte + 31*v rolling hash over a string
// cell's content.
func Hash(a *arena.Arena, ref value.Ref) uint64 {
	var h uint64
	for _, b := range Bytes(a, ref) {
		h = uint64(b) + 31*h
	}
	return h
}

// Equals compares two string (or symbol) cells byte-wise.
func Equals(a *arena.Arena, x, y value.Ref) bool {
	xb, yb := Bytes(a, x), Bytes(a, y)
	if len(xb) != len(yb) {
		return false
	}
	for i := range xb {
		if xb[i] != yb[i] {
			return false
		}
	}
	return true
}

// EqualsCString compares a string (or symbol) cell's content against a Go
// string literal — used by the reader to recognise keywords without
// interning a throwaway symbol first.
func EqualsCString(a *arena.Arena, ref value.Ref, literal string) bool {
	return string(Bytes(a, ref)) == literal
}
