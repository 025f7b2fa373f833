// Package value defines the tagged one-word value representation shared by
// every component of the interpreter: the reader produces values, the
// evaluator consumes and returns them, and every heap container stores them.
//
// A Value is either immediate (Nil, Bool, Int, Float — the payload lives
// beside the tag and never touches the arena) or boxed (String, Symbol,
// CFunc, Array, Hash, HashPair — the payload is a cell in internal/arena,
// addressed by Ref and interpreted by internal/strcell, internal/arraycell
// or internal/hashcell according to its tag). Two boxed values compare
// equal by Ref identity, not by struct layout; see Tag.Immediate.
package value

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodedSize is the fixed number of bytes Encode writes and Decode reads.
// Every container cell (array slot, hash bucket head, hash-pair field) embeds
// values at this width, so capacities are computed from it.
const EncodedSize = 16

// Tag identifies one of the ten semantic kinds a Value can hold.
type Tag uint8

const (
	TagNil Tag = iota
	TagBool
	TagInt
	TagFloat
	TagString
	TagSymbol
	TagCFunc
	TagArray
	TagHash
	TagHashPair
)

// String names match cl_types_s in the C original, for error messages.
func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagString:
		return "string"
	case TagSymbol:
		return "symbol"
	case TagCFunc:
		return "cfunc"
	case TagArray:
		return "array"
	case TagHash:
		return "hash"
	case TagHashPair:
		return "hash-pair"
	default:
		return "<unknown>"
	}
}

// Immediate reports whether values of this tag carry their payload inline
// (never allocate, never refcounted). Nil, Bool, Int and Float are
// immediate; everything else is boxed and refers to a heap cell.
func (t Tag) Immediate() bool {
	return t == TagNil || t == TagBool || t == TagInt || t == TagFloat
}

// Ref is a cell index into the arena. It is only meaningful for boxed tags.
type Ref uint32

// Value is the tagged word every part of the interpreter passes around.
// Immediates fill I or F directly; boxed values fill Ref and leave I/F zero.
type Value struct {
	Tag Tag
	I   int64
	F   float64
	Ref Ref
}

// Nil is the zero value: Tag == TagNil, every other field zero.
var Nil = Value{}

// True is the distinct non-zero bool sentinel. There is no separate False —
// falseness is represented by Nil (and, per the evaluator's truthiness
// rule, by the empty array); see eval.Truthy.
var True = Value{Tag: TagBool, I: 1}

// Bool converts a host bool to the interpreter's True/Nil pair.
func Bool(b bool) Value {
	if b {
		return True
	}
	return Nil
}

// Int constructs an immediate integer value.
func Int(i int64) Value { return Value{Tag: TagInt, I: i} }

// Float constructs an immediate float value.
func Float(f float64) Value { return Value{Tag: TagFloat, F: f} }

// String constructs a boxed string value referencing cell ref.
func String(ref Ref) Value { return Value{Tag: TagString, Ref: ref} }

// Symbol constructs a boxed symbol value referencing cell ref.
// Strings and symbols share a cell layout (spec §3); they differ only by tag.
func Symbol(ref Ref) Value { return Value{Tag: TagSymbol, Ref: ref} }

// CFunc constructs a boxed primitive-function value referencing cell ref.
func CFunc(ref Ref) Value { return Value{Tag: TagCFunc, Ref: ref} }

// Array constructs a boxed array value referencing cell ref.
func Array(ref Ref) Value { return Value{Tag: TagArray, Ref: ref} }

// Hash constructs a boxed hash value referencing cell ref.
func Hash(ref Ref) Value { return Value{Tag: TagHash, Ref: ref} }

// HashPair constructs a boxed hash-pair value referencing cell ref.
func HashPair(ref Ref) Value { return Value{Tag: TagHashPair, Ref: ref} }

// IsNil reports whether v is the nil sentinel.
func (v Value) IsNil() bool { return v.Tag == TagNil }

// IsNumber reports whether v is an int or a float.
func (v Value) IsNumber() bool { return v.Tag == TagInt || v.Tag == TagFloat }

// IsStringlike reports whether v is a string or a symbol — the two share a
// cell layout and compare as the same type (spec §3).
func (v Value) IsStringlike() bool { return v.Tag == TagString || v.Tag == TagSymbol }

// RawEqual compares two values by tag/payload identity only: no string
// content comparison, no empty-array-as-nil collapsing. Used for
// non-string keys in internal/hashcell and as the fallback branch of the
// richer Equal in
// internal/builtins, which does know how to dereference strings and
// collapse an empty array to nil.
func (v Value) RawEqual(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagInt:
		return v.I == o.I
	case TagFloat:
		return v.F == o.F
	case TagNil:
		return true
	case TagBool:
		return v.I == o.I
	default:
		return v.Ref == o.Ref
	}
}

// Encode packs v into the first EncodedSize bytes of b, little-endian.
// Int and Float share one 8-byte word (reinterpreted per Tag on Decode)
// since a Value is never both at once.
func Encode(b []byte, v Value) {
	_ = b[:EncodedSize]
	b[0] = byte(v.Tag)
	b[1], b[2], b[3] = 0, 0, 0
	binary.LittleEndian.PutUint32(b[4:8], uint32(v.Ref))
	var word uint64
	if v.Tag == TagFloat {
		word = math.Float64bits(v.F)
	} else {
		word = uint64(v.I)
	}
	binary.LittleEndian.PutUint64(b[8:16], word)
}

// Decode reads a Value from the first EncodedSize bytes of b.
func Decode(b []byte) Value {
	_ = b[:EncodedSize]
	tag := Tag(b[0])
	ref := Ref(binary.LittleEndian.Uint32(b[4:8]))
	word := binary.LittleEndian.Uint64(b[8:16])
	v := Value{Tag: tag, Ref: ref}
	if tag == TagFloat {
		v.F = math.Float64frombits(word)
	} else {
		v.I = int64(word)
	}
	return v
}

// GoString supports %#v-style debug printing in tests.
func (v Value) GoString() string {
	switch v.Tag {
	case TagInt:
		return fmt.Sprintf("Int(%d)", v.I)
	case TagFloat:
		return fmt.Sprintf("Float(%g)", v.F)
	case TagNil:
		return "Nil"
	case TagBool:
		return "True"
	default:
		return fmt.Sprintf("%s(#%d)", v.Tag, v.Ref)
	}
}
