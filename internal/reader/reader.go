// Package reader turns one line of source text into one Value form, in the
// two phases spec describes: Tokenize pads every paren with spaces and
// splits on whitespace, then readFrom walks the resulting token queue with
// a single unshift-driven recursive descent. The token queue itself is a
// plain Go slice — it never escapes to evaluator or user code, unlike the
// array cells the parsed form is built from, so there is no reason to pay
// for an arena cell to hold it.
package reader

import (
	"strconv"
	"strings"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

// Tokenize inserts a space on each side of every "(" and ")" and splits the
// result on whitespace.
func Tokenize(source string) []string {
	padded := strings.NewReplacer("(", " ( ", ")", " ) ").Replace(source)
	return strings.Fields(padded)
}

// Read parses one top-level form from line. A line whose first non-space
// character is ";" is a comment and yields Nil with no error. A blank line
// also yields Nil. Only the first form on the line is read; anything after
// it is ignored, matching the one-expression-per-line input contract.
func Read(a *arena.Arena, line string) (value.Value, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ";") {
		return value.Nil, nil
	}
	tokens := Tokenize(trimmed)
	if len(tokens) == 0 {
		return value.Nil, nil
	}
	rd := &reader{a: a, tokens: tokens}
	return rd.readFrom()
}

type reader struct {
	a      *arena.Arena
	tokens []string
	pos    int
}

func (r *reader) readFrom() (value.Value, error) {
	if r.pos >= len(r.tokens) {
		return value.Nil, ErrUnterminated
	}
	tok := r.tokens[r.pos]
	r.pos++

	switch tok {
	case "(":
		return r.readList()
	case ")":
		return value.Nil, ErrUnexpectedClose
	default:
		return r.atom(tok)
	}
}

func (r *reader) readList() (value.Value, error) {
	ref, err := arraycell.New(r.a)
	if err != nil {
		return value.Nil, err
	}
	for {
		if r.pos >= len(r.tokens) {
			return value.Nil, ErrUnterminated
		}
		if r.tokens[r.pos] == ")" {
			r.pos++ // consume the closing paren
			return value.Array(ref), nil
		}
		child, err := r.readFrom()
		if err != nil {
			return value.Nil, err
		}
		if err := arraycell.Push(r.a, ref, child); err != nil {
			return value.Nil, err
		}
	}
}

// atom tries a strict integer parse, then a strict float parse, then falls
// back to interning tok as a symbol.
func (r *reader) atom(tok string) (value.Value, error) {
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return value.Float(f), nil
	}
	return symbol.Intern(r.a, []byte(tok))
}
