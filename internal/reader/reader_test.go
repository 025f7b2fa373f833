package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.CellSize * 8)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, symbol.Init(a))
	return a
}

func TestTokenize_PadsParens(t *testing.T) {
	assert.Equal(t, []string{"(", "+", "1", "2", ")"}, Tokenize("(+ 1 2)"))
}

func TestRead_BlankAndCommentLinesAreNil(t *testing.T) {
	a := newTestArena(t)
	v, err := Read(a, "")
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	v, err = Read(a, "   ")
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	v, err = Read(a, "; a comment")
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestRead_Atoms(t *testing.T) {
	a := newTestArena(t)
	v, err := Read(a, "42")
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v)

	v, err = Read(a, "3.5")
	require.NoError(t, err)
	assert.Equal(t, value.Float(3.5), v)

	v, err = Read(a, "foo")
	require.NoError(t, err)
	assert.Equal(t, value.TagSymbol, v.Tag)
	assert.True(t, strcell.EqualsCString(a, v.Ref, "foo"))
}

func TestRead_NestedList(t *testing.T) {
	a := newTestArena(t)
	v, err := Read(a, "(+ 1 (* 2 3))")
	require.NoError(t, err)
	require.Equal(t, value.TagArray, v.Tag)
	require.Equal(t, 3, arraycell.Len(a, v.Ref))

	inner := arraycell.Index(a, v.Ref, 2)
	require.Equal(t, value.TagArray, inner.Tag)
	assert.Equal(t, 3, arraycell.Len(a, inner.Ref))
	assert.Equal(t, value.Int(2), arraycell.Index(a, inner.Ref, 1))
}

func TestRead_UnexpectedCloseIsError(t *testing.T) {
	a := newTestArena(t)
	_, err := Read(a, ")")
	assert.ErrorIs(t, err, ErrUnexpectedClose)
}

func TestRead_UnterminatedListIsError(t *testing.T) {
	a := newTestArena(t)
	_, err := Read(a, "(+ 1 2")
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestRead_EmptyListIsZeroLengthArray(t *testing.T) {
	a := newTestArena(t)
	v, err := Read(a, "()")
	require.NoError(t, err)
	require.Equal(t, value.TagArray, v.Tag)
	assert.Equal(t, 0, arraycell.Len(a, v.Ref))
}
