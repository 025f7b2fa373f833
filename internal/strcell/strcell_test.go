package strcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.CellSize * 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_LenAndBytesRoundTrip(t *testing.T) {
	a := newTestArena(t)
	ref, err := New(a, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, Len(a, ref))
	assert.Equal(t, []byte("hello"), Bytes(a, ref))
}

func TestCString_HasTrailingNUL(t *testing.T) {
	a := newTestArena(t)
	ref, err := New(a, []byte("hi"))
	require.NoError(t, err)
	cs := CString(a, ref)
	require.Len(t, cs, 3)
	assert.Equal(t, byte(0), cs[2])
}

func TestNew_RejectsOverCapacity(t *testing.T) {
	a := newTestArena(t)
	_, err := New(a, make([]byte, MaxLength+1))
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestAppend_GrowsInPlace(t *testing.T) {
	a := newTestArena(t)
	dst, err := New(a, []byte("foo"))
	require.NoError(t, err)
	src, err := New(a, []byte("bar"))
	require.NoError(t, err)
	out, err := Append(a, dst, src)
	require.NoError(t, err)
	assert.Equal(t, dst, out)
	assert.Equal(t, "foobar", string(Bytes(a, out)))
}

func TestReplace_SubstitutesEveryOccurrence(t *testing.T) {
	a := newTestArena(t)
	src, err := New(a, []byte("aXbXc"))
	require.NoError(t, err)
	out, err := Replace(a, src, []byte("X"), []byte("--"))
	require.NoError(t, err)
	assert.Equal(t, "a--b--c", string(Bytes(a, out)))
}

func TestEquals_ComparesContentNotRef(t *testing.T) {
	a := newTestArena(t)
	x, err := New(a, []byte("same"))
	require.NoError(t, err)
	y, err := New(a, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, x, y)
	assert.True(t, Equals(a, x, y))
}

func TestEqualsCString(t *testing.T) {
	a := newTestArena(t)
	ref, err := New(a, []byte("quote"))
	require.NoError(t, err)
	assert.True(t, EqualsCString(a, ref, "quote"))
	assert.False(t, EqualsCString(a, ref, "unquote"))
}
