package hashcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/value"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.CellSize * 32)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func strKey(t *testing.T, a *arena.Arena, s string) value.Value {
	t.Helper()
	ref, err := strcell.New(a, []byte(s))
	require.NoError(t, err)
	return value.String(ref)
}

func TestSet_Get_RoundTrip(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)

	k := strKey(t, a, "x")
	require.NoError(t, Set(a, h, k, value.Int(42)))
	assert.Equal(t, value.Int(42), Get(a, h, k))
	assert.Equal(t, 1, Size(a, h))
}

func TestGet_MissingKeyIsNil(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)
	assert.True(t, Get(a, h, strKey(t, a, "missing")).IsNil())
}

func TestSet_OverwriteReleasesOldValue(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)
	k := strKey(t, a, "x")

	oldVal, err := strcell.New(a, []byte("old"))
	require.NoError(t, err)
	require.NoError(t, Set(a, h, k, value.String(oldVal)))
	assert.Equal(t, uint32(2), a.RC(oldVal))

	require.NoError(t, Set(a, h, k, value.Int(1)))
	assert.Equal(t, uint32(1), a.RC(oldVal), "overwritten value must be released back to rc 1")
	assert.Equal(t, 1, Size(a, h), "overwrite must not grow size")
}

func TestKeyEqual_StringMatchesSymbolByContent(t *testing.T) {
	a := newTestArena(t)
	symRef, err := strcell.New(a, []byte("foo"))
	require.NoError(t, err)
	sym := value.Symbol(symRef)
	str := strKey(t, a, "foo")
	assert.True(t, KeyEqual(a, str, sym),
		"a string candidate must match a symbol entry with the same bytes, the way symbol.Intern looks up a not-yet-retagged candidate")
}

func TestSet_SameBucketKeysByContentNotRef(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)
	k1 := strKey(t, a, "dup")
	k2 := strKey(t, a, "dup")

	require.NoError(t, Set(a, h, k1, value.Int(1)))
	require.NoError(t, Set(a, h, k2, value.Int(2)))
	assert.Equal(t, 1, Size(a, h), "two distinct cells with equal content are one key")
	assert.Equal(t, value.Int(2), Get(a, h, k1))
}

func TestDelete_RemovesBindingAndReleases(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)
	k := strKey(t, a, "x")
	require.NoError(t, Set(a, h, k, value.Int(1)))
	require.NoError(t, Delete(a, h, k))
	assert.True(t, Get(a, h, k).IsNil())
	assert.Equal(t, 0, Size(a, h))
}

func TestDelete_MissingKeyIsNotFound(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)
	err = Delete(a, h, strKey(t, a, "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuckets_LeavesRoomForTrailingParentField(t *testing.T) {
	require.LessOrEqual(t, parentOffset()+4, arena.PayloadSize,
		"the parent ref stored after the bucket table must fit inside the cell payload")
}

func TestParent_RoundTrip(t *testing.T) {
	a := newTestArena(t)
	root, err := New(a, arena.NoRef)
	require.NoError(t, err)
	child, err := New(a, root)
	require.NoError(t, err)
	assert.Equal(t, root, Parent(a, child))
	assert.Equal(t, arena.NoRef, Parent(a, root))
}

func TestTeardown_WalksEveryBucketChain(t *testing.T) {
	a := newTestArena(t)
	h, err := New(a, arena.NoRef)
	require.NoError(t, err)

	var vals []value.Ref
	for i := 0; i < 5; i++ {
		v, err := strcell.New(a, []byte{byte('a' + i)})
		require.NoError(t, err)
		vals = append(vals, v)
		require.NoError(t, Set(a, h, strKey(t, a, string(rune('a'+i))), value.String(v)))
	}

	require.NoError(t, rc.Delete(a, h))
	for _, v := range vals {
		assert.Equal(t, uint32(1), a.RC(v))
	}
}
