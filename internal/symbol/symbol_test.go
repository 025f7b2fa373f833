package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/value"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.CellSize * 8)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, Init(a))
	return a
}

func TestIntern_SameContentReturnsSameCell(t *testing.T) {
	a := newTestArena(t)
	s1, err := Intern(a, []byte("foo"))
	require.NoError(t, err)
	s2, err := Intern(a, []byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, value.TagSymbol, s1.Tag)
}

func TestIntern_DifferentContentDiffers(t *testing.T) {
	a := newTestArena(t)
	s1, err := Intern(a, []byte("foo"))
	require.NoError(t, err)
	s2, err := Intern(a, []byte("bar"))
	require.NoError(t, err)
	assert.NotEqual(t, s1.Ref, s2.Ref)
}

func TestIntern_SettlesAtRCThree(t *testing.T) {
	a := newTestArena(t)
	s, err := Intern(a, []byte("perm"))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), a.RC(s.Ref))
}

func TestIntern_NotInitializedIsError(t *testing.T) {
	table = arena.NoRef
	a, err := arena.New(arena.CellSize * 4)
	require.NoError(t, err)
	defer a.Close()
	_, err = Intern(a, []byte("x"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEnv_DefineFindSet(t *testing.T) {
	a := newTestArena(t)
	root, err := EnvNew(a, arena.NoRef)
	require.NoError(t, err)
	child, err := EnvNew(a, root)
	require.NoError(t, err)

	x, err := Intern(a, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, EnvDefine(a, root, x, value.Int(1)))
	assert.Equal(t, value.Int(1), EnvFind(a, child, x), "lookup walks outward to the defining frame")

	require.NoError(t, EnvFindAndSet(a, child, x, value.Int(2)))
	assert.Equal(t, value.Int(2), EnvFind(a, root, x), "set! mutates the frame that already binds the name")
}

func TestEnv_FindUnboundIsNil(t *testing.T) {
	a := newTestArena(t)
	root, err := EnvNew(a, arena.NoRef)
	require.NoError(t, err)
	y, err := Intern(a, []byte("y"))
	require.NoError(t, err)
	assert.True(t, EnvFind(a, root, y).IsNil())
}

func TestEnv_DefineAlwaysWritesOwnFrame(t *testing.T) {
	a := newTestArena(t)
	root, err := EnvNew(a, arena.NoRef)
	require.NoError(t, err)
	child, err := EnvNew(a, root)
	require.NoError(t, err)
	x, err := Intern(a, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, EnvDefine(a, root, x, value.Int(1)))
	require.NoError(t, EnvDefine(a, child, x, value.Int(2)))

	assert.Equal(t, value.Int(2), EnvFind(a, child, x))
	assert.Equal(t, value.Int(1), EnvFind(a, root, x), "define in a child frame must not touch the parent's binding")
}
