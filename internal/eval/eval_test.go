package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/reader"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

func newTestEnv(t *testing.T) (*arena.Arena, value.Ref) {
	t.Helper()
	a, err := arena.New(arena.CellSize * 256)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, symbol.Init(a))
	env, err := symbol.EnvNew(a, arena.NoRef)
	require.NoError(t, err)
	return a, env
}

func evalString(t *testing.T, a *arena.Arena, env value.Ref, src string) value.Value {
	t.Helper()
	form, err := reader.Read(a, src)
	require.NoError(t, err)
	v, err := Eval(a, form, env)
	require.NoError(t, err)
	return v
}

func TestEval_SelfEvaluating(t *testing.T) {
	a, env := newTestEnv(t)
	assert.Equal(t, value.Int(5), evalString(t, a, env, "5"))
	assert.Equal(t, value.Float(1.5), evalString(t, a, env, "1.5"))
}

func TestEval_Quote(t *testing.T) {
	a, env := newTestEnv(t)
	v := evalString(t, a, env, "(quote (1 2 3))")
	require.Equal(t, value.TagArray, v.Tag)
	assert.Equal(t, 3, arraycell.Len(a, v.Ref))
}

func TestEval_IfTruthyAndFalsy(t *testing.T) {
	a, env := newTestEnv(t)
	assert.Equal(t, value.Int(1), evalString(t, a, env, "(if 0 1 2)"), "0 is truthy here")
	assert.Equal(t, value.Int(2), evalString(t, a, env, "(if (quote ()) 1 2)"), "empty array is falsy")
}

func TestEval_DefineAndLookup(t *testing.T) {
	a, env := newTestEnv(t)
	evalString(t, a, env, "(define x 10)")
	assert.Equal(t, value.Int(10), evalString(t, a, env, "x"))
}

func TestEval_SetMutatesExistingBinding(t *testing.T) {
	a, env := newTestEnv(t)
	evalString(t, a, env, "(define x 1)")
	evalString(t, a, env, "(set! x 2)")
	assert.Equal(t, value.Int(2), evalString(t, a, env, "x"))
}

func TestEval_BeginReturnsLastForm(t *testing.T) {
	a, env := newTestEnv(t)
	v := evalString(t, a, env, "(begin (define x 1) (set! x 2) x)")
	assert.Equal(t, value.Int(2), v)
}

func TestEval_LambdaApplicationAndArity(t *testing.T) {
	a, env := newTestEnv(t)
	evalString(t, a, env, "(define id (lambda (n) n))")
	assert.Equal(t, value.Int(7), evalString(t, a, env, "(id 7)"))

	form, err := reader.Read(a, "(id 1 2)")
	require.NoError(t, err)
	_, err = Eval(a, form, env)
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestEval_ClosureCapturesDefiningEnv(t *testing.T) {
	a, env := newTestEnv(t)
	evalString(t, a, env, "(define make-adder (lambda (n) (lambda (m) n)))")
	evalString(t, a, env, "(define add5 (make-adder 5))")
	assert.Equal(t, value.Int(5), evalString(t, a, env, "(add5 1)"))
}

func TestEval_UnknownProcIsError(t *testing.T) {
	a, env := newTestEnv(t)
	form, err := reader.Read(a, "(undefined-proc 1)")
	require.NoError(t, err)
	_, err = Eval(a, form, env)
	assert.ErrorIs(t, err, ErrUnknownProc)
	assert.Contains(t, err.Error(), "undefined-proc", "the offending symbol should be named in the error")
}

func TestTruthy(t *testing.T) {
	a, _ := newTestEnv(t)
	assert.False(t, Truthy(a, value.Nil))
	assert.True(t, Truthy(a, value.Int(0)))
	ref, err := arraycell.New(a)
	require.NoError(t, err)
	assert.False(t, Truthy(a, value.Array(ref)))
	require.NoError(t, arraycell.Push(a, ref, value.Int(1)))
	assert.True(t, Truthy(a, value.Array(ref)))
}
