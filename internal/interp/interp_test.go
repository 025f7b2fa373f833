package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/value"
)

func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	ip, err := New(arena.CellSize * 512)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ip.Close() })
	return ip
}

func TestEvalLine_Arithmetic(t *testing.T) {
	ip := newTestInterp(t)
	v, err := ip.EvalLine("(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestEvalLine_DefinePersistsAcrossLines(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalLine("(define x 10)")
	require.NoError(t, err)
	v, err := ip.EvalLine("(+ x 5)")
	require.NoError(t, err)
	assert.Equal(t, value.Int(15), v)
}

func TestEvalLine_BlankAndCommentLinesAreNil(t *testing.T) {
	ip := newTestInterp(t)
	v, err := ip.EvalLine("")
	require.NoError(t, err)
	assert.True(t, v.IsNil())
	v, err = ip.EvalLine("; a comment")
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestEvalLine_UnknownProcSetsErrorSlot(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalLine("(bogus 1)")
	require.Error(t, err)
	assert.Equal(t, KindUnknownProc, ip.LastError().Kind)
}

func TestEvalLine_ErrorSlotResetsOnNextSuccess(t *testing.T) {
	ip := newTestInterp(t)
	_, _ = ip.EvalLine("(bogus 1)")
	require.NotNil(t, ip.LastError())
	_, err := ip.EvalLine("(+ 1 1)")
	require.NoError(t, err)
	assert.Nil(t, ip.LastError())
}

func TestSweep_ReclaimsTransientsBetweenLines(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalLine(`(define lst (list 1 2 3))`)
	require.NoError(t, err)
	_, err = ip.Sweep()
	require.NoError(t, err)
	v, err := ip.EvalLine("(car lst)")
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v, "sweeping must not reclaim a list bound by define")
}

func TestRecursiveFactorial(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalLine(
		`(define fact (lambda (n) (if (< n 2) 1 (* n (fact (- n 1))))))`)
	require.NoError(t, err)
	v, err := ip.EvalLine("(fact 5)")
	require.NoError(t, err)
	assert.Equal(t, value.Int(120), v)
}

func TestToString_MatchesDisplayFormat(t *testing.T) {
	ip := newTestInterp(t)
	v, err := ip.EvalLine("(list 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "(1 2)", ip.ToString(v))
}
