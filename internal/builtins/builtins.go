// Package builtins registers the interpreter's primitive procedures —
// arithmetic, comparison, equality, list construction and teardown, type
// predicates, and output — into a global environment, mirroring the
// reference implementation's cl_add_globals table. Each primitive is a
// cfunc.Func that receives the call's evaluated argument array directly:
// two of them (length, not) read that array in a way a casual port would
// not expect, and those readings are called out where they diverge from
// plain per-argument behaviour; the type predicates test their first
// argument only.
package builtins

import (
	"fmt"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/cfunc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

// Register installs every primitive into env, the way cl_add_globals walks
// cl_std_n/cl_std_f in the reference implementation.
func Register(a *arena.Arena, env value.Ref) error {
	for _, prim := range primitives {
		ref, err := cfunc.New(a, prim.fn)
		if err != nil {
			return err
		}
		name, err := symbol.Intern(a, []byte(prim.name))
		if err != nil {
			return err
		}
		if err := symbol.EnvDefine(a, env, name, value.CFunc(ref)); err != nil {
			return err
		}
	}
	return nil
}

type primitive struct {
	name string
	fn   cfunc.Func
}

// primitives lists every name a single function is registered under
// separately, the way the reference table lists cl_eq three times under
// "=", "equal?" and "eq?" rather than aliasing one slot.
var primitives = []primitive{
	{"+", add},
	{"-", sub},
	{"*", mul},
	{"/", div},
	{"not", not},
	{">", gt},
	{"<", lt},
	{">=", ge},
	{"<=", le},
	{"=", eq},
	{"equal?", eq},
	{"eq?", eq},
	{"length", length},
	{"cons", cons},
	{"car", car},
	{"cdr", cdr},
	{"list", list},
	{"list?", isList},
	{"null?", isNull},
	{"symbol?", isSymbol},
	{"display", display},
	{"newline", newline},
}

func arg(a *arena.Arena, args value.Ref, i int) value.Value {
	return arraycell.Index(a, args, i)
}

// toInt converts a number toward int, truncating any float — the
// coercion spec names as the primary path for mixed-type arithmetic.
func toInt(v value.Value) (int64, bool) {
	switch v.Tag {
	case value.TagInt:
		return v.I, true
	case value.TagFloat:
		return int64(v.F), true
	default:
		return 0, false
	}
}

func toFloat(v value.Value) (float64, bool) {
	switch v.Tag {
	case value.TagFloat:
		return v.F, true
	case value.TagInt:
		return float64(v.I), true
	default:
		return 0, false
	}
}

// numeric applies intOp when both x and y are int, floatOp when both are
// float, and otherwise coerces toward int first (per spec's documented
// policy) before falling back to float. The float fallback is only ever
// reached when one side isn't a number at all, since int truncation of a
// Go float64 never fails the way the reference's bit-reinterpreted
// conversion could.
func numeric(x, y value.Value, intOp func(a, b int64) value.Value, floatOp func(a, b float64) value.Value) (value.Value, error) {
	if x.Tag == value.TagInt && y.Tag == value.TagInt {
		return intOp(x.I, y.I), nil
	}
	if x.Tag == value.TagFloat && y.Tag == value.TagFloat {
		return floatOp(x.F, y.F), nil
	}
	if xi, ok := toInt(x); ok {
		if yi, ok := toInt(y); ok {
			return intOp(xi, yi), nil
		}
	}
	if xf, ok := toFloat(x); ok {
		if yf, ok := toFloat(y); ok {
			return floatOp(xf, yf), nil
		}
	}
	return value.Nil, ErrNotNumber
}

func add(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Int(x + y) },
		func(x, y float64) value.Value { return value.Float(x + y) })
}

func sub(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Int(x - y) },
		func(x, y float64) value.Value { return value.Float(x - y) })
}

func mul(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Int(x * y) },
		func(x, y float64) value.Value { return value.Float(x * y) })
}

// div mirrors numeric's own coercion order rather than delegating to it,
// since the int-division branch needs a zero check wherever it's reached —
// including when one operand is a float that truncates to a zero int.
func div(a *arena.Arena, args value.Ref) (value.Value, error) {
	x, y := arg(a, args, 0), arg(a, args, 1)

	if x.Tag == value.TagInt && y.Tag == value.TagInt {
		if y.I == 0 {
			return value.Nil, ErrDivByZero
		}
		return value.Int(x.I / y.I), nil
	}
	if x.Tag == value.TagFloat && y.Tag == value.TagFloat {
		return value.Float(x.F / y.F), nil
	}
	if xi, ok := toInt(x); ok {
		if yi, ok := toInt(y); ok {
			if yi == 0 {
				return value.Nil, ErrDivByZero
			}
			return value.Int(xi / yi), nil
		}
	}
	if xf, ok := toFloat(x); ok {
		if yf, ok := toFloat(y); ok {
			return value.Float(xf / yf), nil
		}
	}
	return value.Nil, ErrNotNumber
}

// not is bitwise XOR of two ints, a quirk inherited from the reference's
// cl_not — not a unary boolean negation. Operands that don't convert to
// int (a string, say) yield Nil rather than an error, matching the
// original's silent fall-through when its ON_I macro never matches.
func not(a *arena.Arena, args value.Ref) (value.Value, error) {
	x, y := arg(a, args, 0), arg(a, args, 1)
	xi, ok1 := toInt(x)
	yi, ok2 := toInt(y)
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	return value.Int(xi ^ yi), nil
}

func gt(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Bool(x > y) },
		func(x, y float64) value.Value { return value.Bool(x > y) })
}

func lt(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Bool(x < y) },
		func(x, y float64) value.Value { return value.Bool(x < y) })
}

func ge(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Bool(x >= y) },
		func(x, y float64) value.Value { return value.Bool(x >= y) })
}

func le(a *arena.Arena, args value.Ref) (value.Value, error) {
	return numeric(arg(a, args, 0), arg(a, args, 1),
		func(x, y int64) value.Value { return value.Bool(x <= y) },
		func(x, y float64) value.Value { return value.Bool(x <= y) })
}

// Equal implements the reference's cl_equals_i: strings and symbols
// compare by content regardless of which of the two tags either side
// carries, everything else compares by raw value after collapsing an
// empty array to nil (so (equal? (list) '()) holds the way the evaluator's
// own truthiness rule already treats an empty array as falsy).
func Equal(a *arena.Arena, x, y value.Value) bool {
	if x.IsStringlike() && y.IsStringlike() {
		return strcell.Equals(a, x.Ref, y.Ref)
	}
	return collapseEmpty(a, x).RawEqual(collapseEmpty(a, y))
}

func collapseEmpty(a *arena.Arena, v value.Value) value.Value {
	if v.Tag == value.TagArray && arraycell.Len(a, v.Ref) == 0 {
		return value.Nil
	}
	return v
}

// eq backs "=", "equal?" and "eq?" alike — the reference registers the
// same function under all three names, with no separate identity-equality
// primitive.
func eq(a *arena.Arena, args value.Ref) (value.Value, error) {
	return value.Bool(Equal(a, arg(a, args, 0), arg(a, args, 1))), nil
}

// length returns the call's own argument count, not the length of its
// first argument — a quirk spec calls out explicitly and preserves.
func length(a *arena.Arena, args value.Ref) (value.Value, error) {
	return value.Int(int64(arraycell.Len(a, args))), nil
}

// cons concatenates its two arguments into one fresh array rather than
// prepending a single element — the reference's array-backed "cons" has
// no distinct element/list distinction to prepend across.
func cons(a *arena.Arena, args value.Ref) (value.Value, error) {
	x, y := arg(a, args, 0), arg(a, args, 1)
	if x.Tag != value.TagArray || y.Tag != value.TagArray {
		return value.Nil, ErrNotArray
	}
	out, err := arraycell.Concat(a, x.Ref, y.Ref)
	if err != nil {
		return value.Nil, err
	}
	return value.Array(out), nil
}

// car returns the first element of the first argument.
func car(a *arena.Arena, args value.Ref) (value.Value, error) {
	first := arg(a, args, 0)
	if first.Tag != value.TagArray {
		return value.Nil, ErrNotArray
	}
	return arraycell.Index(a, first.Ref, 0), nil
}

// cdr returns a clone of the first argument with its front element
// removed, leaving the original list untouched.
func cdr(a *arena.Arena, args value.Ref) (value.Value, error) {
	first := arg(a, args, 0)
	if first.Tag != value.TagArray {
		return value.Nil, ErrNotArray
	}
	clone, err := arraycell.Clone(a, first.Ref)
	if err != nil {
		return value.Nil, err
	}
	if arraycell.Len(a, clone) > 0 {
		if _, err := arraycell.Unshift(a, clone); err != nil {
			return value.Nil, err
		}
	}
	return value.Array(clone), nil
}

// list returns the call's own argument array unchanged — no copy, since
// the array eval.apply built for this call has no other use once list
// returns it.
func list(a *arena.Arena, args value.Ref) (value.Value, error) {
	return value.Array(args), nil
}

func isList(a *arena.Arena, args value.Ref) (value.Value, error) {
	return value.Bool(arg(a, args, 0).Tag == value.TagArray), nil
}

// null? is true for literal nil and for an empty array, matching the
// evaluator's own truthiness rule rather than the reference's literal
// "is this exact value nil" check (which spec does not call out as a
// quirk to preserve, unlike length and not).
func isNull(a *arena.Arena, args value.Ref) (value.Value, error) {
	v := arg(a, args, 0)
	return value.Bool(v.IsNil() || (v.Tag == value.TagArray && arraycell.Len(a, v.Ref) == 0)), nil
}

func isSymbol(a *arena.Arena, args value.Ref) (value.Value, error) {
	return value.Bool(arg(a, args, 0).Tag == value.TagSymbol), nil
}

// display prints every argument's to-string form, space-separated, with
// no trailing newline.
func display(a *arena.Arena, args value.Ref) (value.Value, error) {
	n := arraycell.Len(a, args)
	for i := 0; i < n; i++ {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(ToString(a, arraycell.Index(a, args, i)))
	}
	return value.Nil, nil
}

func newline(a *arena.Arena, args value.Ref) (value.Value, error) {
	fmt.Print("\n")
	return value.Nil, nil
}

// ToString renders v the way display and the REPL's "-> " line do: nil
// and the bool sentinel print as "null"/"true", numbers print in decimal
// (floats with the reference's fixed six-digit %f form), a c-function
// prints as "CFUNC", strings and symbols print their raw content, and an
// array prints its elements recursively, parenthesised and space-joined.
func ToString(a *arena.Arena, v value.Value) string {
	switch {
	case v.IsNil():
		return "null"
	case v.Tag == value.TagBool:
		return "true"
	case v.Tag == value.TagInt:
		return fmt.Sprintf("%d", v.I)
	case v.Tag == value.TagFloat:
		return fmt.Sprintf("%f", v.F)
	case v.Tag == value.TagCFunc:
		return "CFUNC"
	case v.IsStringlike():
		return string(strcell.Bytes(a, v.Ref))
	case v.Tag == value.TagArray:
		n := arraycell.Len(a, v.Ref)
		s := "("
		for i := 0; i < n; i++ {
			if i > 0 {
				s += " "
			}
			s += ToString(a, arraycell.Index(a, v.Ref, i))
		}
		return s + ")"
	default:
		return fmt.Sprintf("#<%s>", v.Tag)
	}
}
