// Package eval implements the evaluator: seven special forms (quote, if,
// set!, define, lambda, begin) and application, dispatched the way
// the reference clispy.c's cl_eval switches on the head of an array form.
package eval

import (
	"fmt"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/arraycell"
	"github.com/sck/clispy-go/internal/cfunc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/symbol"
	"github.com/sck/clispy-go/internal/value"
)

// Truthy implements the evaluator's truthiness rule: nil is false, an
// empty array is false, everything else — including 0 and "" — is true.
func Truthy(a *arena.Arena, v value.Value) bool {
	if v.IsNil() {
		return false
	}
	if v.Tag == value.TagArray && arraycell.Len(a, v.Ref) == 0 {
		return false
	}
	return true
}

func isHead(a *arena.Arena, v value.Value, name string) bool {
	return v.Tag == value.TagSymbol && strcell.EqualsCString(a, v.Ref, name)
}

// Eval evaluates x in env.
func Eval(a *arena.Arena, x value.Value, env value.Ref) (value.Value, error) {
	switch x.Tag {
	case value.TagSymbol:
		return symbol.EnvFind(a, env, x), nil
	case value.TagArray:
		return evalForm(a, x, env)
	default:
		// Immediates and strings (and any stray hash/cfunc value) evaluate
		// to themselves.
		return x, nil
	}
}

func evalForm(a *arena.Arena, x value.Value, env value.Ref) (value.Value, error) {
	ref := x.Ref
	if arraycell.Len(a, ref) == 0 {
		return x, nil
	}
	head := arraycell.Index(a, ref, 0)

	switch {
	case isHead(a, head, "quote"):
		return arraycell.Index(a, ref, 1), nil

	case isHead(a, head, "if"):
		test, err := Eval(a, arraycell.Index(a, ref, 1), env)
		if err != nil {
			return value.Nil, err
		}
		if Truthy(a, test) {
			return Eval(a, arraycell.Index(a, ref, 2), env)
		}
		return Eval(a, arraycell.Index(a, ref, 3), env)

	case isHead(a, head, "set!"):
		variable := arraycell.Index(a, ref, 1)
		v, err := Eval(a, arraycell.Index(a, ref, 2), env)
		if err != nil {
			return value.Nil, err
		}
		if err := symbol.EnvFindAndSet(a, env, variable, v); err != nil {
			return value.Nil, err
		}
		return value.Nil, nil

	case isHead(a, head, "define"):
		variable := arraycell.Index(a, ref, 1)
		v, err := Eval(a, arraycell.Index(a, ref, 2), env)
		if err != nil {
			return value.Nil, err
		}
		if err := symbol.EnvDefine(a, env, variable, v); err != nil {
			return value.Nil, err
		}
		return value.Nil, nil

	case isHead(a, head, "lambda"):
		return makeLambda(a, ref, env)

	case isHead(a, head, "begin"):
		return evalBegin(a, ref, env)

	default:
		return apply(a, ref, head, env)
	}
}

// makeLambda builds the three-element [params, body, captured-env] array
// the evaluator uses to represent a closure; it is an ordinary array cell,
// not a distinct tag, so the usual Push retains keep its pieces alive.
func makeLambda(a *arena.Arena, formRef value.Ref, env value.Ref) (value.Value, error) {
	params := arraycell.Index(a, formRef, 1)
	body := arraycell.Index(a, formRef, 2)

	out, err := arraycell.New(a)
	if err != nil {
		return value.Nil, err
	}
	if err := arraycell.Push(a, out, params); err != nil {
		return value.Nil, err
	}
	if err := arraycell.Push(a, out, body); err != nil {
		return value.Nil, err
	}
	if err := arraycell.Push(a, out, value.Hash(env)); err != nil {
		return value.Nil, err
	}
	return value.Array(out), nil
}

func evalBegin(a *arena.Arena, formRef value.Ref, env value.Ref) (value.Value, error) {
	result := value.Nil
	n := arraycell.Len(a, formRef)
	for i := 1; i < n; i++ {
		v, err := Eval(a, arraycell.Index(a, formRef, i), env)
		if err != nil {
			return value.Nil, err
		}
		result = v
	}
	return result, nil
}

func apply(a *arena.Arena, formRef value.Ref, head value.Value, env value.Ref) (value.Value, error) {
	args, err := arraycell.New(a)
	if err != nil {
		return value.Nil, err
	}
	n := arraycell.Len(a, formRef)
	for i := 1; i < n; i++ {
		v, err := Eval(a, arraycell.Index(a, formRef, i), env)
		if err != nil {
			return value.Nil, err
		}
		if err := arraycell.Push(a, args, v); err != nil {
			return value.Nil, err
		}
	}

	proc := symbol.EnvFind(a, env, head)
	switch proc.Tag {
	case value.TagCFunc:
		return cfunc.Call(a, proc.Ref, args)
	case value.TagArray:
		return applyLambda(a, proc.Ref, args)
	default:
		return value.Nil, unknownProc(a, head)
	}
}

// unknownProc names the offending symbol in the returned error, the way
// cl_eval interpolates cl_string_ptr(x0) into its "unknown procedure"
// message rather than signalling a bare sentinel.
func unknownProc(a *arena.Arena, head value.Value) error {
	if head.Tag == value.TagSymbol {
		return fmt.Errorf("%w: %s", ErrUnknownProc, strcell.Bytes(a, head.Ref))
	}
	return ErrUnknownProc
}

func applyLambda(a *arena.Arena, lambdaRef value.Ref, args value.Ref) (value.Value, error) {
	params := arraycell.Index(a, lambdaRef, 0)
	body := arraycell.Index(a, lambdaRef, 1)
	captured := arraycell.Index(a, lambdaRef, 2)

	if params.Tag != value.TagArray {
		return value.Nil, ErrNotCallable
	}
	if arraycell.Len(a, params.Ref) != arraycell.Len(a, args) {
		return value.Nil, ErrArityMismatch
	}

	callEnv, err := symbol.EnvNew(a, captured.Ref)
	if err != nil {
		return value.Nil, err
	}
	n := arraycell.Len(a, params.Ref)
	for i := 0; i < n; i++ {
		if err := symbol.EnvDefine(a, callEnv, arraycell.Index(a, params.Ref, i), arraycell.Index(a, args, i)); err != nil {
			return value.Nil, err
		}
	}
	return Eval(a, body, callEnv)
}
