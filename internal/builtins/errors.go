package builtins

import "errors"

// ErrNotNumber indicates a primitive expected an int or float argument and
// got something it cannot coerce toward either.
var ErrNotNumber = errors.New("builtins: argument is not a number")

// ErrDivByZero indicates integer division by zero. Float division by zero
// is left to produce Go's signed-infinity/NaN result rather than erroring.
var ErrDivByZero = errors.New("builtins: division by zero")

// ErrNotArray indicates a primitive expected an array argument (cons, car,
// cdr) and got a value tagged something else.
var ErrNotArray = errors.New("builtins: argument is not an array")
