package arena

import "errors"

var (
	// ErrNoSpace indicates the free-chunk list is empty or exhausted.
	ErrNoSpace = errors.New("arena: out of memory")

	// ErrBadRef indicates a Ref outside the arena's slot range.
	ErrBadRef = errors.New("arena: bad cell reference")
)
