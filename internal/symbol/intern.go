// Package symbol owns the process-wide symbol intern table and the
// environment chain built on the same hash-cell layout (a hash augmented
// with a parent reference). The intern table follows the teacher's
// hive/namecache shape — a package-level singleton behind a small exported
// API — but symbols are retained for the life of the process, so there is
// no LRU eviction to manage.
package symbol

import (
	"errors"

	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/hashcell"
	"github.com/sck/clispy-go/internal/rc"
	"github.com/sck/clispy-go/internal/strcell"
	"github.com/sck/clispy-go/internal/value"
)

// ErrNotInitialized is returned by Intern before Init has installed the
// process-wide table.
var ErrNotInitialized = errors.New("symbol: intern table not initialized")

var table = arena.NoRef

// Init installs the process-wide intern table as a fresh, parentless hash.
// Call once per arena, before any Intern call.
func Init(a *arena.Arena) error {
	ref, err := hashcell.New(a, arena.NoRef)
	if err != nil {
		return err
	}
	table = ref
	return nil
}

// Intern retags a candidate string cell to a symbol and canonicalizes it
// against the intern table: on a hit, the candidate is discarded and the
// existing canonical symbol is returned; on a miss, the candidate becomes
// the new canonical symbol, stored as both key and value so it is retained
// twice over — permanent, never a sweep-time rc-1 candidate.
func Intern(a *arena.Arena, content []byte) (value.Value, error) {
	if table == arena.NoRef {
		return value.Nil, ErrNotInitialized
	}
	candRef, err := strcell.New(a, content)
	if err != nil {
		return value.Nil, err
	}
	cand := value.String(candRef)

	if hit := hashcell.Get(a, table, cand); hit.Tag == value.TagSymbol {
		if err := rc.Delete(a, candRef); err != nil {
			return value.Nil, err
		}
		return hit, nil
	}

	a.Retag(candRef, value.TagSymbol)
	sym := value.Symbol(candRef)
	// Set retains sym twice over (once as key, once as value — they are
	// the same cell). Its allocation rc of 1 is never separately released,
	// so it settles at 3 and can never again reach the rc-1 sweep
	// condition: interned symbols are retained for the life of the table.
	if err := hashcell.Set(a, table, sym, sym); err != nil {
		return value.Nil, err
	}
	return sym, nil
}
