package symbol

import (
	"github.com/sck/clispy-go/internal/arena"
	"github.com/sck/clispy-go/internal/hashcell"
	"github.com/sck/clispy-go/internal/value"
)

// EnvNew allocates a new environment frame: a hash cell whose parent field
// is the enclosing frame (arena.NoRef for the global frame).
func EnvNew(a *arena.Arena, parent value.Ref) (value.Ref, error) {
	return hashcell.New(a, parent)
}

// EnvFind walks the parent chain looking for key, returning the first
// binding found or Nil once the chain is exhausted. Per the evaluator's
// lookup rule, a binding explicitly set to nil is indistinguishable from no
// binding at all — both simply continue the walk outward.
func EnvFind(a *arena.Arena, env value.Ref, key value.Value) value.Value {
	for cur := env; cur != arena.NoRef; cur = hashcell.Parent(a, cur) {
		if v := hashcell.Get(a, cur, key); !v.IsNil() {
			return v
		}
	}
	return value.Nil
}

// EnvFindAndSet implements set!: it writes into the first frame (walking
// outward from env) that already binds key, or into the root frame if no
// frame does.
func EnvFindAndSet(a *arena.Arena, env value.Ref, key, val value.Value) error {
	root := env
	for cur := env; cur != arena.NoRef; cur = hashcell.Parent(a, cur) {
		if !hashcell.Get(a, cur, key).IsNil() {
			return hashcell.Set(a, cur, key, val)
		}
		root = cur
	}
	return hashcell.Set(a, root, key, val)
}

// EnvDefine binds key to val in env's own frame, unconditionally — the
// define special form never searches outward.
func EnvDefine(a *arena.Arena, env value.Ref, key, val value.Value) error {
	return hashcell.Set(a, env, key, val)
}
