// Package alloclog provides opt-in structured tracing of allocator events.
// It has no effect on interpreter semantics — only on optional diagnostic
// output — and is off by default.
package alloclog

import (
	"io"
	"log/slog"
	"os"

	"github.com/sck/clispy-go/internal/value"
)

// L is the package logger. It discards everything unless EnableEnv is set
// when the package initialises.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// EnableEnv is the environment variable that switches tracing on, mirroring
// the teacher's HIVE_LOG_ALLOC-gated logAlloc bool in fastalloc.go,
// generalised to a real logger so levels and structured fields are
// available rather than a single printf call site.
const EnableEnv = "CLISPY_LOG_ALLOC"

func init() {
	if os.Getenv(EnableEnv) != "" {
		L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Alloc records a cell handed out by the arena.
func Alloc(ref value.Ref, tag value.Tag) {
	L.Debug("alloc", "ref", ref, "tag", tag.String())
}

// Free records a cell returned to the free list via rc.Delete.
func Free(ref value.Ref, tag value.Tag) {
	L.Debug("free", "ref", ref, "tag", tag.String())
}

// Sweep records one sweep pass and how many cells it reclaimed.
func Sweep(reclaimed int) {
	L.Debug("sweep", "reclaimed", reclaimed)
}
