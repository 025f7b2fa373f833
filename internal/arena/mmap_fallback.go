//go:build !unix

// Package arena is documented in arena.go.
package arena

// mmapRegion falls back to a plain heap allocation on platforms without an
// anonymous mmap syscall. The whole region is committed up front there.
func mmapRegion(size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}
