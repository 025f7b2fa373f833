//go:build unix

package arena

import "syscall"

// mmapRegion reserves size bytes of anonymous, zero-filled memory. Pages are
// only physically committed when first touched, the same trick the teacher's
// internal/mmfile uses for file-backed mappings and the C original uses via
// mmap(MAP_ANON) for the interpreter's arena.
func mmapRegion(size int) ([]byte, func() error, error) {
	data, err := syscall.Mmap(-1, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	unmap := func() error {
		if data == nil {
			return nil
		}
		return syscall.Munmap(data)
	}
	return data, unmap, nil
}
