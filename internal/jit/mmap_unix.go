//go:build unix

package jit

import "golang.org/x/sys/unix"

// allocExecutable copies code into a fresh anonymous mapping and
// transitions it from writable to executable.
func allocExecutable(code []byte) ([]byte, error) {
	page := unix.Getpagesize()
	size := (len(code) + page - 1) &^ (page - 1)
	if size == 0 {
		size = page
	}

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	return mem, nil
}

func releaseExecutable(mem []byte) error {
	return unix.Munmap(mem)
}
