//go:build !unix

package jit

import "tapeforge/internal/errors"

// allocExecutable has no backend outside the unix GOOS family: there is
// no portable executable-memory mapping underneath golang.org/x/sys on
// other hosts, so compilation reports unsupported rather than failing the
// build.
func allocExecutable(code []byte) ([]byte, error) {
	return nil, errors.NewUnsupportedPlatformJIT()
}

func releaseExecutable(mem []byte) error {
	return nil
}
