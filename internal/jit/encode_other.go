//go:build !amd64

package jit

import "tapeforge/internal/opcode"

// encode has no backend outside amd64; every other host ISA reports
// unsupported rather than guessing at an encoding.
func encode(stream opcode.Stream, readAddr, writeAddr uint64) ([]byte, bool) {
	return nil, false
}
