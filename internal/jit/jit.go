// Package jit is the second execution engine: it lowers a finalized
// instruction stream to a single native function over a caller-supplied
// tape, maps it executable, and runs it.
//
// The native function is invoked, and calls back into Go for Input and
// Output, through github.com/ebitengine/purego rather than cgo or a raw
// unsafe function pointer cast: Go's own calling convention is not the
// host C ABI, and purego bridges that mismatch in both directions.
// SyscallN invokes the mapped code using the platform C calling
// convention; NewCallback does the reverse for the Input/Output calls the
// compiled code makes back into the Go-side byte port.
package jit

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/ebitengine/purego"
	"github.com/google/uuid"

	"tapeforge/internal/errors"
	"tapeforge/internal/ioport"
	"tapeforge/internal/opcode"
)

// Program is a compiled, mapped, ready-to-run native routine. It owns the
// anonymous executable mapping for its whole compile-execute-release
// lifecycle.
type Program struct {
	mem       []byte
	entry     uintptr
	sessionID uuid.UUID
	size      int
}

// Compile lowers stream to native code for the host ISA and maps it
// executable. port supplies the Input/Output callbacks the compiled code
// calls back into. verbose, if non-nil, receives one diagnostic line per
// compilation. The only error this returns is errors.UnsupportedPlatformJIT
// (or a wrapped mmap/mprotect failure).
func Compile(stream opcode.Stream, port *ioport.Port, verbose io.Writer) (*Program, error) {
	sessionID := uuid.New()

	readCB := purego.NewCallback(func() uintptr {
		return uintptr(port.Read())
	})
	writeCB := purego.NewCallback(func(b uintptr) uintptr {
		port.Write(byte(b))
		return 0
	})

	code, ok := encode(stream, uint64(readCB), uint64(writeCB))
	if !ok {
		return nil, errors.NewUnsupportedPlatformJIT()
	}

	mem, err := allocExecutable(code)
	if err != nil {
		if te, ok := err.(*errors.TapeError); ok {
			return nil, te
		}
		return nil, errors.Wrap(err, "jit: failed to map executable memory")
	}

	if verbose != nil {
		fmt.Fprintf(verbose, "jit[%s]: compiled %s opcodes into %s of native code\n",
			sessionID, humanize.Comma(int64(len(stream))), humanize.Bytes(uint64(len(code))))
	}

	return &Program{
		mem:       mem,
		entry:     uintptr(unsafe.Pointer(&mem[0])),
		sessionID: sessionID,
		size:      len(code),
	}, nil
}

// Run invokes the compiled routine against tape, which the caller owns
// and allocates; the JIT never allocates the tape itself.
func (p *Program) Run(tape *[opcode.Tape]byte) {
	purego.SyscallN(p.entry, uintptr(unsafe.Pointer(&tape[0])))
}

// Release unmaps the executable region. The Program must not be used
// afterward.
func (p *Program) Release() error {
	if p.mem == nil {
		return nil
	}
	err := releaseExecutable(p.mem)
	p.mem = nil
	return err
}
