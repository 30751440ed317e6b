// Package ioport implements the single-byte read/write ABI shared by the
// interpreter and the JIT compiler: carriage-return filtering on input,
// EOF-to-zero, and high-bit suppression on output.
package ioport

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"tapeforge/internal/errors"
)

// Port is the byte-wise standard-stream pair both execution engines read
// and write through. It is not safe for concurrent use; only one
// execution owns stdio at a time.
type Port struct {
	in     *bufio.Reader
	out    *bufio.Writer
	errOut io.Writer
}

// New builds a Port over the process's standard streams.
func New() *Port {
	return &Port{
		in:     bufio.NewReader(os.Stdin),
		out:    bufio.NewWriter(os.Stdout),
		errOut: os.Stderr,
	}
}

// NewWith builds a Port over caller-supplied streams, for tests.
func NewWith(in io.Reader, out io.Writer, errOut io.Writer) *Port {
	return &Port{
		in:     bufio.NewReader(in),
		out:    bufio.NewWriter(out),
		errOut: errOut,
	}
}

// Read flushes pending output, then returns one byte from the input
// stream. Carriage returns are discarded and the read retried. EOF and any
// other read failure both degrade to a zero byte so execution continues
// deterministically; a non-EOF failure is also logged to stderr.
func (p *Port) Read() byte {
	p.Flush()
	for {
		b, err := p.in.ReadByte()
		if err != nil {
			if err != io.EOF {
				wrapped := errors.Wrap(err, "ioport: read failed")
				fmt.Fprintln(p.errOut, wrapped)
			}
			return 0
		}
		if b == '\r' {
			continue
		}
		return b
	}
}

// Write emits b to the output stream, but only if b is within the
// language's 7-bit ASCII contract; bytes with the high bit set are
// dropped silently.
func (p *Port) Write(b byte) {
	if b <= 127 {
		p.out.WriteByte(b)
	}
}

// Flush pushes any buffered output out before a blocking read, so a
// program's prompt is visible before it waits on input.
func (p *Port) Flush() {
	p.out.Flush()
}
