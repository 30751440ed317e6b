package interp

import (
	"bytes"
	"strings"
	"testing"

	"tapeforge/internal/ioport"
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
	"tapeforge/internal/optimizer"
)

func run(t *testing.T, source, stdin string) (tape [opcode.Tape]byte, dataPtr int, stdout string) {
	t.Helper()
	stream, err := optimizer.Optimize(lexer.Scan(source))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	var out bytes.Buffer
	port := ioport.NewWith(strings.NewReader(stdin), &out, &bytes.Buffer{})
	m := NewMachine()
	m.Run(stream, port)
	return m.Tape(), m.DataPtr(), out.String()
}

func TestRunClearCell(t *testing.T) {
	stream, err := optimizer.Optimize(lexer.Scan("+++++[-]"))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	var out bytes.Buffer
	port := ioport.NewWith(strings.NewReader(""), &out, &bytes.Buffer{})
	m := NewMachine()
	m.Run(stream, port)
	if m.Tape()[0] != 0 {
		t.Errorf("cell 0 = %d, want 0", m.Tape()[0])
	}
}

func TestRunAddTo(t *testing.T) {
	tape, _, _ := run(t, "+++[->>+<<]", "")
	if tape[0] != 0 || tape[2] != 3 {
		t.Errorf("tape[0]=%d tape[2]=%d, want 0 and 3", tape[0], tape[2])
	}
}

func TestRunAddToCopy(t *testing.T) {
	tape, _, _ := run(t, "+++++[->>+>+<<<]", "")
	if tape[0] != 0 || tape[2] != 5 || tape[3] != 5 {
		t.Errorf("tape[0]=%d tape[2]=%d tape[3]=%d, want 0,5,5", tape[0], tape[2], tape[3])
	}
}

func TestRunEchoesInput(t *testing.T) {
	_, _, stdout := run(t, ",.", "A")
	if stdout != "A" {
		t.Errorf("stdout = %q, want %q", stdout, "A")
	}
}

func TestRunMovePointerWraps(t *testing.T) {
	_, dataPtr, _ := run(t, "<", "")
	if dataPtr != opcode.Tape-1 {
		t.Errorf("dataPtr = %d, want %d", dataPtr, opcode.Tape-1)
	}
}

func TestRunAddWraps256(t *testing.T) {
	source := strings.Repeat("+", 257)
	tape, _, _ := run(t, source, "")
	if tape[0] != 1 {
		t.Errorf("tape[0] = %d, want 1 (257 mod 256)", tape[0])
	}
}
