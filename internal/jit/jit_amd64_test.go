//go:build amd64

package jit

import (
	"bytes"
	"strings"
	"testing"

	"tapeforge/internal/interp"
	"tapeforge/internal/ioport"
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
	"tapeforge/internal/optimizer"
)

// compareEngines runs source through both execution engines and asserts
// they produce the same output and final tape contents.
func compareEngines(t *testing.T, source, stdin string) {
	t.Helper()
	stream, err := optimizer.Optimize(lexer.Scan(source))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	var interpOut bytes.Buffer
	interpPort := ioport.NewWith(strings.NewReader(stdin), &interpOut, &bytes.Buffer{})
	m := interp.NewMachine()
	m.Run(stream, interpPort)

	var jitOut bytes.Buffer
	jitPort := ioport.NewWith(strings.NewReader(stdin), &jitOut, &bytes.Buffer{})
	program, err := Compile(stream, jitPort, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer program.Release()

	var tape [opcode.Tape]byte
	program.Run(&tape)
	jitPort.Flush()

	if interpOut.String() != jitOut.String() {
		t.Errorf("output mismatch: interp %q, jit %q", interpOut.String(), jitOut.String())
	}
	if tape != m.Tape() {
		t.Error("final tape contents differ between the interpreter and the JIT")
	}
}

func TestJITMatchesInterpreterOnClearCell(t *testing.T) {
	compareEngines(t, "+++++[-]", "")
}

func TestJITMatchesInterpreterOnAddTo(t *testing.T) {
	compareEngines(t, "+++[->>+<<]", "")
}

func TestJITMatchesInterpreterOnAddToCopy(t *testing.T) {
	compareEngines(t, "+++++[->>+>+<<<]", "")
}

func TestJITMatchesInterpreterOnEcho(t *testing.T) {
	compareEngines(t, ",.,.,.", "abc")
}

func TestJITMatchesInterpreterOnNestedLoops(t *testing.T) {
	compareEngines(t, "++[>++[>+<-]<-]>>.", "")
}

func TestJITReleaseIsIdempotent(t *testing.T) {
	stream, err := optimizer.Optimize(lexer.Scan("+."))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	port := ioport.NewWith(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	program, err := Compile(stream, port, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := program.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := program.Release(); err != nil {
		t.Fatalf("second release should be a no-op, got: %v", err)
	}
}
