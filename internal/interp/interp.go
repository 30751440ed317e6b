// Package interp is the portable, byte-wise execution engine: a
// fetch-dispatch loop over a finalized instruction stream and a fixed
// 30,000-byte tape with a wrap-around pointer.
package interp

import (
	"tapeforge/internal/ioport"
	"tapeforge/internal/opcode"
)

// Machine owns one tape for the duration of one execution.
type Machine struct {
	tape    [opcode.Tape]byte
	dataPtr int
}

// NewMachine returns a Machine with a zeroed tape and the data pointer
// reset to the start.
func NewMachine() *Machine {
	return &Machine{}
}

// Run executes stream against the machine's tape through port, advancing
// ins_ptr by one after every dispatched instruction and terminating when
// ins_ptr reaches the end of the stream.
func (m *Machine) Run(stream opcode.Stream, port *ioport.Port) {
	insPtr := 0
	for insPtr < len(stream) {
		op := stream[insPtr]
		switch op.Kind {
		case opcode.Add:
			m.tape[m.dataPtr] += op.N
		case opcode.Move:
			m.dataPtr += int(op.A)
			if m.dataPtr >= opcode.Tape {
				m.dataPtr -= opcode.Tape
			}
		case opcode.Input:
			m.tape[m.dataPtr] = port.Read()
		case opcode.Output:
			port.Write(m.tape[m.dataPtr])
		case opcode.OpenBr:
			if m.tape[m.dataPtr] == 0 {
				insPtr += int(op.A)
			}
		case opcode.CloseBr:
			if m.tape[m.dataPtr] != 0 {
				insPtr -= int(op.A)
			}
		case opcode.ClearCell:
			m.tape[m.dataPtr] = 0
		case opcode.AddTo:
			dst := m.wrapped(m.dataPtr, op.A)
			m.tape[dst] += m.tape[m.dataPtr]
			m.tape[m.dataPtr] = 0
		case opcode.AddToCopy:
			cell := m.tape[m.dataPtr]
			dst1 := m.wrapped(m.dataPtr, op.A)
			dst2 := m.wrapped(m.dataPtr, op.B)
			m.tape[dst1] += cell
			m.tape[dst2] += cell
			m.tape[m.dataPtr] = 0
		}
		insPtr++
	}
	port.Flush()
}

func (m *Machine) wrapped(base int, offset uint32) int {
	idx := base + int(offset)
	if idx >= opcode.Tape {
		idx -= opcode.Tape
	}
	return idx
}

// Tape exposes the final tape contents, for tests that check the
// interpreter-JIT equivalence property against the raw cell array.
func (m *Machine) Tape() [opcode.Tape]byte {
	return m.tape
}

// DataPtr exposes the final data pointer, for tests.
func (m *Machine) DataPtr() int {
	return m.dataPtr
}
