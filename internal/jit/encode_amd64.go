//go:build amd64

package jit

import "tapeforge/internal/opcode"

const tapeSize = opcode.Tape

type pendingBracket struct {
	patchPos  int // offset of the OpenBr's forward jz displacement
	bodyStart int // byte offset the matching CloseBr jumps back to
}

// encode lowers a finalized instruction stream to a native amd64 function
// body with signature (tape_base *byte). readAddr and writeAddr are the
// addresses of the host I/O port's Input/Output callbacks.
func encode(stream opcode.Stream, readAddr, writeAddr uint64) ([]byte, bool) {
	a := &asm{}

	// Prologue: save every callee-saved register this function uses,
	// then load the tape base from the first argument (rdi) and zero the
	// index.
	a.push(rBX)
	a.push(rBase)
	a.push(rIndex)
	a.push(rTmp1)
	a.push(rTmp2)
	a.movRegReg64(rBase, rDI)
	a.xorReg64Self(rIndex)

	var stack []pendingBracket
	for _, op := range stream {
		switch op.Kind {
		case opcode.Add:
			a.loadByte(rAX, rBase, rIndex)
			a.addByteImm(rAX, op.N)
			a.storeByte(rAX, rBase, rIndex)

		case opcode.Move:
			a.wrapIndexInto(rIndex, rIndex, op.A)

		case opcode.Input:
			a.movRegImm64(r11, readAddr)
			a.callReg(r11)
			a.storeByte(rAX, rBase, rIndex)

		case opcode.Output:
			a.loadByte(rAX, rBase, rIndex)
			a.movzxByteToReg(rDI, rAX)
			a.movRegImm64(r11, writeAddr)
			a.callReg(r11)

		case opcode.OpenBr:
			a.loadByte(rAX, rBase, rIndex)
			a.testByteSelf(rAX)
			patchPos := a.jz32()
			stack = append(stack, pendingBracket{patchPos: patchPos, bodyStart: len(a.code)})

		case opcode.CloseBr:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a.loadByte(rAX, rBase, rIndex)
			a.testByteSelf(rAX)
			a.jnz32(top.bodyStart)
			a.patch32(top.patchPos)

		case opcode.ClearCell:
			a.storeByteImm(rBase, rIndex, 0)

		case opcode.AddTo:
			a.loadByte(rDX, rBase, rIndex)
			a.wrapIndexInto(rTmp1, rIndex, op.A)
			a.loadByte(rBX, rBase, rTmp1)
			a.addByteReg(rBX, rDX)
			a.storeByte(rBX, rBase, rTmp1)
			a.storeByteImm(rBase, rIndex, 0)

		case opcode.AddToCopy:
			a.loadByte(rDX, rBase, rIndex)
			a.wrapIndexInto(rTmp1, rIndex, op.A)
			a.loadByte(rBX, rBase, rTmp1)
			a.addByteReg(rBX, rDX)
			a.storeByte(rBX, rBase, rTmp1)

			a.wrapIndexInto(rTmp2, rIndex, op.B)
			a.loadByte(rBX, rBase, rTmp2)
			a.addByteReg(rBX, rDX)
			a.storeByte(rBX, rBase, rTmp2)

			a.storeByteImm(rBase, rIndex, 0)
		}
	}

	a.pop(rTmp2)
	a.pop(rTmp1)
	a.pop(rIndex)
	a.pop(rBase)
	a.pop(rBX)
	a.ret()

	return a.code, true
}
