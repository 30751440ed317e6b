//go:build amd64

package jit

import "encoding/binary"

// Fixed register assignment for the whole compiled function. Only rBase
// and rIndex carry meaning across opcodes; every other register here is
// scratch used transiently within a single opcode's lowering.
const (
	rAX = 0
	rCX = 1
	rDX = 2
	rBX = 3
	rDI = 7
	r11 = 11
	rBase  = 12 // r12: tape base pointer, loaded once from the entry argument
	rIndex = 13 // r13: tape-relative index (the data pointer)
	rTmp1  = 14 // r14: scratch wrapped-index register for AddTo/AddToCopy's first offset
	rTmp2  = 15 // r15: scratch wrapped-index register for AddToCopy's second offset
)

// asm is a minimal amd64 encoder: just the instruction forms the JIT's
// fixed lowering needs, named after their assembly mnemonic.
type asm struct {
	code []byte
}

func hi(reg int) byte {
	if reg >= 8 {
		return 1
	}
	return 0
}

func lo(reg int) byte { return byte(reg & 7) }

func rex(w, r, x, b byte) byte { return 0x40 | w<<3 | r<<2 | x<<1 | b }

func modrm(mod, reg, rm byte) byte { return mod<<6 | (reg&7)<<3 | (rm & 7) }

func sib(scale, index, base byte) byte { return scale<<6 | (index&7)<<3 | (base & 7) }

func (a *asm) emit(b ...byte) { a.code = append(a.code, b...) }

func (a *asm) imm32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	a.code = append(a.code, buf[:]...)
}

func (a *asm) imm64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	a.code = append(a.code, buf[:]...)
}

// loadByte: mov dst8, byte [base + index]
func (a *asm) loadByte(dst8, base, index int) {
	a.emit(rex(0, hi(dst8), hi(index), hi(base)), 0x8A, modrm(0, lo(dst8), 4), sib(0, lo(index), lo(base)))
}

// storeByte: mov byte [base + index], src8
func (a *asm) storeByte(src8, base, index int) {
	a.emit(rex(0, hi(src8), hi(index), hi(base)), 0x88, modrm(0, lo(src8), 4), sib(0, lo(index), lo(base)))
}

// storeByteImm: mov byte [base + index], imm8
func (a *asm) storeByteImm(base, index int, imm byte) {
	a.emit(rex(0, 0, hi(index), hi(base)), 0xC6, modrm(0, 0, 4), sib(0, lo(index), lo(base)), imm)
}

// addByteImm: add reg8, imm8
func (a *asm) addByteImm(reg8 int, imm byte) {
	if reg8 == rAX {
		a.emit(0x04, imm)
		return
	}
	a.emit(rex(0, 0, 0, hi(reg8)), 0x80, modrm(3, 0, lo(reg8)), imm)
}

// addByteReg: add dst8, src8  (dst += src)
func (a *asm) addByteReg(dst8, src8 int) {
	a.emit(rex(0, hi(src8), 0, hi(dst8)), 0x00, modrm(3, lo(src8), lo(dst8)))
}

// testByteSelf: test reg8, reg8 (sets ZF from reg's value)
func (a *asm) testByteSelf(reg8 int) {
	a.emit(rex(0, hi(reg8), 0, hi(reg8)), 0x84, modrm(3, lo(reg8), lo(reg8)))
}

// movRegImm64: mov reg64, imm64
func (a *asm) movRegImm64(reg int, v uint64) {
	a.emit(rex(1, 0, 0, hi(reg)), 0xB8+lo(reg))
	a.imm64(v)
}

// xorReg64Self: xor reg64, reg64 (zeroes reg)
func (a *asm) xorReg64Self(reg int) {
	a.emit(rex(1, hi(reg), 0, hi(reg)), 0x31, modrm(3, lo(reg), lo(reg)))
}

// movRegReg64: mov dst64, src64
func (a *asm) movRegReg64(dst, src int) {
	a.emit(rex(1, hi(src), 0, hi(dst)), 0x89, modrm(3, lo(src), lo(dst)))
}

// addRegImm32: add reg64, imm32
func (a *asm) addRegImm32(reg int, v uint32) {
	a.emit(rex(1, 0, 0, hi(reg)), 0x81, modrm(3, 0, lo(reg)))
	a.imm32(v)
}

// subRegImm32: sub reg64, imm32
func (a *asm) subRegImm32(reg int, v uint32) {
	a.emit(rex(1, 0, 0, hi(reg)), 0x81, modrm(3, 5, lo(reg)))
	a.imm32(v)
}

// cmpRegImm32: cmp reg64, imm32
func (a *asm) cmpRegImm32(reg int, v uint32) {
	a.emit(rex(1, 0, 0, hi(reg)), 0x81, modrm(3, 7, lo(reg)))
	a.imm32(v)
}

// cmovaeRegReg: cmovae dst64, src64, a branchless select used instead of
// a conditional jump around Move's wraparound.
func (a *asm) cmovaeRegReg(dst, src int) {
	a.emit(rex(1, hi(dst), 0, hi(src)), 0x0F, 0x43, modrm(3, lo(dst), lo(src)))
}

// movzxByteToReg: movzx dst64, src8
func (a *asm) movzxByteToReg(dst, src8 int) {
	a.emit(rex(1, hi(dst), 0, hi(src8)), 0x0F, 0xB6, modrm(3, lo(dst), lo(src8)))
}

// callReg: call reg64 (indirect call, used for the Input/Output host callbacks)
func (a *asm) callReg(reg int) {
	if hi(reg) == 1 {
		a.emit(rex(0, 0, 0, 1))
	}
	a.emit(0xFF, modrm(3, 2, lo(reg)))
}

func (a *asm) push(reg int) {
	if hi(reg) == 1 {
		a.emit(rex(0, 0, 0, 1))
	}
	a.emit(0x50 + lo(reg))
}

func (a *asm) pop(reg int) {
	if hi(reg) == 1 {
		a.emit(rex(0, 0, 0, 1))
	}
	a.emit(0x58 + lo(reg))
}

func (a *asm) ret() { a.emit(0xC3) }

// jz32 emits `jz rel32` with a zero placeholder and returns the offset of
// the 4-byte displacement, to be filled in later by patch32 once the
// target address ("after" the matching loop) is known.
func (a *asm) jz32() int {
	a.emit(0x0F, 0x84, 0, 0, 0, 0)
	return len(a.code) - 4
}

// jnz32 emits `jnz rel32` to a target that is already known (the loop
// body start recorded when its OpenBr was lowered).
func (a *asm) jnz32(target int) {
	a.emit(0x0F, 0x85, 0, 0, 0, 0)
	rel := int32(target - len(a.code))
	binary.LittleEndian.PutUint32(a.code[len(a.code)-4:], uint32(rel))
}

// patch32 fills in a pending jz32's displacement now that the jump target
// (the current end of the buffer) is known.
func (a *asm) patch32(pos int) {
	rel := int32(len(a.code) - (pos + 4))
	binary.LittleEndian.PutUint32(a.code[pos:pos+4], uint32(rel))
}

// wrapIndexInto computes dst = (src + delta) mod Tape using a compare and
// a conditional move rather than a branch, keeping each Move a
// straight-line instruction sequence. It clobbers rax and rcx.
func (a *asm) wrapIndexInto(dst, src int, delta uint32) {
	a.movRegReg64(rAX, src)
	a.addRegImm32(rAX, delta)
	a.movRegReg64(rCX, rAX)
	a.subRegImm32(rCX, tapeSize)
	a.cmpRegImm32(rAX, tapeSize)
	a.cmovaeRegReg(rAX, rCX)
	a.movRegReg64(dst, rAX)
}
