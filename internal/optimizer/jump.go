package optimizer

import "tapeforge/internal/opcode"

// resolveJumps is a left-to-right scan with a stack of open-bracket
// indices. At each CloseBr it pops the matching OpenBr index and writes
// the symmetric jump distance into both. Brackets are guaranteed properly
// nested by this point; the validator already ran.
func resolveJumps(ops []opcode.Op) opcode.Stream {
	var stack []int
	for i, op := range ops {
		switch op.Kind {
		case opcode.OpenBr:
			stack = append(stack, i)
		case opcode.CloseBr:
			openIdx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			dist := uint32(i - openIdx)
			ops[openIdx].A = dist
			ops[i].A = dist
		}
	}
	return opcode.Stream(ops)
}
