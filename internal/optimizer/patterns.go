package optimizer

import (
	"golang.org/x/exp/slices"

	"tapeforge/internal/opcode"
)

// absorbSurroundingLoops implements the rule shared by all three loop-idiom
// rewrites below: an op that always zeros the current cell regardless of
// its starting value makes any loop wrapped tightly around it redundant,
// since the loop runs at most once. It repeatedly strips a
// directly-adjacent OpenBr/CloseBr pair,
// stopping at the stream boundary on either side, and returns the
// (possibly shrunk) stream along with the zeroing op's new index.
func absorbSurroundingLoops(ops []opcode.Op, i int) ([]opcode.Op, int) {
	for i-1 >= 0 && i+1 < len(ops) && ops[i-1].Kind == opcode.OpenBr && ops[i+1].Kind == opcode.CloseBr {
		ops = slices.Delete(ops, i+1, i+2) // drop the CloseBr
		ops = slices.Delete(ops, i-1, i)   // drop the OpenBr
		i--
	}
	return ops, i
}

// clearCellPass recognizes OpenBr,Add(*),CloseBr and replaces it with a
// single ClearCell, then absorbs any loops wrapped tightly around the
// result.
func clearCellPass(ops []opcode.Op) []opcode.Op {
	for {
		changed := false
		for i := 0; i+2 < len(ops); i++ {
			if ops[i].Kind != opcode.OpenBr || ops[i+1].Kind != opcode.Add || ops[i+2].Kind != opcode.CloseBr {
				continue
			}
			ops = slices.Delete(ops, i+1, i+3)
			ops[i] = opcode.Op{Kind: opcode.ClearCell}
			ops, _ = absorbSurroundingLoops(ops, i)
			changed = true
			break
		}
		if !changed {
			return ops
		}
	}
}

// addToPass recognizes OpenBr,Add(255),Move(m1),Add(1),Move(m2),CloseBr
// with (m1+m2) mod Tape == 0 and replaces it with AddTo(m1).
func addToPass(ops []opcode.Op) []opcode.Op {
	for {
		changed := false
		for i := 0; i+5 < len(ops); i++ {
			if !matchAddTo(ops[i : i+6]) {
				continue
			}
			m1 := ops[i+2].A
			ops = slices.Delete(ops, i+1, i+6)
			ops[i] = opcode.Op{Kind: opcode.AddTo, A: m1}
			ops, _ = absorbSurroundingLoops(ops, i)
			changed = true
			break
		}
		if !changed {
			return ops
		}
	}
}

func matchAddTo(w []opcode.Op) bool {
	if w[0].Kind != opcode.OpenBr || w[5].Kind != opcode.CloseBr {
		return false
	}
	if w[1].Kind != opcode.Add || w[1].N != 255 {
		return false
	}
	if w[2].Kind != opcode.Move || w[3].Kind != opcode.Add || w[3].N != 1 || w[4].Kind != opcode.Move {
		return false
	}
	return (w[2].A+w[4].A)%opcode.Tape == 0
}

// addToCopyPass recognizes
// OpenBr,Add(255),Move(m1),Add(1),Move(m2),Add(1),Move(m3),CloseBr with
// ((m1+m2) mod Tape + m3) mod Tape == 0 and replaces it with
// AddToCopy(m1, (m1+m2) mod Tape).
func addToCopyPass(ops []opcode.Op) []opcode.Op {
	for {
		changed := false
		for i := 0; i+7 < len(ops); i++ {
			d1, d2, ok := matchAddToCopy(ops[i : i+8])
			if !ok {
				continue
			}
			ops = slices.Delete(ops, i+1, i+8)
			ops[i] = opcode.Op{Kind: opcode.AddToCopy, A: d1, B: d2}
			ops, _ = absorbSurroundingLoops(ops, i)
			changed = true
			break
		}
		if !changed {
			return ops
		}
	}
}

func matchAddToCopy(w []opcode.Op) (d1, d2 uint32, ok bool) {
	if w[0].Kind != opcode.OpenBr || w[7].Kind != opcode.CloseBr {
		return 0, 0, false
	}
	if w[1].Kind != opcode.Add || w[1].N != 255 {
		return 0, 0, false
	}
	if w[2].Kind != opcode.Move || w[3].Kind != opcode.Add || w[3].N != 1 || w[4].Kind != opcode.Move {
		return 0, 0, false
	}
	if w[5].Kind != opcode.Add || w[5].N != 1 || w[6].Kind != opcode.Move {
		return 0, 0, false
	}
	m1, m2, m3 := w[2].A, w[4].A, w[6].A
	if ((m1+m2)%opcode.Tape+m3)%opcode.Tape != 0 {
		return 0, 0, false
	}
	return m1, (m1 + m2) % opcode.Tape, true
}
