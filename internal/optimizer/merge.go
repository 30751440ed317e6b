package optimizer

import (
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
)

// mergeAdjacent folds consecutive Add ops (mod 256) and consecutive Move
// ops (mod Tape) into one, dropping the result entirely when it sums to
// zero. Any other opcode breaks a run. The location kept for a merged run
// is the location of its first participant.
//
// Applying mergeAdjacent twice in a row is a no-op: after one pass no two
// adjacent ops share a foldable Kind, so a second pass finds nothing to
// fold.
func mergeAdjacent(in []lexer.Located) []lexer.Located {
	out := make([]lexer.Located, 0, len(in))
	for i := 0; i < len(in); {
		cur := in[i]
		switch cur.Op.Kind {
		case opcode.Add:
			sum := cur.Op.N
			if n := len(out); n > 0 && out[n-1].Op.Kind == opcode.Add {
				cur = out[n-1]
				sum += cur.Op.N
				out = out[:n-1]
			}
			j := i + 1
			for j < len(in) && in[j].Op.Kind == opcode.Add {
				sum += in[j].Op.N
				j++
			}
			if sum != 0 {
				out = append(out, lexer.Located{
					Op:     opcode.Op{Kind: opcode.Add, N: sum},
					Line:   cur.Line,
					Column: cur.Column,
				})
			}
			i = j
		case opcode.Move:
			sum := cur.Op.A
			if n := len(out); n > 0 && out[n-1].Op.Kind == opcode.Move {
				cur = out[n-1]
				sum = (sum + cur.Op.A) % opcode.Tape
				out = out[:n-1]
			}
			j := i + 1
			for j < len(in) && in[j].Op.Kind == opcode.Move {
				sum = (sum + in[j].Op.A) % opcode.Tape
				j++
			}
			if sum != 0 {
				out = append(out, lexer.Located{
					Op:     opcode.Op{Kind: opcode.Move, A: sum},
					Line:   cur.Line,
					Column: cur.Column,
				})
			}
			i = j
		default:
			out = append(out, cur)
			i++
		}
	}
	return out
}
