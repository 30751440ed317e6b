// Package optimizer runs the fixed-order peephole pipeline that turns a
// located primitive opcode stream into a finalized instruction stream:
// adjacency merging, bracket validation, the three loop-idiom rewrites,
// and jump resolution.
package optimizer

import (
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
)

// Optimize runs the full front-end pipeline over a located primitive
// stream straight from the lexer. It returns the first bracket error
// encountered, if any, and otherwise a finalized instruction stream ready
// for the interpreter or the JIT.
//
// The order is load-bearing: merging first maximizes how often the three
// recognizers match; validating before the rewrites guarantees they only
// ever see well-nested loops; resolving jump distances last is safe
// because every rewrite only ever consumes balanced bracket pairs.
func Optimize(tokens []lexer.Located) (opcode.Stream, error) {
	merged := mergeAdjacent(tokens)

	if err := validateBrackets(merged); err != nil {
		return nil, err
	}

	ops := stripLocations(merged)
	ops = clearCellPass(ops)
	ops = addToPass(ops)
	ops = addToCopyPass(ops)

	return resolveJumps(ops), nil
}

func stripLocations(tokens []lexer.Located) []opcode.Op {
	ops := make([]opcode.Op, len(tokens))
	for i, t := range tokens {
		ops[i] = t.Op
	}
	return ops
}
