package optimizer

import (
	"tapeforge/internal/errors"
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
)

// validateBrackets is a linear scan with a stack of opener locations. It
// reports exactly the first problem it finds, either a close with nothing
// to match or an open left dangling at the end, and nothing past that,
// since the stack model can't speculatively keep going.
func validateBrackets(ops []lexer.Located) error {
	var stack []lexer.Located
	for _, tok := range ops {
		switch tok.Op.Kind {
		case opcode.OpenBr:
			stack = append(stack, tok)
		case opcode.CloseBr:
			if len(stack) == 0 {
				return errors.NewUnmatchedClose(tok.Line, tok.Column)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return errors.NewUnmatchedOpen(top.Line, top.Column)
	}
	return nil
}
