// Package opcode defines the shared instruction vocabulary used by the
// front end, the interpreter and the JIT compiler.
package opcode

// Tape is the fixed size of the data tape. Every Move payload and every
// data pointer value is taken modulo Tape.
const Tape = 30_000

// Kind tags the variant carried by an Op.
type Kind byte

const (
	Add Kind = iota
	Move
	Input
	Output
	OpenBr
	CloseBr
	ClearCell
	AddTo
	AddToCopy
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "Add"
	case Move:
		return "Move"
	case Input:
		return "Input"
	case Output:
		return "Output"
	case OpenBr:
		return "OpenBr"
	case CloseBr:
		return "CloseBr"
	case ClearCell:
		return "ClearCell"
	case AddTo:
		return "AddTo"
	case AddToCopy:
		return "AddToCopy"
	default:
		return "Unknown"
	}
}

// Op is a single instruction. The payload fields are interpreted according
// to Kind:
//
//	Add        -> N (byte added mod 256)
//	Move       -> A (cells advanced mod Tape)
//	OpenBr     -> A (jump distance, set by the jump resolver)
//	CloseBr    -> A (jump distance, same value as its matching OpenBr)
//	ClearCell  -> unused
//	AddTo      -> A (offset of the destination cell)
//	AddToCopy  -> A, B (offsets of the two destination cells)
type Op struct {
	Kind Kind
	N    byte
	A    uint32
	B    uint32
}

// Stream is an ordered, front-end-immutable instruction sequence.
type Stream []Op

func (s Stream) String() string {
	out := make([]byte, 0, len(s)*8)
	for _, op := range s {
		out = append(out, op.Kind.String()...)
		switch op.Kind {
		case Add:
			out = append(out, '(')
			out = appendInt(out, int(op.N))
			out = append(out, ')')
		case Move, OpenBr, CloseBr, AddTo:
			out = append(out, '(')
			out = appendInt(out, int(op.A))
			out = append(out, ')')
		case AddToCopy:
			out = append(out, '(')
			out = appendInt(out, int(op.A))
			out = append(out, ',')
			out = appendInt(out, int(op.B))
			out = append(out, ')')
		}
		out = append(out, '\n')
	}
	return string(out)
}

func appendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	start := len(dst)
	for n > 0 {
		dst = append(dst, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}
