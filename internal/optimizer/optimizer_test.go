package optimizer

import (
	"testing"

	"tapeforge/internal/errors"
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
)

func kinds(stream opcode.Stream) []opcode.Kind {
	out := make([]opcode.Kind, len(stream))
	for i, op := range stream {
		out[i] = op.Kind
	}
	return out
}

func sameKinds(t *testing.T, got opcode.Stream, want ...opcode.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("got %v, want %v", gk, want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("got %v, want %v", gk, want)
		}
	}
}

func TestOptimizeClearCellTriple(t *testing.T) {
	stream, err := Optimize(lexer.Scan("[-]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameKinds(t, stream, opcode.ClearCell)
}

func TestOptimizeClearCellAbsorbsSurroundingLoops(t *testing.T) {
	stream, err := Optimize(lexer.Scan("[[[++]]]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameKinds(t, stream, opcode.ClearCell)
}

func TestOptimizeAddTo(t *testing.T) {
	stream, err := Optimize(lexer.Scan("[->>+<<]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameKinds(t, stream, opcode.AddTo)
	if stream[0].A != 2 {
		t.Errorf("AddTo offset = %d, want 2", stream[0].A)
	}
}

func TestOptimizeAddToCopy(t *testing.T) {
	stream, err := Optimize(lexer.Scan("[->>+>+<<<]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameKinds(t, stream, opcode.AddToCopy)
	if stream[0].A != 2 || stream[0].B != 3 {
		t.Errorf("AddToCopy offsets = (%d,%d), want (2,3)", stream[0].A, stream[0].B)
	}
}

func TestOptimizeUnmatchedClose(t *testing.T) {
	_, err := Optimize(lexer.Scan("]"))
	if err == nil {
		t.Fatal("expected an error")
	}
	te, ok := err.(*errors.TapeError)
	if !ok {
		t.Fatalf("expected *errors.TapeError, got %T", err)
	}
	if te.Kind != errors.UnmatchedClose || te.Location.Line != 1 || te.Location.Column != 1 {
		t.Errorf("got %+v, want UnmatchedClose at 1:1", te)
	}
}

func TestOptimizeUnmatchedOpen(t *testing.T) {
	_, err := Optimize(lexer.Scan("[+"))
	if err == nil {
		t.Fatal("expected an error")
	}
	te, ok := err.(*errors.TapeError)
	if !ok || te.Kind != errors.UnmatchedOpen {
		t.Fatalf("got %+v, want UnmatchedOpen", err)
	}
}

func TestOptimizeMergeAndJumpResolution(t *testing.T) {
	// ++[>++<,.-] exercises Add/Move merging, a non-idiom loop body that
	// survives intact, and symmetric jump distances on its brackets.
	stream, err := Optimize(lexer.Scan("++[>++<,.-]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameKinds(t, stream,
		opcode.Add, opcode.OpenBr, opcode.Move, opcode.Add, opcode.Move,
		opcode.Input, opcode.Output, opcode.Add, opcode.CloseBr,
	)
	if stream[0].N != 2 {
		t.Errorf("leading Add = %d, want 2", stream[0].N)
	}
	open, close := stream[1], stream[len(stream)-1]
	if open.A != close.A {
		t.Errorf("jump distances not symmetric: open %d close %d", open.A, close.A)
	}
}

func TestOptimizeZeroSumRunDisappears(t *testing.T) {
	stream, err := Optimize(lexer.Scan("+-"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stream) != 0 {
		t.Errorf("expected the zero-sum run to vanish, got %v", stream)
	}
}

func TestMergeAdjacentIsIdempotent(t *testing.T) {
	tokens := lexer.Scan("+++---<<<>[.]")
	once := mergeAdjacent(tokens)
	twice := mergeAdjacent(once)
	if len(once) != len(twice) {
		t.Fatalf("merge is not idempotent: %d ops then %d ops", len(once), len(twice))
	}
	for i := range once {
		if once[i].Op != twice[i].Op {
			t.Fatalf("merge is not idempotent at %d: %+v vs %+v", i, once[i].Op, twice[i].Op)
		}
	}
}

func TestAddToRequiresExactStepSequenceAndReturn(t *testing.T) {
	// Same shape but the pointer doesn't return to its start: must be left
	// untouched, not misrecognized.
	stream, err := Optimize(lexer.Scan("[->>+<]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, op := range stream {
		if op.Kind == opcode.AddTo || op.Kind == opcode.AddToCopy {
			t.Fatalf("unbalanced loop was misrecognized as %v", op.Kind)
		}
	}
}
