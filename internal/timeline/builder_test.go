package timeline

import (
	"errors"
	"testing"
)

const annotatedPGN = `[Event "Casual Game"]
[Site "?"]
[White "Mikyung"]
[Black "Juno"]
[Result "1-0"]

1. e4 {the classic} e5 2. Qh5?! $2 Nc6 (2... g6 3. Qxe5+ {wins a pawn})
3. Bc4 Nf6?? 4. Qxf7# 1-0`

func TestBuildStripsAnnotations(t *testing.T) {
	game, err := Build(annotatedPGN)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if game.TotalPlies() != 7 {
		t.Fatalf("plies = %d, want 7", game.TotalPlies())
	}

	first := game.MoveAt(1)
	if first.SAN != "e4" || first.UCI != "e2e4" {
		t.Fatalf("first move = %+v", first)
	}
	last := game.MoveAt(7)
	if last.SAN != "Qxf7#" {
		t.Fatalf("last move SAN = %q", last.SAN)
	}
	for _, mv := range game.Moves {
		if mv.FENAfter == "" {
			t.Fatalf("ply %d missing FEN", mv.Ply)
		}
		if mv.Classification != "" {
			t.Fatalf("ply %d pre-classified: %q", mv.Ply, mv.Classification)
		}
	}
}

func TestBuildPlainMovetext(t *testing.T) {
	game, err := Build("1. d4 d5 2. c4 e6")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if game.TotalPlies() != 4 {
		t.Fatalf("plies = %d, want 4", game.TotalPlies())
	}
	if mv := game.MoveAt(3); mv.SAN != "c4" || mv.Ply != 3 {
		t.Fatalf("ply 3 = %+v", mv)
	}
}

func TestBuildBlackContinuationNumbers(t *testing.T) {
	game, err := Build("1. e4 e5 2. Nf3 2... Nc6")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if game.TotalPlies() != 4 {
		t.Fatalf("plies = %d, want 4", game.TotalPlies())
	}
	if mv := game.MoveAt(4); mv.SAN != "Nc6" {
		t.Fatalf("ply 4 = %+v", mv)
	}
}

func TestBuildTruncatesOnIllegalMove(t *testing.T) {
	game, err := Build("1. e4 e5 2. Qh7 Nc6")
	if err != nil {
		t.Fatalf("truncation must not fail the build: %v", err)
	}
	if game.TotalPlies() != 2 {
		t.Fatalf("plies = %d, want 2 (truncated at the illegal move)", game.TotalPlies())
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	for _, in := range []string{"", "   \n  ", "{only a comment}", "1-0", `[Event "x"]`} {
		if _, err := Build(in); !errors.Is(err, ErrEmptyMovetext) {
			t.Fatalf("Build(%q) err = %v, want ErrEmptyMovetext", in, err)
		}
	}
}

func TestMoveAtBounds(t *testing.T) {
	game, err := Build("1. e4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if game.MoveAt(0) != nil {
		t.Fatalf("ply 0 is the start position, not a move")
	}
	if game.MoveAt(2) != nil {
		t.Fatalf("out-of-range ply must be nil")
	}
	if mv := game.MoveAt(1); mv == nil || mv.SAN != "e4" {
		t.Fatalf("ply 1 = %+v", mv)
	}
}
