package analysis

import "testing"

func TestBuildSummaryCounts(t *testing.T) {
	evals := []Evaluation{
		{Ply: 1, MoveNumber: 1, Move: "e4", EvalCP: intPtr(30), Classification: ClassBook},
		{Ply: 2, MoveNumber: 1, Move: "e5", EvalCP: intPtr(20), Classification: ClassBook},
		{Ply: 21, MoveNumber: 11, Move: "Nf3", EvalCP: intPtr(10), Classification: ClassBest},
		{Ply: 22, MoveNumber: 11, Move: "h6", EvalCP: intPtr(90), Classification: ClassInaccuracy},
		{Ply: 23, MoveNumber: 12, Move: "Bc4", EvalCP: intPtr(-30), Classification: ClassMistake},
		{Ply: 24, MoveNumber: 12, Move: "b5", EvalCP: intPtr(280), Classification: ClassBlunder},
	}

	sum := BuildSummary(evals)
	if sum.TotalMoves != 6 || sum.Blunders != 1 || sum.Mistakes != 1 || sum.Inaccuracies != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.AvgBlunderCP != 310 {
		t.Fatalf("avg blunder cp = %v, want 310", sum.AvgBlunderCP)
	}
	if len(sum.CriticalMoves) != 2 {
		t.Fatalf("critical moves = %d, want 2", len(sum.CriticalMoves))
	}
	// Sorted by loss, largest first: the blunder (310) before the mistake (120).
	if sum.CriticalMoves[0].Played != "b5" || sum.CriticalMoves[0].CPLoss != 310 {
		t.Fatalf("top critical move = %+v", sum.CriticalMoves[0])
	}
	if sum.CriticalMoves[1].Played != "Bc4" || sum.CriticalMoves[1].CPLoss != 120 {
		t.Fatalf("second critical move = %+v", sum.CriticalMoves[1])
	}
}

func TestBuildSummaryPrecision(t *testing.T) {
	evals := []Evaluation{
		{Ply: 1, Classification: ClassBook},
		{Ply: 2, Classification: ClassBook},
		{Ply: 3, Classification: ClassBest},
		{Ply: 4, Classification: ClassBlunder, EvalCP: intPtr(0)},
		{Ply: 5, Classification: ClassMistake, EvalCP: intPtr(0)},
		{Ply: 6, Classification: ClassGood},
	}
	sum := BuildSummary(evals)
	// White: book, best, mistake → 2/3. Black: book, blunder, good → 2/3.
	if sum.WhitePrecision != 67 || sum.BlackPrecision != 67 {
		t.Fatalf("precision = %d/%d, want 67/67", sum.WhitePrecision, sum.BlackPrecision)
	}
}

func TestBuildSummaryCriticalMoveCap(t *testing.T) {
	var evals []Evaluation
	for i := 1; i <= 6; i++ {
		evals = append(evals, Evaluation{
			Ply:            20 + i,
			MoveNumber:     MoveNumber(20 + i),
			Move:           "x",
			EvalCP:         intPtr(-100 * i),
			Classification: ClassBlunder,
		})
	}
	sum := BuildSummary(evals)
	if len(sum.CriticalMoves) != maxCriticalMoves {
		t.Fatalf("critical moves = %d, want %d", len(sum.CriticalMoves), maxCriticalMoves)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	sum := BuildSummary(nil)
	if sum.TotalMoves != 0 || sum.WhitePrecision != 0 || sum.AvgBlunderCP != 0 {
		t.Fatalf("empty summary = %+v", sum)
	}
	if len(sum.CriticalMoves) != 0 {
		t.Fatalf("empty game has critical moves")
	}
}
