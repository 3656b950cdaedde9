package analysis

import (
	"math"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNormalizeFlipsAfterWhiteMove(t *testing.T) {
	got := Normalize(Score{CP: intPtr(-35)}, true)
	if got.CP == nil || *got.CP != 35 {
		t.Fatalf("cp after White move = %v, want 35", got.CP)
	}
	if got.Mate != nil {
		t.Fatalf("mate should stay nil")
	}

	got = Normalize(Score{Mate: intPtr(3)}, true)
	if got.Mate == nil || *got.Mate != -3 {
		t.Fatalf("mate after White move = %v, want -3", got.Mate)
	}
}

func TestNormalizeKeepsScoreAfterBlackMove(t *testing.T) {
	got := Normalize(Score{CP: intPtr(120), Mate: nil}, false)
	if got.CP == nil || *got.CP != 120 {
		t.Fatalf("cp after Black move = %v, want 120", got.CP)
	}
}

func TestNormalizeBothNil(t *testing.T) {
	got := Normalize(Score{}, true)
	if got.CP != nil || got.Mate != nil {
		t.Fatalf("nil score must stay nil, got %+v", got)
	}
}

func TestWinProbabilityCentipawns(t *testing.T) {
	if p := WinProbabilityWhite(Score{CP: intPtr(0)}); p != 50 {
		t.Fatalf("even position = %v, want 50", p)
	}
	p := WinProbabilityWhite(Score{CP: intPtr(300)})
	if math.Abs(p-85.8) > 0.1 {
		t.Fatalf("+300cp = %v, want ~85.8", p)
	}
	if p := WinProbabilityWhite(Score{CP: intPtr(2000)}); p != 95 {
		t.Fatalf("huge advantage = %v, want clamp to 95", p)
	}
	if p := WinProbabilityWhite(Score{CP: intPtr(-2000)}); p != 5 {
		t.Fatalf("huge deficit = %v, want clamp to 5", p)
	}
}

func TestWinProbabilityMateAndMissing(t *testing.T) {
	if p := WinProbabilityWhite(Score{Mate: intPtr(2)}); p != 98 {
		t.Fatalf("mate for White = %v, want 98", p)
	}
	if p := WinProbabilityWhite(Score{Mate: intPtr(-1)}); p != 2 {
		t.Fatalf("mate against White = %v, want 2", p)
	}
	if p := WinProbabilityWhite(Score{}); p != 50 {
		t.Fatalf("missing score = %v, want 50", p)
	}
}
