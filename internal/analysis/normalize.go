package analysis

import "math"

// Score is a raw engine verdict for one position. Exactly one of CP/Mate is
// set; both nil means the position could not be scored.
type Score struct {
	CP   *int
	Mate *int
}

// Normalize converts a side-to-move relative engine score into a White-
// perspective one. Engines score the position in front of them: after a White
// move it is Black to move, so the raw score must be negated; after a Black
// move the side to move is already White and the score stands. The rule is
// identical for centipawn and mate scores.
func Normalize(raw Score, followsWhiteMove bool) Score {
	if !followsWhiteMove {
		return raw
	}
	out := Score{}
	if raw.CP != nil {
		v := -*raw.CP
		out.CP = &v
	}
	if raw.Mate != nil {
		v := -*raw.Mate
		out.Mate = &v
	}
	return out
}

// WinProbabilityWhite maps a normalized score onto a 0..100 display
// percentage. The logistic slope is tuned so +300cp ≈ 86% and +500cp ≈ 95%;
// centipawn values clamp to [5, 95], mate scores pin to 98/2 by sign.
func WinProbabilityWhite(s Score) float64 {
	if s.Mate != nil {
		if *s.Mate >= 0 {
			return 98
		}
		return 2
	}
	if s.CP == nil {
		return 50
	}
	p := 100 / (1 + math.Exp(-0.006*float64(*s.CP)))
	if p < 5 {
		return 5
	}
	if p > 95 {
		return 95
	}
	return p
}
