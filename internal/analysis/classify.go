package analysis

// bookMoveLimit exempts the first ten full moves (both sides) from quality
// judgement. Genuine early blunders are mislabeled as theory under this rule;
// the behavior is kept as-is from the source system.
const bookMoveLimit = 10

// Classify assigns a quality label from two consecutive White-perspective
// centipawn evaluations. Pure: the same inputs always yield the same label.
func Classify(prevCP, currCP *int, whiteMove bool, moveNumber int) Classification {
	if moveNumber <= bookMoveLimit {
		return ClassBook
	}
	if prevCP == nil || currCP == nil {
		return ClassNormal
	}

	// Positive cpLoss always means the mover lost ground.
	var cpLoss int
	if whiteMove {
		cpLoss = *prevCP - *currCP
	} else {
		cpLoss = *currCP - *prevCP
	}

	switch {
	case cpLoss <= 0:
		return ClassBest
	case cpLoss <= 10:
		return ClassGreat
	case cpLoss <= 25:
		return ClassExcellent
	case cpLoss <= 50:
		return ClassGood
	case cpLoss <= 100:
		return ClassInaccuracy
	case cpLoss <= 250:
		return ClassMistake
	default:
		return ClassBlunder
	}
}

// MoveNumber converts a 1-based ply to its full-move number.
func MoveNumber(ply int) int { return (ply + 1) / 2 }

// IsWhitePly reports whether the 1-based ply was played by White.
func IsWhitePly(ply int) bool { return ply%2 == 1 }
