package analysis

import (
	"math"
	"sort"
)

// maxCriticalMoves caps how many blunder/mistake plies feed the insight
// prompt.
const maxCriticalMoves = 4

var precisionLabels = map[Classification]struct{}{
	ClassBrilliant: {},
	ClassGreat:     {},
	ClassBest:      {},
	ClassExcellent: {},
	ClassGood:      {},
	ClassBook:      {},
}

// BuildSummary derives the whole-game statistics used for narrative insight
// generation. Evaluations are assumed ply-ordered; the evaluation before ply
// i is the one recorded at ply i-1 (starting position counts as 0).
func BuildSummary(evals []Evaluation) Summary {
	sum := Summary{TotalMoves: len(evals)}

	var whiteTotal, whiteGood, blackTotal, blackGood int
	var blunderLoss []int

	prevCP := func(i int) *int {
		if i == 0 {
			zero := 0
			return &zero
		}
		return evals[i-1].EvalCP
	}

	for i, ev := range evals {
		white := IsWhitePly(ev.Ply)
		if white {
			whiteTotal++
		} else {
			blackTotal++
		}
		if _, ok := precisionLabels[ev.Classification]; ok {
			if white {
				whiteGood++
			} else {
				blackGood++
			}
		}

		switch ev.Classification {
		case ClassInaccuracy:
			sum.Inaccuracies++
		case ClassMistake, ClassBlunder:
			if ev.Classification == ClassMistake {
				sum.Mistakes++
			} else {
				sum.Blunders++
			}
			before, after := prevCP(i), ev.EvalCP
			loss := cpLossAbs(before, after, white)
			if ev.Classification == ClassBlunder {
				blunderLoss = append(blunderLoss, loss)
			}
			sum.CriticalMoves = append(sum.CriticalMoves, CriticalMove{
				MoveNumber:  ev.MoveNumber,
				Played:      ev.Move,
				BeforePawns: pawns(before),
				AfterPawns:  pawns(after),
				CPLoss:      loss,
			})
		}
	}

	sort.Slice(sum.CriticalMoves, func(i, j int) bool {
		return sum.CriticalMoves[i].CPLoss > sum.CriticalMoves[j].CPLoss
	})
	if len(sum.CriticalMoves) > maxCriticalMoves {
		sum.CriticalMoves = sum.CriticalMoves[:maxCriticalMoves]
	}

	sum.WhitePrecision = precision(whiteGood, whiteTotal)
	sum.BlackPrecision = precision(blackGood, blackTotal)
	if len(blunderLoss) > 0 {
		total := 0
		for _, l := range blunderLoss {
			total += l
		}
		sum.AvgBlunderCP = float64(total) / float64(len(blunderLoss))
	}
	return sum
}

func cpLossAbs(before, after *int, whiteMove bool) int {
	if before == nil || after == nil {
		return 0
	}
	loss := *before - *after
	if !whiteMove {
		loss = -loss
	}
	if loss < 0 {
		loss = -loss
	}
	return loss
}

func pawns(cp *int) float64 {
	if cp == nil {
		return 0
	}
	return math.Round(float64(*cp)) / 100
}

func precision(good, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(good) / float64(total) * 100))
}
