package analysis

import (
	"context"
	"math"

	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/timeline"
	"go.uber.org/zap"
)

// evalFunc scores a single position. The returned score is relative to the
// side to move in fen, the way engines report it.
type evalFunc func(ctx context.Context, fen string) (Score, string, error)

// mateCPSurrogate stands in for a mate score when threading centipawn loss
// through the classifier. The stored Evaluation keeps the true mate count.
const mateCPSurrogate = 10000

// analyzeSequential walks the timeline one ply at a time, normalizing every
// score to White's perspective and classifying against the previous
// successful evaluation. A ply whose evaluation fails is recorded with nil
// scores and a normal classification; the failure never aborts the tier.
func analyzeSequential(ctx context.Context, tier TierName, game *timeline.Game, eval evalFunc, synth Synthesizer, locale string, progress ProgressFunc) (*Report, error) {
	total := game.TotalPlies()
	if total == 0 {
		return nil, ErrEmptyTimeline
	}

	evals := make([]Evaluation, 0, total)
	var prevCP *int
	prevBest := ""
	for i, mv := range game.Moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ply := mv.Ply
		entry := Evaluation{
			Ply:            ply,
			MoveNumber:     MoveNumber(ply),
			Move:           mv.SAN,
			BestMove:       prevBest,
			Classification: ClassNormal,
		}

		raw, best, err := eval(ctx, mv.FENAfter)
		if err != nil {
			obslog.L().Warn("ply_eval_failed",
				zap.String("tier", string(tier)),
				zap.Int("ply", ply),
				zap.Error(err))
			evals = append(evals, entry)
			prevBest = ""
			reportProgress(progress, i+1, total)
			continue
		}

		norm := Normalize(raw, IsWhitePly(ply))
		entry.EvalCP = norm.CP
		entry.MateIn = norm.Mate
		currCP := threadableCP(norm)
		entry.Classification = Classify(prevCP, currCP, IsWhitePly(ply), entry.MoveNumber)
		evals = append(evals, entry)

		prevCP = currCP
		prevBest = best
		reportProgress(progress, i+1, total)
	}

	report := &Report{
		Evaluations: evals,
		Messages:    synth.Messages(evals, locale),
		Summary:     BuildSummary(evals),
	}
	report.Insights = synth.Insights(ctx, movetext(game), report.Summary)
	return report, nil
}

// threadableCP collapses a normalized score into a single centipawn value
// for loss computation. Mates map to a large fixed magnitude.
func threadableCP(s Score) *int {
	if s.CP != nil {
		v := *s.CP
		return &v
	}
	if s.Mate != nil {
		v := mateCPSurrogate
		if *s.Mate < 0 {
			v = -mateCPSurrogate
		}
		return &v
	}
	return nil
}

func reportProgress(progress ProgressFunc, done, total int) {
	if progress == nil {
		return
	}
	progress(int(math.Round(float64(done) / float64(total) * 100)))
}
