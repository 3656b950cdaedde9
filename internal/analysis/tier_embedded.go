package analysis

import (
	"context"
	"fmt"

	"github.com/park285/chess-coach-go/internal/timeline"
	"github.com/park285/chess-coach-go/internal/uci"
)

// EmbeddedTier runs the bundled engine binary directly over UCI. It is the
// last resort of the cascade and narrates in the local catalog locale.
type EmbeddedTier struct {
	engine *uci.Engine
	synth  Synthesizer
	depth  int
	locale string
}

func NewEmbeddedTier(engine *uci.Engine, synth Synthesizer, depth int, locale string) *EmbeddedTier {
	if depth <= 0 {
		depth = 16
	}
	if locale == "" {
		locale = "ko"
	}
	return &EmbeddedTier{engine: engine, synth: synth, depth: depth, locale: locale}
}

func (t *EmbeddedTier) Name() TierName { return TierEmbedded }

func (t *EmbeddedTier) Analyze(ctx context.Context, _ string, game *timeline.Game, progress ProgressFunc) (*Report, error) {
	if t.engine == nil {
		return nil, fmt.Errorf("embedded tier: engine not configured")
	}
	if err := t.engine.EnsureReady(ctx); err != nil {
		return nil, fmt.Errorf("embedded tier: %w", err)
	}
	return analyzeSequential(ctx, TierEmbedded, game, t.evaluate, t.synth, t.locale, progress)
}

func (t *EmbeddedTier) evaluate(ctx context.Context, fen string) (Score, string, error) {
	res, err := t.engine.Analyze(ctx, fen, uci.Limits{Depth: t.depth})
	if err != nil {
		return Score{}, "", err
	}
	var s Score
	switch res.Score.Type {
	case "mate":
		v := res.Score.Value
		s.Mate = &v
	case "cp":
		v := res.Score.Value
		s.CP = &v
	default:
		return Score{}, "", fmt.Errorf("engine score type %q", res.Score.Type)
	}
	return s, res.BestMove, nil
}
