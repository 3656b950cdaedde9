package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/park285/chess-coach-go/internal/httpjson"
	"github.com/park285/chess-coach-go/internal/timeline"
)

// CloudTier evaluates each position through a hosted engine endpoint.
// Scores come back relative to the side to move; normalization to White's
// perspective happens in the shared sequential loop.
type CloudTier struct {
	client      *httpjson.Client
	synth       Synthesizer
	depth       int
	thinkTimeMs int
}

func NewCloudTier(client *httpjson.Client, synth Synthesizer, depth, thinkTimeMs int) *CloudTier {
	if depth <= 0 {
		depth = 12
	}
	if thinkTimeMs <= 0 {
		thinkTimeMs = 500
	}
	return &CloudTier{client: client, synth: synth, depth: depth, thinkTimeMs: thinkTimeMs}
}

func (t *CloudTier) Name() TierName { return TierCloud }

type cloudEvalRequest struct {
	FEN             string `json:"fen"`
	Depth           int    `json:"depth"`
	MaxThinkingTime int    `json:"maxThinkingTime"`
}

type cloudEvalResponse struct {
	Eval  *float64 `json:"eval"`
	Mate  *int     `json:"mate"`
	SAN   string   `json:"san"`
	Error string   `json:"error"`
}

func (t *CloudTier) Analyze(ctx context.Context, _ string, game *timeline.Game, progress ProgressFunc) (*Report, error) {
	return analyzeSequential(ctx, TierCloud, game, t.evaluate, t.synth, "en", progress)
}

func (t *CloudTier) evaluate(ctx context.Context, fen string) (Score, string, error) {
	req := cloudEvalRequest{FEN: fen, Depth: t.depth, MaxThinkingTime: t.thinkTimeMs}
	var resp cloudEvalResponse
	if err := t.client.Post(ctx, "", req, &resp, true); err != nil {
		return Score{}, "", fmt.Errorf("cloud eval: %w", err)
	}
	if resp.Error != "" {
		return Score{}, "", fmt.Errorf("cloud eval: %s", resp.Error)
	}
	var s Score
	switch {
	case resp.Mate != nil:
		s.Mate = resp.Mate
	case resp.Eval != nil:
		cp := int(math.Round(*resp.Eval * 100))
		s.CP = &cp
	default:
		return Score{}, "", fmt.Errorf("cloud eval: response carried no score")
	}
	return s, resp.SAN, nil
}
