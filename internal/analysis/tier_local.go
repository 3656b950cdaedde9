package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-coach-go/internal/httpjson"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/timeline"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = time.Second
	defaultMaxPolls     = 60
)

// LocalTier drives the bundled analysis service: fire-and-forget trigger,
// then 1s polling until the backend reports complete. The backend evaluates
// and classifies every move itself; its results are trusted as-is. Any error
// here aborts the tier wholesale, keeping no partial results.
type LocalTier struct {
	client       *httpjson.Client
	synth        Synthesizer
	depth        int
	pollInterval time.Duration
	maxPolls     int
}

func NewLocalTier(client *httpjson.Client, synth Synthesizer, depth, maxPollSec int) *LocalTier {
	if depth <= 0 {
		depth = 16
	}
	if maxPollSec <= 0 {
		maxPollSec = defaultMaxPolls
	}
	return &LocalTier{
		client:       client,
		synth:        synth,
		depth:        depth,
		pollInterval: defaultPollInterval,
		maxPolls:     maxPollSec,
	}
}

func (t *LocalTier) Name() TierName { return TierLocal }

type localTriggerRequest struct {
	Depth int `json:"depth"`
}

type localResult struct {
	Ply            int    `json:"ply"`
	Move           string `json:"move"`
	EvalAfter      *int   `json:"eval_after"`
	MateAfter      *int   `json:"mate_after"`
	BestMove       string `json:"best_move"`
	Classification string `json:"classification"`
}

type localInsights struct {
	OpeningSummary string `json:"opening_summary"`
	KeyInsights    string `json:"key_insights"`
	Lesson         string `json:"lesson"`
}

type localStatusResponse struct {
	Status     string         `json:"status"`
	Results    []localResult  `json:"results"`
	AIInsights *localInsights `json:"ai_insights"`
	Error      string         `json:"error"`
}

func (t *LocalTier) Analyze(ctx context.Context, gameID string, game *timeline.Game, progress ProgressFunc) (*Report, error) {
	if game == nil || game.TotalPlies() == 0 {
		return nil, ErrEmptyTimeline
	}

	if err := t.client.Post(ctx, "/api/analyze/"+gameID, localTriggerRequest{Depth: t.depth}, nil, false); err != nil {
		return nil, fmt.Errorf("local tier trigger: %w", err)
	}

	var status localStatusResponse
	for i := 0; i < t.maxPolls; i++ {
		if err := sleepCtx(ctx, t.pollInterval); err != nil {
			return nil, err
		}
		status = localStatusResponse{}
		if err := t.client.Get(ctx, "/api/analysis/"+gameID, &status); err != nil {
			return nil, fmt.Errorf("local tier poll: %w", err)
		}
		switch status.Status {
		case "complete":
			return t.buildReport(ctx, game, status, progress)
		case "error":
			return nil, fmt.Errorf("local tier backend: %s", status.Error)
		}
	}
	return nil, fmt.Errorf("local tier: %w", ErrPollTimeout)
}

func (t *LocalTier) buildReport(ctx context.Context, game *timeline.Game, status localStatusResponse, progress ProgressFunc) (*Report, error) {
	evals := make([]Evaluation, 0, len(status.Results))
	for _, r := range status.Results {
		evals = append(evals, Evaluation{
			Ply:            r.Ply,
			MoveNumber:     MoveNumber(r.Ply),
			Move:           r.Move,
			EvalCP:         r.EvalAfter,
			MateIn:         r.MateAfter,
			BestMove:       r.BestMove,
			Classification: Classification(r.Classification),
		})
	}
	if len(evals) != game.TotalPlies() {
		// Results must be co-indexed with the timeline; a mismatched backend
		// response is a structural failure.
		return nil, fmt.Errorf("local tier: %d results for %d plies", len(evals), game.TotalPlies())
	}
	if progress != nil {
		progress(100)
	}

	report := &Report{
		Evaluations: evals,
		Messages:    t.synth.Messages(evals, "en"),
		Summary:     BuildSummary(evals),
	}
	report.Insights = t.insights(ctx, game, status, report.Summary)
	return report, nil
}

func (t *LocalTier) insights(ctx context.Context, game *timeline.Game, status localStatusResponse, sum Summary) Insights {
	if status.AIInsights != nil {
		ins := Insights{
			OpeningSummary: strings.TrimSpace(status.AIInsights.OpeningSummary),
			Lesson:         strings.TrimSpace(status.AIInsights.Lesson),
		}
		if v := strings.TrimSpace(status.AIInsights.KeyInsights); v != "" {
			ins.KeyInsights = []string{v}
		}
		if !ins.Empty() {
			return ins
		}
	}
	obslog.L().Info("local_insights_empty", zap.String("fallback", "insight chain"))
	return t.synth.Insights(ctx, movetext(game), sum)
}

func movetext(game *timeline.Game) string {
	sans := make([]string, 0, len(game.Moves))
	for _, mv := range game.Moves {
		sans = append(sans, mv.SAN)
	}
	return strings.Join(sans, " ")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
