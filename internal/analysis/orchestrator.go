package analysis

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/timeline"
	"go.uber.org/zap"
)

// Orchestrator walks the tier cascade in priority order and keeps the
// latest completed report. Only one analysis run may be in flight at a
// time; a second caller gets ErrAnalysisInFlight instead of queuing.
type Orchestrator struct {
	mu      sync.Mutex
	tiers   []Tier
	session Session
	report  *Report
}

func NewOrchestrator(tiers ...Tier) *Orchestrator {
	return &Orchestrator{
		tiers:   tiers,
		session: Session{Status: StatusIdle, Tier: TierNone},
	}
}

// Session returns a snapshot of the current run state.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Report returns the most recent completed report, or nil.
func (o *Orchestrator) Report() *Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report
}

// Analyze runs the cascade for game. On success the whole report is swapped
// in at once and every move in the timeline gets its classification written
// back; a failed run leaves the previous report untouched.
func (o *Orchestrator) Analyze(ctx context.Context, gameID string, game *timeline.Game) (*Report, error) {
	if game == nil || game.TotalPlies() == 0 {
		return nil, ErrEmptyTimeline
	}

	runID := uuid.NewString()
	o.mu.Lock()
	if o.session.Status == StatusRunning {
		o.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	o.session = Session{RunID: runID, Status: StatusRunning, Tier: TierNone}
	o.mu.Unlock()

	progress := func(pct int) {
		o.mu.Lock()
		if o.session.RunID == runID {
			o.session.ProgressPercent = pct
		}
		o.mu.Unlock()
	}

	var lastErr error = ErrAllTiersFailed
	for _, tier := range o.tiers {
		o.setTier(runID, tier.Name())
		obslog.L().Info("tier_start",
			zap.String("run_id", runID),
			zap.String("game_id", gameID),
			zap.String("tier", string(tier.Name())))

		report, err := tier.Analyze(ctx, gameID, game, progress)
		if err != nil {
			obslog.L().Warn("tier_failed",
				zap.String("run_id", runID),
				zap.String("tier", string(tier.Name())),
				zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		o.complete(runID, tier.Name(), report, game)
		obslog.L().Info("analysis_complete",
			zap.String("run_id", runID),
			zap.String("tier", string(tier.Name())),
			zap.Int("plies", game.TotalPlies()),
			zap.Int("messages", len(report.Messages)))
		return report, nil
	}

	o.mu.Lock()
	if o.session.RunID == runID {
		o.session.Status = StatusFailed
		o.session.Tier = TierNone
	}
	o.mu.Unlock()
	return nil, lastErr
}

func (o *Orchestrator) setTier(runID string, tier TierName) {
	o.mu.Lock()
	if o.session.RunID == runID {
		o.session.Tier = tier
		o.session.ProgressPercent = 0
	}
	o.mu.Unlock()
}

func (o *Orchestrator) complete(runID string, tier TierName, report *Report, game *timeline.Game) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.report = report
	if o.session.RunID == runID {
		o.session.Status = StatusComplete
		o.session.Tier = tier
		o.session.ProgressPercent = 100
	}
	for i := range game.Moves {
		if i < len(report.Evaluations) {
			game.Moves[i].Classification = string(report.Evaluations[i].Classification)
		}
	}
}
