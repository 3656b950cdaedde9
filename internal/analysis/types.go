package analysis

import (
	"context"
	"errors"

	"github.com/park285/chess-coach-go/internal/timeline"
)

type Classification string

const (
	ClassBook       Classification = "book"
	ClassBest       Classification = "best"
	ClassGreat      Classification = "great"
	ClassExcellent  Classification = "excellent"
	ClassGood       Classification = "good"
	ClassInaccuracy Classification = "inaccuracy"
	ClassMistake    Classification = "mistake"
	ClassBlunder    Classification = "blunder"
	// ClassBrilliant is never produced by Classify; it arrives only from the
	// local analysis backend, whose labels are trusted as-is.
	ClassBrilliant Classification = "brilliant"
	ClassNormal    Classification = "normal"
)

// Evaluation is the per-ply analysis verdict. EvalCP and MateIn are both nil
// when the ply could not be scored; MateIn takes precedence for display.
type Evaluation struct {
	Ply            int            `json:"ply"`
	MoveNumber     int            `json:"move_number"`
	Move           string         `json:"move"`
	EvalCP         *int           `json:"eval_cp"`
	MateIn         *int           `json:"mate_in"`
	BestMove       string         `json:"best_move,omitempty"`
	Classification Classification `json:"classification"`
}

type MessageKind string

const (
	KindInfo    MessageKind = "info"
	KindTip     MessageKind = "tip"
	KindWarning MessageKind = "warning"
	KindPraise  MessageKind = "praise"
	KindInsight MessageKind = "insight"
)

// Message is one piece of per-move coaching text. Immutable after creation;
// a re-analysis supersedes the whole slice.
type Message struct {
	ID            string      `json:"id"`
	Ply           int         `json:"ply"`
	Kind          MessageKind `json:"kind"`
	Title         string      `json:"title"`
	Body          string      `json:"body"`
	PlayedMove    string      `json:"played_move,omitempty"`
	SuggestedMove string      `json:"suggested_move,omitempty"`
	Locale        string      `json:"locale"`
	// TemplateKey names the catalog entry the text was rendered from, so
	// narration can re-render the message into another locale.
	TemplateKey string `json:"template_key,omitempty"`
}

// Insights is the whole-game narrative. Lesson always carries text: when
// generation fails it holds an error-describing string rather than being
// silently blank.
type Insights struct {
	OpeningSummary string   `json:"opening_summary"`
	KeyInsights    []string `json:"key_insights"`
	Lesson         string   `json:"lesson"`
}

func (i Insights) Empty() bool {
	return i.OpeningSummary == "" && len(i.KeyInsights) == 0 && i.Lesson == ""
}

// CriticalMove is one blunder/mistake ply summarized for the insight prompt.
type CriticalMove struct {
	MoveNumber  int     `json:"move_number"`
	Played      string  `json:"played"`
	BeforePawns float64 `json:"before_pawns"`
	AfterPawns  float64 `json:"after_pawns"`
	CPLoss      int     `json:"cp_loss"`
}

// Summary feeds the narrative-insight generation.
type Summary struct {
	TotalMoves     int            `json:"total_moves"`
	Blunders       int            `json:"blunders"`
	Mistakes       int            `json:"mistakes"`
	Inaccuracies   int            `json:"inaccuracies"`
	WhitePrecision int            `json:"white_precision"`
	BlackPrecision int            `json:"black_precision"`
	AvgBlunderCP   float64        `json:"avg_blunder_cp"`
	CriticalMoves  []CriticalMove `json:"critical_moves"`
}

// Report is one tier's complete output for a game, built fresh per run and
// swapped wholesale by the orchestrator.
type Report struct {
	Evaluations []Evaluation `json:"evaluations"`
	Messages    []Message    `json:"messages"`
	Insights    Insights     `json:"insights"`
	Summary     Summary      `json:"summary"`
}

type TierName string

const (
	TierLocal    TierName = "local"
	TierCloud    TierName = "cloud"
	TierEmbedded TierName = "embedded"
	TierNone     TierName = "none"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Session is the transient state of one analysis invocation.
type Session struct {
	RunID           string
	Tier            TierName
	Status          Status
	ProgressPercent int
}

// ProgressFunc receives 0..100 as a tier advances through the game.
type ProgressFunc func(percent int)

// Tier is one analysis backend. A returned error means the tier failed
// structurally and contributed nothing; partial per-move gaps inside a
// returned Report are acceptable.
type Tier interface {
	Name() TierName
	Analyze(ctx context.Context, gameID string, game *timeline.Game, progress ProgressFunc) (*Report, error)
}

// Synthesizer turns classified evaluations into coaching output. Implemented
// by the coach package; tiers depend only on this contract.
type Synthesizer interface {
	Messages(evals []Evaluation, locale string) []Message
	Insights(ctx context.Context, movetext string, sum Summary) Insights
}

var (
	ErrAnalysisInFlight = errors.New("analysis already in flight")
	ErrAllTiersFailed   = errors.New("all analysis tiers failed")
	ErrPollTimeout      = errors.New("analysis polling timed out")
	ErrEmptyTimeline    = errors.New("timeline has no moves")
)
