package coachdto

import (
	"time"

	"github.com/park285/chess-coach-go/internal/analysis"
)

// Evaluation is the public per-move analysis entry. Scores are from White's
// perspective; eval_cp and mate_in are both null when the ply could not be
// evaluated.
type Evaluation struct {
	Ply            int     `json:"ply"`
	MoveNumber     int     `json:"move_number"`
	Move           string  `json:"move"`
	EvalCP         *int    `json:"eval_cp"`
	MateIn         *int    `json:"mate_in"`
	WinProbability float64 `json:"win_probability_white"`
	BestMove       string  `json:"best_move,omitempty"`
	Classification string  `json:"classification"`
}

type Message struct {
	ID            string `json:"id"`
	Ply           int    `json:"ply"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	PlayedMove    string `json:"played_move,omitempty"`
	SuggestedMove string `json:"suggested_move,omitempty"`
	Locale        string `json:"locale"`
}

type Insights struct {
	OpeningSummary string   `json:"opening_summary"`
	KeyInsights    []string `json:"key_insights"`
	Lesson         string   `json:"lesson"`
}

type CriticalMove struct {
	MoveNumber  int     `json:"move_number"`
	Played      string  `json:"played"`
	BeforePawns float64 `json:"before_pawns"`
	AfterPawns  float64 `json:"after_pawns"`
	CPLoss      int     `json:"cp_loss"`
}

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

// Report is the full public coaching report for one game.
type Report struct {
	GameID      string       `json:"game_id"`
	RunID       string       `json:"run_id"`
	Tier        string       `json:"tier"`
	GeneratedAt time.Time    `json:"generated_at"`
	Evaluations []Evaluation `json:"evaluations"`
	Messages    []Message    `json:"messages"`
	Insights    Insights     `json:"insights"`
	Summary     Summary      `json:"summary"`
}

// FromReport converts the internal report into the public shape, filling in
// the derived win probability per ply.
func FromReport(gameID, runID, tier string, rep *analysis.Report) *Report {
	if rep == nil {
		return nil
	}
	out := &Report{
		GameID:      gameID,
		RunID:       runID,
		Tier:        tier,
		GeneratedAt: time.Now().UTC(),
		Evaluations: make([]Evaluation, 0, len(rep.Evaluations)),
		Messages:    make([]Message, 0, len(rep.Messages)),
		Insights: Insights{
			OpeningSummary: rep.Insights.OpeningSummary,
			KeyInsights:    rep.Insights.KeyInsights,
			Lesson:         rep.Insights.Lesson,
		},
		Summary: Summary{
			TotalMoves:     rep.Summary.TotalMoves,
			Blunders:       rep.Summary.Blunders,
			Mistakes:       rep.Summary.Mistakes,
			Inaccuracies:   rep.Summary.Inaccuracies,
			WhitePrecision: rep.Summary.WhitePrecision,
			BlackPrecision: rep.Summary.BlackPrecision,
			AvgBlunderCP:   rep.Summary.AvgBlunderCP,
		},
	}
	for _, ev := range rep.Evaluations {
		out.Evaluations = append(out.Evaluations, Evaluation{
			Ply:            ev.Ply,
			MoveNumber:     ev.MoveNumber,
			Move:           ev.Move,
			EvalCP:         ev.EvalCP,
			MateIn:         ev.MateIn,
			WinProbability: analysis.WinProbabilityWhite(analysis.Score{CP: ev.EvalCP, Mate: ev.MateIn}),
			BestMove:       ev.BestMove,
			Classification: string(ev.Classification),
		})
	}
	for _, m := range rep.Messages {
		out.Messages = append(out.Messages, Message{
			ID:            m.ID,
			Ply:           m.Ply,
			Kind:          string(m.Kind),
			Title:         m.Title,
			Body:          m.Body,
			PlayedMove:    m.PlayedMove,
			SuggestedMove: m.SuggestedMove,
			Locale:        m.Locale,
		})
	}
	for _, cm := range rep.Summary.CriticalMoves {
		out.Summary.CriticalMoves = append(out.Summary.CriticalMoves, CriticalMove{
			MoveNumber:  cm.MoveNumber,
			Played:      cm.Played,
			BeforePawns: cm.BeforePawns,
			AfterPawns:  cm.AfterPawns,
			CPLoss:      cm.CPLoss,
		})
	}
	return out
}
