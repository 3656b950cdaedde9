package coach

import (
	"context"
	"fmt"

	"github.com/park285/chess-coach-go/internal/analysis"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// Coach turns classified evaluations into per-move coaching messages and
// delegates whole-game narrative generation to the insight chain.
type Coach struct {
	cat      *msgcat.Catalog
	insights *InsightGenerator
}

func New(cat *msgcat.Catalog, insights *InsightGenerator) *Coach {
	return &Coach{cat: cat, insights: insights}
}

// Messages builds one message per coachable move: warnings for blunders and
// mistakes, praise for brilliant and great moves. Everything else stays
// silent. Message IDs are msg-<ply>, stable across re-renders of the same
// game so playback can dedupe narration.
func (c *Coach) Messages(evals []analysis.Evaluation, locale string) []analysis.Message {
	out := make([]analysis.Message, 0, 4)
	for _, ev := range evals {
		var key string
		var kind analysis.MessageKind
		switch ev.Classification {
		case analysis.ClassBlunder:
			key, kind = "coach.blunder", analysis.KindWarning
		case analysis.ClassMistake:
			key, kind = "coach.mistake", analysis.KindWarning
		case analysis.ClassBrilliant:
			key, kind = "coach.brilliant", analysis.KindPraise
		case analysis.ClassGreat:
			key, kind = "coach.great", analysis.KindPraise
		default:
			continue
		}

		msg, err := c.render(key, kind, ev, locale)
		if err != nil {
			obslog.L().Warn("coach_render_failed",
				zap.Int("ply", ev.Ply),
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (c *Coach) render(key string, kind analysis.MessageKind, ev analysis.Evaluation, locale string) (analysis.Message, error) {
	title, err := c.cat.Render(locale, key+".title", nil)
	if err != nil {
		return analysis.Message{}, err
	}

	data := map[string]string{"Move": ev.Move, "Best": ev.BestMove}
	bodyKey := key + ".body"
	if kind == analysis.KindWarning && ev.BestMove != "" && c.cat.Has(locale, key+".body_with_best") {
		bodyKey = key + ".body_with_best"
	}
	body, err := c.cat.Render(locale, bodyKey, data)
	if err != nil {
		return analysis.Message{}, err
	}

	m := analysis.Message{
		ID:          fmt.Sprintf("msg-%d", ev.Ply),
		Ply:         ev.Ply,
		Kind:        kind,
		Title:       title,
		Body:        body,
		PlayedMove:  ev.Move,
		Locale:      locale,
		TemplateKey: key,
	}
	if kind == analysis.KindWarning {
		m.SuggestedMove = ev.BestMove
	}
	return m, nil
}

// Rerender renders an existing message into another locale from its catalog
// key. Returning false means the caller should voice the stored text, for
// messages predating the key or missing from the target catalog.
func (c *Coach) Rerender(msg analysis.Message, locale string) (string, bool) {
	if msg.TemplateKey == "" {
		return "", false
	}
	title, err := c.cat.Render(locale, msg.TemplateKey+".title", nil)
	if err != nil {
		return "", false
	}
	data := map[string]string{"Move": msg.PlayedMove, "Best": msg.SuggestedMove}
	bodyKey := msg.TemplateKey + ".body"
	if msg.Kind == analysis.KindWarning && msg.SuggestedMove != "" && c.cat.Has(locale, msg.TemplateKey+".body_with_best") {
		bodyKey = msg.TemplateKey + ".body_with_best"
	}
	body, err := c.cat.Render(locale, bodyKey, data)
	if err != nil {
		return "", false
	}
	return title + " " + body, true
}

// Insights runs the narrative chain. Never returns an all-empty value: on
// total failure the Lesson field carries the unavailable notice.
func (c *Coach) Insights(ctx context.Context, movetext string, sum analysis.Summary) analysis.Insights {
	return c.insights.Generate(ctx, movetext, sum)
}

var _ analysis.Synthesizer = (*Coach)(nil)
