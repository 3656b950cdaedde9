package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/park285/chess-coach-go/internal/analysis"
	"github.com/park285/chess-coach-go/internal/httpjson"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// InsightGenerator produces the whole-game narrative through a two-step
// chain: a self-hosted insight endpoint first, then a hosted chat model.
// When both steps fail the lesson carries a literal unavailable notice so
// the report is never silently blank.
type InsightGenerator struct {
	primary *httpjson.Client // nil when no endpoint is configured
	oa      *openai.Client   // nil when no API key is configured
	model   string
	cat     *msgcat.Catalog
	locale  string
}

func NewInsightGenerator(primary *httpjson.Client, oa *openai.Client, model string, cat *msgcat.Catalog, locale string) *InsightGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	if locale == "" {
		locale = "en"
	}
	return &InsightGenerator{primary: primary, oa: oa, model: model, cat: cat, locale: locale}
}

type insightRequest struct {
	Movetext string           `json:"movetext"`
	Summary  analysis.Summary `json:"summary"`
}

type insightResponse struct {
	OpeningSummary string   `json:"opening_summary"`
	KeyInsights    []string `json:"key_insights"`
	Lesson         string   `json:"lesson"`
	Fallback       bool     `json:"fallback"`
	Error          string   `json:"error"`
}

func (g *InsightGenerator) Generate(ctx context.Context, movetext string, sum analysis.Summary) analysis.Insights {
	reason := "no insight backend configured"

	if g.primary != nil {
		ins, err := g.fromPrimary(ctx, movetext, sum)
		if err == nil && !ins.Empty() {
			return ins
		}
		if err != nil {
			obslog.L().Warn("insight_primary_failed", zap.Error(err))
			reason = err.Error()
		} else {
			reason = "primary returned empty insights"
		}
	}

	if g.oa != nil {
		ins, err := g.fromChatModel(ctx, movetext, sum)
		if err == nil && !ins.Empty() {
			return ins
		}
		if err != nil {
			obslog.L().Warn("insight_secondary_failed", zap.Error(err))
			reason = err.Error()
		}
	}

	return g.unavailable(reason)
}

func (g *InsightGenerator) fromPrimary(ctx context.Context, movetext string, sum analysis.Summary) (analysis.Insights, error) {
	var resp insightResponse
	if err := g.primary.Post(ctx, "", insightRequest{Movetext: movetext, Summary: sum}, &resp, false); err != nil {
		return analysis.Insights{}, err
	}
	if resp.Error != "" {
		return analysis.Insights{}, fmt.Errorf("insight endpoint: %s", resp.Error)
	}
	if resp.Fallback {
		return analysis.Insights{}, fmt.Errorf("insight endpoint requested fallback")
	}
	return analysis.Insights{
		OpeningSummary: strings.TrimSpace(resp.OpeningSummary),
		KeyInsights:    trimAll(resp.KeyInsights),
		Lesson:         strings.TrimSpace(resp.Lesson),
	}, nil
}

const insightSystemPrompt = "You are a chess coach. Given a game's moves and " +
	"analysis statistics, respond with a JSON object holding exactly these " +
	"keys: opening_summary (string), key_insights (array of strings), " +
	"lesson (string). Keep each value under 60 words. No markdown."

func (g *InsightGenerator) fromChatModel(ctx context.Context, movetext string, sum analysis.Summary) (analysis.Insights, error) {
	stats, err := json.Marshal(sum)
	if err != nil {
		return analysis.Insights{}, err
	}
	resp, err := g.oa.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.4,
		MaxTokens:   600,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: insightSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Moves: %s\nStats: %s", movetext, stats)},
		},
	})
	if err != nil {
		return analysis.Insights{}, err
	}
	if len(resp.Choices) == 0 {
		return analysis.Insights{}, fmt.Errorf("chat model returned no choices")
	}

	var parsed insightResponse
	if err := json.Unmarshal([]byte(extractJSON(resp.Choices[0].Message.Content)), &parsed); err != nil {
		return analysis.Insights{}, fmt.Errorf("parse chat model output: %w", err)
	}
	return analysis.Insights{
		OpeningSummary: strings.TrimSpace(parsed.OpeningSummary),
		KeyInsights:    trimAll(parsed.KeyInsights),
		Lesson:         strings.TrimSpace(parsed.Lesson),
	}, nil
}

func (g *InsightGenerator) unavailable(reason string) analysis.Insights {
	lesson, err := g.cat.Render(g.locale, "insight.unavailable_lesson", map[string]string{"Reason": reason})
	if err != nil {
		lesson = "Insight generation is unavailable: " + reason
	}
	return analysis.Insights{Lesson: lesson}
}

// extractJSON strips a markdown code fence around the model output, if any.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
