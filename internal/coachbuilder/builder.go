package coachbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/park285/chess-coach-go/internal/analysis"
	"github.com/park285/chess-coach-go/internal/coach"
	"github.com/park285/chess-coach-go/internal/config"
	"github.com/park285/chess-coach-go/internal/httpjson"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/report"
	"github.com/park285/chess-coach-go/internal/speech"
	"github.com/park285/chess-coach-go/internal/uci"
	"go.uber.org/zap"
)

// Deps is the assembled object graph for one coach process. Optional
// backends that are not configured stay nil; the orchestrator simply gets a
// shorter cascade.
type Deps struct {
	Orchestrator *analysis.Orchestrator
	Coach        *coach.Coach
	Catalog      *msgcat.Catalog
	Engine       *uci.Engine
	Speaker      *speech.Client
	Store        *report.Store
	Repo         *report.Repository
}

// New wires every component from config. At least one analysis tier must
// come out of the wiring or the build fails.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := msgcat.New(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("init message catalog: %w", err)
	}

	var insightClient *httpjson.Client
	if strings.TrimSpace(cfg.InsightURL) != "" {
		insightClient = httpjson.NewClient(cfg.InsightURL, httpjson.WithTimeout(30*time.Second))
	}
	var oa *openai.Client
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		occ := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if strings.TrimSpace(cfg.OpenAIBaseURL) != "" {
			occ.BaseURL = cfg.OpenAIBaseURL
		}
		oa = openai.NewClientWithConfig(occ)
	}
	insights := coach.NewInsightGenerator(insightClient, oa, cfg.CoachModel, cat, cfg.NarrationLocale)
	synth := coach.New(cat, insights)

	deps := &Deps{Coach: synth, Catalog: cat}

	var tiers []analysis.Tier
	if strings.TrimSpace(cfg.AnalysisBaseURL) != "" {
		local := httpjson.NewClient(cfg.AnalysisBaseURL, httpjson.WithTimeout(10*time.Second))
		tiers = append(tiers, analysis.NewLocalTier(local, synth, cfg.AnalysisDepth, cfg.LocalPollMaxSec))
	}
	if strings.TrimSpace(cfg.CloudEvalURL) != "" {
		cloud := httpjson.NewClient(cfg.CloudEvalURL, httpjson.WithTimeout(15*time.Second), httpjson.WithRetry(2))
		tiers = append(tiers, analysis.NewCloudTier(cloud, synth, cfg.AnalysisDepth, cfg.CloudMaxThinkTimeMs))
	}
	if strings.TrimSpace(cfg.StockfishPath) != "" {
		engine, eerr := uci.NewEngine(ctx, cfg.StockfishPath, uci.Options{
			Threads: cfg.EngineThreads,
			HashMB:  cfg.EngineHashMB,
		})
		if eerr != nil {
			logger.Warn("embedded engine unavailable", zap.Error(eerr))
		} else {
			deps.Engine = engine
			tiers = append(tiers, analysis.NewEmbeddedTier(engine, synth, cfg.AnalysisDepth, cfg.NarrationLocale))
		}
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no analysis tier configured")
	}
	deps.Orchestrator = analysis.NewOrchestrator(tiers...)

	if strings.TrimSpace(cfg.TTSBaseURL) != "" {
		deps.Speaker = speech.New(httpjson.NewClient(cfg.TTSBaseURL, httpjson.WithTimeout(2*time.Minute)))
	}

	if strings.TrimSpace(cfg.RedisURL) != "" {
		store, serr := report.NewStore(cfg.RedisURL, time.Duration(cfg.ReportTTLSec)*time.Second)
		if serr != nil {
			return nil, fmt.Errorf("init report store: %w", serr)
		}
		deps.Store = store
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, rerr := report.NewRepository(cfg.DatabaseURL)
		if rerr != nil {
			return nil, fmt.Errorf("init report repository: %w", rerr)
		}
		deps.Repo = repo
	}
	return deps, nil
}

// Close releases every owned resource. Safe on a partially built graph.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Engine != nil {
		d.Engine.Close()
	}
	if d.Store != nil {
		_ = d.Store.Close()
	}
	if d.Repo != nil {
		_ = d.Repo.Close()
	}
}
