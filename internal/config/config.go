package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	// Analysis tiers
	AnalysisBaseURL string // local analysis service (trigger + poll)
	CloudEvalURL    string // cloud per-position evaluator
	StockfishPath   string // embedded engine binary

	AnalysisDepth       int
	CloudMaxThinkTimeMs int
	LocalPollMaxSec     int

	// Narrative insight generation
	InsightURL    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	CoachModel    string

	// Narration
	TTSBaseURL      string
	NarrationLocale string
	TemplateDir     string // optional message catalog overrides

	// Report storage
	RedisURL       string
	DatabaseURL    string
	ReportTTLSec   int
	EngineThreads  int
	EngineHashMB   int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		AnalysisDepth:       16,
		CloudMaxThinkTimeMs: 500,
		LocalPollMaxSec:     60,
		CoachModel:          "gpt-4o-mini",
		NarrationLocale:     "en",
		ReportTTLSec:        86400,
		EngineThreads:       1,
		EngineHashMB:        64,
	}

	cfg.AnalysisBaseURL = strings.TrimSpace(os.Getenv("ANALYSIS_BASE_URL"))
	cfg.CloudEvalURL = strings.TrimSpace(os.Getenv("CLOUD_EVAL_URL"))
	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))

	cfg.InsightURL = strings.TrimSpace(os.Getenv("INSIGHT_URL"))
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIBaseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if v := strings.TrimSpace(os.Getenv("COACH_MODEL")); v != "" {
		cfg.CoachModel = v
	}

	cfg.TTSBaseURL = strings.TrimSpace(os.Getenv("TTS_BASE_URL"))
	if v := strings.TrimSpace(os.Getenv("NARRATION_LOCALE")); v != "" {
		cfg.NarrationLocale = v
	}
	cfg.TemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("ANALYSIS_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalysisDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CLOUD_MAX_THINK_TIME_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CloudMaxThinkTimeMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOCAL_POLL_MAX_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LocalPollMaxSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("REPORT_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReportTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENGINE_THREADS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineThreads = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENGINE_HASH_MB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineHashMB = n
		}
	}

	// At least one analysis tier must be reachable.
	if cfg.AnalysisBaseURL == "" && cfg.CloudEvalURL == "" && cfg.StockfishPath == "" {
		return nil, errors.New("at least one of ANALYSIS_BASE_URL, CLOUD_EVAL_URL, STOCKFISH_PATH is required")
	}

	return cfg, nil
}
