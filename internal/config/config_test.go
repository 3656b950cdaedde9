package config

import (
	"strings"
	"testing"
)

func clearTierEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANALYSIS_BASE_URL", "CLOUD_EVAL_URL", "STOCKFISH_PATH"} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresOneTier(t *testing.T) {
	clearTierEnv(t)
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "at least one") {
		t.Fatalf("err = %v, want tier requirement", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearTierEnv(t)
	t.Setenv("STOCKFISH_PATH", "/usr/bin/stockfish")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AnalysisDepth != 16 || cfg.CloudMaxThinkTimeMs != 500 || cfg.LocalPollMaxSec != 60 {
		t.Fatalf("analysis defaults = %+v", cfg)
	}
	if cfg.CoachModel != "gpt-4o-mini" || cfg.NarrationLocale != "en" {
		t.Fatalf("coach defaults = %+v", cfg)
	}
	if cfg.ReportTTLSec != 86400 || cfg.EngineThreads != 1 || cfg.EngineHashMB != 64 {
		t.Fatalf("storage/engine defaults = %+v", cfg)
	}
}

func TestLoadOverridesAndTrimming(t *testing.T) {
	clearTierEnv(t)
	t.Setenv("CLOUD_EVAL_URL", "  https://eval.example.com  ")
	t.Setenv("ANALYSIS_DEPTH", "20")
	t.Setenv("NARRATION_LOCALE", "ko")
	t.Setenv("ENGINE_THREADS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CloudEvalURL != "https://eval.example.com" {
		t.Fatalf("url not trimmed: %q", cfg.CloudEvalURL)
	}
	if cfg.AnalysisDepth != 20 || cfg.NarrationLocale != "ko" {
		t.Fatalf("overrides = %+v", cfg)
	}
	if cfg.EngineThreads != 1 {
		t.Fatalf("bad numeric value must keep the default, got %d", cfg.EngineThreads)
	}
}
