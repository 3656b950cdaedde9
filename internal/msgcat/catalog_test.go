package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("en", "coach.blunder.body_with_best", map[string]string{"Move": "Qh5", "Best": "Nf3"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Qh5") || !strings.Contains(out, "Nf3") {
		t.Fatalf("rendered = %q", out)
	}
}

func TestRenderLocaleFallback(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	en, err := c.Render("en", "coach.great.title", nil)
	if err != nil {
		t.Fatalf("Render en: %v", err)
	}
	// Unknown locale falls back to the en catalog.
	fr, err := c.Render("fr", "coach.great.title", nil)
	if err != nil {
		t.Fatalf("Render fr: %v", err)
	}
	if fr != en {
		t.Fatalf("fallback = %q, want %q", fr, en)
	}

	ko, err := c.Render("ko", "coach.great.title", nil)
	if err != nil {
		t.Fatalf("Render ko: %v", err)
	}
	if ko == en {
		t.Fatalf("ko catalog missing its own rendering")
	}
}

func TestRenderMissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("en", "coach.nope", nil); err == nil {
		t.Fatalf("missing key must error")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "messages.en.yaml"), []byte("coach:\n  blunder:\n    title: \"Oops\"\n"), 0o644)
	if err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("en", "coach.blunder.title", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Oops" {
		t.Fatalf("override ignored: %q", out)
	}
	// Keys the override does not touch keep their defaults.
	if !c.Has("en", "coach.mistake.title") {
		t.Fatalf("default keys lost after override")
	}
}
