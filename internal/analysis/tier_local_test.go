package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/park285/chess-coach-go/internal/httpjson"
)

func newLocalTierForTest(t *testing.T, handler http.Handler) (*LocalTier, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tier := NewLocalTier(httpjson.NewClient(srv.URL), stubSynth{}, 16, 60)
	tier.pollInterval = time.Millisecond
	return tier, srv
}

func TestLocalTierTrustsBackendResults(t *testing.T) {
	game := seqGame(2)
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze/g1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["depth"] != 16 {
			t.Errorf("trigger body = %v, err = %v", body, err)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/analysis/g1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls == 1 {
			_, _ = w.Write([]byte(`{"status":"analyzing"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"status": "complete",
			"results": [
				{"ply":1,"move":"m1","eval_after":35,"best_move":"e2e4","classification":"book"},
				{"ply":2,"move":"m2","eval_after":-10,"classification":"brilliant"}
			],
			"ai_insights": {"opening_summary":"solid start","key_insights":"watch the center","lesson":"develop first"}
		}`))
	})

	tier, _ := newLocalTierForTest(t, mux)
	var lastPct int
	rep, err := tier.Analyze(context.Background(), "g1", game, func(pct int) { lastPct = pct })
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if lastPct != 100 {
		t.Fatalf("final progress = %d, want 100", lastPct)
	}
	if len(rep.Evaluations) != 2 {
		t.Fatalf("got %d evaluations, want 2", len(rep.Evaluations))
	}
	// The local backend may award labels the fallback tiers never produce.
	if rep.Evaluations[1].Classification != ClassBrilliant {
		t.Fatalf("classification = %s, want %s", rep.Evaluations[1].Classification, ClassBrilliant)
	}
	if rep.Insights.Lesson != "develop first" {
		t.Fatalf("lesson = %q", rep.Insights.Lesson)
	}
	if len(rep.Insights.KeyInsights) != 1 || rep.Insights.KeyInsights[0] != "watch the center" {
		t.Fatalf("key insights = %v", rep.Insights.KeyInsights)
	}
}

func TestLocalTierBackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/analysis/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","error":"engine not found"}`))
	})

	tier, _ := newLocalTierForTest(t, mux)
	_, err := tier.Analyze(context.Background(), "g1", seqGame(2), nil)
	if err == nil || !strings.Contains(err.Error(), "engine not found") {
		t.Fatalf("err = %v, want backend error text", err)
	}
}

func TestLocalTierPollTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/analysis/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"analyzing"}`))
	})

	tier, _ := newLocalTierForTest(t, mux)
	tier.maxPolls = 3
	_, err := tier.Analyze(context.Background(), "g1", seqGame(2), nil)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("err = %v, want ErrPollTimeout", err)
	}
}

func TestLocalTierResultCountMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/analysis/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"complete","results":[{"ply":1,"move":"m1"}]}`))
	})

	tier, _ := newLocalTierForTest(t, mux)
	_, err := tier.Analyze(context.Background(), "g1", seqGame(3), nil)
	if err == nil {
		t.Fatalf("mismatched result count must fail the tier")
	}
}
