package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/park285/chess-coach-go/internal/analysis"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	url := fmt.Sprintf("redis://%s/0", mr.Addr())
	s, err := NewStore(url, time.Hour)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func sampleReport() *analysis.Report {
	cp := 35
	return &analysis.Report{
		Evaluations: []analysis.Evaluation{
			{Ply: 1, MoveNumber: 1, Move: "e4", EvalCP: &cp, Classification: analysis.ClassBook},
		},
		Messages: []analysis.Message{
			{ID: "msg-1", Ply: 1, Kind: analysis.KindPraise, Title: "t", Body: "b", Locale: "en"},
		},
		Insights: analysis.Insights{Lesson: "develop first"},
		Summary:  analysis.Summary{TotalMoves: 1},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "g1", sampleReport()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got.Evaluations) != 1 || got.Insights.Lesson != "develop first" {
		t.Fatalf("loaded report = %+v", got)
	}
	if got.Evaluations[0].EvalCP == nil || *got.Evaluations[0].EvalCP != 35 {
		t.Fatalf("eval cp lost in round trip: %+v", got.Evaluations[0])
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if got != nil {
		t.Fatalf("missing report = %+v, want nil", got)
	}
}

func TestStoreOverwriteAndTTL(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	first := sampleReport()
	if err := s.Save(ctx, "g1", first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := sampleReport()
	second.Insights.Lesson = "trade when ahead"
	if err := s.Save(ctx, "g1", second); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Insights.Lesson != "trade when ahead" {
		t.Fatalf("overwrite kept stale report: %q", got.Insights.Lesson)
	}

	mr.FastForward(2 * time.Hour)
	got, err = s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load after expiry: %v", err)
	}
	if got != nil {
		t.Fatalf("report survived its TTL")
	}
}

func TestStoreDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "g1", sampleReport()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Load(ctx, "g1"); got != nil {
		t.Fatalf("deleted report still loads")
	}
}
