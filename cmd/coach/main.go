package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/park285/chess-coach-go/internal/analysis"
	"github.com/park285/chess-coach-go/internal/coachbuilder"
	appcfg "github.com/park285/chess-coach-go/internal/config"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/playback"
	"github.com/park285/chess-coach-go/internal/report"
	"github.com/park285/chess-coach-go/internal/timeline"
	"github.com/park285/chess-coach-go/pkg/coachdto"
	"go.uber.org/zap"
)

func main() {
	pgnPath := flag.String("pgn", "", "path to PGN or movetext file ('-' for stdin)")
	gameID := flag.String("game-id", "", "stable game identifier (default: random)")
	interactive := flag.Bool("play", false, "start interactive playback after analysis")
	flag.Parse()

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	movetext, err := readMovetext(*pgnPath)
	if err != nil {
		log.Fatalf("read game: %v", err)
	}
	game, err := timeline.Build(movetext)
	if err != nil {
		log.Fatalf("build timeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := coachbuilder.New(ctx, cfg, obslog.L())
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	defer deps.Close()

	id := strings.TrimSpace(*gameID)
	if id == "" {
		id = uuid.NewString()
	}

	rep, err := deps.Orchestrator.Analyze(ctx, id, game)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}
	session := deps.Orchestrator.Session()

	persist(ctx, deps, id, session, movetext, rep)
	printReport(id, session, rep)

	if *interactive {
		runPlayback(game, rep, deps, cfg.NarrationLocale)
	}
}

func readMovetext(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("-pgn is required")
	}
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func persist(ctx context.Context, deps *coachbuilder.Deps, id string, session analysis.Session, movetext string, rep *analysis.Report) {
	if deps.Store != nil {
		if err := deps.Store.Save(ctx, id, rep); err != nil {
			obslog.L().Warn("report cache failed", zap.Error(err))
		}
	}
	if deps.Repo != nil {
		rec := &report.Record{
			GameID:    id,
			RunID:     session.RunID,
			Tier:      string(session.Tier),
			Movetext:  movetext,
			Report:    rep,
			CreatedAt: time.Now(),
		}
		if err := deps.Repo.Upsert(ctx, rec); err != nil {
			obslog.L().Warn("report persist failed", zap.Error(err))
		}
	}
}

func printReport(id string, session analysis.Session, rep *analysis.Report) {
	out := coachdto.FromReport(id, session.RunID, string(session.Tier), rep)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}

// runPlayback drives a line-based playback loop over the analyzed game.
// Narration speaks coaching messages as the cursor lands on their plies.
func runPlayback(game *timeline.Game, rep *analysis.Report, deps *coachbuilder.Deps, locale string) {
	var narrator *playback.Narrator
	if deps.Speaker != nil {
		narrator = playback.NewNarrator(deps.Speaker, locale)
		narrator.SetRenderFunc(deps.Coach.Rerender)
		narrator.SetMessages(rep.Messages)
	}

	var pauser playback.Pauser
	if narrator != nil {
		pauser = narrator
	}
	ctrl := playback.NewController(game.TotalPlies(), pauser)
	defer ctrl.Close()

	ctrl.AddListener(func(ply int) {
		fmt.Printf("\n%s\n", describePly(game, rep, ply))
		if narrator != nil {
			narrator.OnPositionChanged(ply)
		}
	})

	fmt.Println("playback: next(n) prev(p) first(f) last(l) go <ply> play pause narrate on|off quit(q)")
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		fields := strings.Fields(strings.ToLower(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "n", "next":
			ctrl.StepForward()
		case "p", "prev":
			ctrl.StepBack()
		case "f", "first":
			ctrl.First()
		case "l", "last":
			ctrl.Last()
		case "go":
			if len(fields) == 2 {
				if ply, err := strconv.Atoi(fields[1]); err == nil {
					ctrl.GoTo(ply)
				}
			}
		case "play":
			ctrl.Play()
		case "pause":
			ctrl.Pause()
		case "narrate":
			if narrator != nil && len(fields) == 2 {
				narrator.SetEnabled(fields[1] == "on")
			}
		case "q", "quit":
			return
		}
	}
}

func describePly(game *timeline.Game, rep *analysis.Report, ply int) string {
	if ply == 0 {
		return "start position"
	}
	mv := game.MoveAt(ply)
	if mv == nil {
		return fmt.Sprintf("ply %d", ply)
	}
	line := fmt.Sprintf("ply %d: %s [%s]", ply, mv.SAN, mv.Classification)
	if ply-1 < len(rep.Evaluations) {
		ev := rep.Evaluations[ply-1]
		switch {
		case ev.MateIn != nil:
			line += fmt.Sprintf(" mate in %d", *ev.MateIn)
		case ev.EvalCP != nil:
			line += fmt.Sprintf(" eval %+.2f", float64(*ev.EvalCP)/100)
		}
	}
	return line
}
