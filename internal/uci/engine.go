package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultReadyTimeout = 4 * time.Second
	scoreTypeCP         = "cp"
	scoreTypeMate       = "mate"
)

type Options struct {
	Threads int
	HashMB  int
}

type Limits struct {
	Depth          int
	MoveTimeMillis int
}

// Score is a raw engine verdict, relative to the side to move of the
// analysed position.
type Score struct {
	Type  string // "cp" or "mate"
	Value int
}

// Result is the outcome of analysing a single position.
type Result struct {
	Score              Score
	PrincipalVariation []string
	BestMove           string
}

// Engine drives one long-lived UCI engine process over stdin/stdout. Calls
// are serialized; analysis here is strictly sequential per ply.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	search sync.Mutex
	ready  bool
}

// NewEngine starts the engine binary and completes the UCI handshake.
func NewEngine(ctx context.Context, binaryPath string, opt Options) (*Engine, error) {
	if strings.TrimSpace(binaryPath) == "" {
		return nil, fmt.Errorf("engine binary path required")
	}
	if _, err := os.Stat(binaryPath); err != nil {
		return nil, fmt.Errorf("engine binary check: %w", err)
	}

	cmd := exec.CommandContext(ctx, binaryPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdoutPipe.Close()
		return nil, fmt.Errorf("start engine: %w", err)
	}

	e := &Engine{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdoutPipe),
	}
	if err := e.initialize(ctx, opt); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// EnsureReady round-trips isready/readyok. Analysis must not start before
// this succeeds at least once.
func (e *Engine) EnsureReady(ctx context.Context) error {
	readyCtx, cancel := context.WithTimeout(ctx, defaultReadyTimeout)
	defer cancel()

	if err := e.send("isready\n"); err != nil {
		return fmt.Errorf("send isready: %w", err)
	}
	if err := e.awaitToken(readyCtx, "readyok"); err != nil {
		return fmt.Errorf("wait readyok: %w", err)
	}
	e.ready = true
	return nil
}

// Ready reports whether the handshake has completed.
func (e *Engine) Ready() bool { return e.ready }

// Analyze scores one position. The returned score is relative to the side to
// move in fen.
func (e *Engine) Analyze(ctx context.Context, fen string, limits Limits) (Result, error) {
	e.search.Lock()
	defer e.search.Unlock()

	if !e.ready {
		return Result{}, fmt.Errorf("engine not ready")
	}

	if err := e.send(positionCommand(fen)); err != nil {
		return Result{}, fmt.Errorf("send position: %w", err)
	}
	goCmd, err := goCommand(limits)
	if err != nil {
		return Result{}, err
	}
	if err := e.send(goCmd); err != nil {
		return Result{}, fmt.Errorf("send go: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout(limits))
	defer cancel()

	var last Result
	var haveInfo bool
	for {
		line, err := e.readLine(searchCtx)
		if err != nil {
			return Result{}, fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "info "):
			if res, ok := parseInfo(line); ok {
				last = res
				haveInfo = true
			}
		case strings.HasPrefix(line, "bestmove"):
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				last.BestMove = parts[1]
			}
			if !haveInfo {
				return Result{}, fmt.Errorf("engine returned no score")
			}
			return last, nil
		}
	}
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin != nil {
		_, _ = io.WriteString(e.stdin, "quit\n")
		e.stdin.Close()
	}
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	if e.cmd != nil {
		return e.cmd.Wait()
	}
	return nil
}

func (e *Engine) initialize(ctx context.Context, opt Options) error {
	initCtx, cancel := context.WithTimeout(ctx, defaultReadyTimeout)
	defer cancel()

	if err := e.send("uci\n"); err != nil {
		return fmt.Errorf("send uci: %w", err)
	}
	if err := e.awaitToken(initCtx, "uciok"); err != nil {
		return fmt.Errorf("wait uciok: %w", err)
	}

	threads := opt.Threads
	if threads <= 0 {
		threads = 1
	}
	hash := opt.HashMB
	if hash <= 0 {
		hash = 64
	}
	cmds := []string{
		fmt.Sprintf("setoption name Threads value %d\n", threads),
		fmt.Sprintf("setoption name Hash value %d\n", hash),
		"setoption name MultiPV value 1\n",
	}
	for _, cmd := range cmds {
		if err := e.send(cmd); err != nil {
			return fmt.Errorf("apply options: %w", err)
		}
	}
	return e.EnsureReady(ctx)
}

func positionCommand(fen string) string {
	if strings.TrimSpace(fen) == "" || fen == "startpos" {
		return "position startpos\n"
	}
	return "position fen " + fen + "\n"
}

func goCommand(l Limits) (string, error) {
	args := []string{"go"}
	if l.Depth > 0 {
		args = append(args, "depth", strconv.Itoa(l.Depth))
	}
	if l.MoveTimeMillis > 0 {
		args = append(args, "movetime", strconv.Itoa(l.MoveTimeMillis))
	}
	if len(args) == 1 {
		return "", fmt.Errorf("no search limits specified")
	}
	return strings.Join(args, " ") + "\n", nil
}

func searchTimeout(l Limits) time.Duration {
	if l.MoveTimeMillis > 0 {
		return time.Duration(l.MoveTimeMillis+2000) * time.Millisecond * 3
	}
	if l.Depth > 0 {
		base := time.Duration(l.Depth) * 300 * time.Millisecond
		if base < 6*time.Second {
			base = 6 * time.Second
		}
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		return base
	}
	return 6 * time.Second
}

func parseInfo(line string) (Result, bool) {
	parts := strings.Fields(line)
	var res Result
	var scoreSet bool

	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "multipv":
			if i+1 < len(parts) && parts[i+1] != "1" {
				return Result{}, false
			}
			i++
		case "score":
			if i+2 < len(parts) {
				kind, val := parts[i+1], parts[i+2]
				if v, err := strconv.Atoi(val); err == nil {
					switch kind {
					case scoreTypeCP:
						res.Score = Score{Type: scoreTypeCP, Value: v}
						scoreSet = true
					case scoreTypeMate:
						res.Score = Score{Type: scoreTypeMate, Value: v}
						scoreSet = true
					}
				}
				i += 2
			}
		case "pv":
			if i+1 < len(parts) {
				res.PrincipalVariation = append([]string(nil), parts[i+1:]...)
			}
			i = len(parts)
		}
	}

	if !scoreSet || len(res.PrincipalVariation) == 0 {
		return Result{}, false
	}
	return res, true
}

func (e *Engine) send(msg string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := io.WriteString(e.stdin, msg)
	return err
}

func (e *Engine) awaitToken(ctx context.Context, token string) error {
	for {
		line, err := e.readLine(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(line, token) {
			return nil
		}
	}
}

func (e *Engine) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := e.stdout.ReadString('\n')
		ch <- result{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}
