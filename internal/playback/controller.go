package playback

import (
	"sync"
	"time"

	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

const defaultStepInterval = 1000 * time.Millisecond

// Listener is notified after every position change with the new ply.
// Callbacks run on the controller's goroutine; keep them short.
type Listener func(ply int)

// Pauser lets auto-play hold its step while narration is in progress.
type Pauser interface {
	IsPausedForNarration() bool
}

// Controller owns the playback cursor over a fixed-length move timeline.
// Position 0 is the starting position, position N is after the final move.
// All jumps clamp into [0, N]; out-of-range input is never an error.
type Controller struct {
	mu       sync.Mutex
	total    int
	current  int
	playing  bool
	interval time.Duration
	pauser   Pauser
	list     []Listener
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewController(totalPlies int, pauser Pauser) *Controller {
	if totalPlies < 0 {
		totalPlies = 0
	}
	return &Controller{
		total:    totalPlies,
		interval: defaultStepInterval,
		pauser:   pauser,
	}
}

// AddListener registers a position-change callback. Not safe to call while
// auto-play is running.
func (c *Controller) AddListener(l Listener) {
	c.mu.Lock()
	c.list = append(c.list, l)
	c.mu.Unlock()
}

func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// GoTo jumps to ply, clamped into range, and notifies listeners if the
// position actually changed.
func (c *Controller) GoTo(ply int) {
	c.mu.Lock()
	if ply < 0 {
		ply = 0
	}
	if ply > c.total {
		ply = c.total
	}
	changed := ply != c.current
	c.current = ply
	listeners := c.list
	c.mu.Unlock()

	if changed {
		notify(listeners, ply)
	}
}

func (c *Controller) StepForward() { c.GoTo(c.Current() + 1) }
func (c *Controller) StepBack()    { c.GoTo(c.Current() - 1) }
func (c *Controller) First()       { c.GoTo(0) }
func (c *Controller) Last()        { c.GoTo(c.Total()) }

func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Play starts auto-advance at the configured interval. Each tick moves one
// ply forward unless narration is holding the step; reaching the final
// position stops playback. Calling Play while already playing is a no-op.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.playing || c.current >= c.total {
		c.mu.Unlock()
		return
	}
	c.playing = true
	c.stopCh = make(chan struct{})
	stop := c.stopCh
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(stop)
	obslog.L().Debug("playback_started", zap.Int("from_ply", c.Current()))
}

func (c *Controller) run(stop chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.pauser != nil && c.pauser.IsPausedForNarration() {
				continue
			}
			c.StepForward()
			if c.Current() >= c.Total() {
				c.Pause()
				return
			}
		}
	}
}

// Pause stops auto-advance. The cursor stays where it is.
func (c *Controller) Pause() {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	c.playing = false
	close(c.stopCh)
	c.stopCh = nil
	c.mu.Unlock()
}

// TogglePlay flips between playing and paused.
func (c *Controller) TogglePlay() {
	if c.IsPlaying() {
		c.Pause()
	} else {
		c.Play()
	}
}

// Close stops playback and waits for the ticker goroutine to exit.
func (c *Controller) Close() {
	c.Pause()
	c.wg.Wait()
}

func notify(listeners []Listener, ply int) {
	for _, l := range listeners {
		l(ply)
	}
}
