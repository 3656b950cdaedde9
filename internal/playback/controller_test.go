package playback

import (
	"testing"
	"time"
)

func TestGoToClamps(t *testing.T) {
	c := NewController(40, nil)
	c.GoTo(-5)
	if got := c.Current(); got != 0 {
		t.Fatalf("GoTo(-5) = %d, want 0", got)
	}
	c.GoTo(999)
	if got := c.Current(); got != 40 {
		t.Fatalf("GoTo(999) = %d, want 40", got)
	}
}

func TestStepAndJumpKeys(t *testing.T) {
	c := NewController(3, nil)
	c.StepBack()
	if got := c.Current(); got != 0 {
		t.Fatalf("StepBack at start = %d, want 0", got)
	}
	c.StepForward()
	c.StepForward()
	if got := c.Current(); got != 2 {
		t.Fatalf("two steps = %d, want 2", got)
	}
	c.Last()
	c.StepForward()
	if got := c.Current(); got != 3 {
		t.Fatalf("StepForward at end = %d, want 3", got)
	}
	c.First()
	if got := c.Current(); got != 0 {
		t.Fatalf("First = %d, want 0", got)
	}
}

func TestListenersFireOnChangeOnly(t *testing.T) {
	c := NewController(5, nil)
	var seen []int
	c.AddListener(func(ply int) { seen = append(seen, ply) })

	c.GoTo(3)
	c.GoTo(3)  // no change, no event
	c.GoTo(-1) // clamps to 0
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 0 {
		t.Fatalf("events = %v, want [3 0]", seen)
	}
}

func TestAutoPlayStopsAtEnd(t *testing.T) {
	c := NewController(3, nil)
	c.interval = time.Millisecond
	var done = make(chan struct{})
	c.AddListener(func(ply int) {
		if ply == 3 {
			close(done)
		}
	})

	c.Play()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("auto-play never reached the end")
	}
	c.Close()
	if c.IsPlaying() {
		t.Fatalf("playback must stop at the final position")
	}
	if got := c.Current(); got != 3 {
		t.Fatalf("cursor = %d, want 3", got)
	}
}

type stuckPauser struct{ paused bool }

func (p *stuckPauser) IsPausedForNarration() bool { return p.paused }

func TestAutoPlayHoldsForNarration(t *testing.T) {
	p := &stuckPauser{paused: true}
	c := NewController(5, p)
	c.interval = time.Millisecond

	c.Play()
	time.Sleep(20 * time.Millisecond)
	if got := c.Current(); got != 0 {
		t.Fatalf("cursor moved to %d while narration held the step", got)
	}
	c.Close()
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	c := NewController(100, &stuckPauser{paused: true})
	c.interval = time.Millisecond
	c.Play()
	c.Play()
	c.Pause()
	c.Pause()
	c.Close()
}
