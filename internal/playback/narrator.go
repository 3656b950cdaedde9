package playback

import (
	"sync"

	"github.com/park285/chess-coach-go/internal/analysis"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// Speaker voices a single utterance. Speak must be asynchronous and call
// done exactly once when the utterance finishes or is cancelled. Cancel
// aborts the in-flight utterance, if any.
type Speaker interface {
	Speak(text, locale string, done func())
	Cancel()
}

// RenderFunc re-renders a message into another locale. Returning false
// means the message is voiced as stored.
type RenderFunc func(msg analysis.Message, locale string) (string, bool)

// Narrator voices coaching messages as the playback cursor lands on their
// plies. Each message is spoken at most once per game; revisiting a ply
// stays silent. While an utterance is in flight the narrator reports itself
// paused so auto-play holds its step.
type Narrator struct {
	mu       sync.Mutex
	speaker  Speaker
	locale   string
	rerender RenderFunc
	enabled  bool
	speaking bool
	gen      int // bumped per utterance so a stale done callback is ignored
	spoken   map[int]bool
	byPly    map[int]analysis.Message
}

func NewNarrator(speaker Speaker, locale string) *Narrator {
	if locale == "" {
		locale = "en"
	}
	return &Narrator{
		speaker: speaker,
		locale:  locale,
		enabled: true,
		spoken:  make(map[int]bool),
		byPly:   make(map[int]analysis.Message),
	}
}

// SetRenderFunc installs the locale re-render hook.
func (n *Narrator) SetRenderFunc(f RenderFunc) {
	n.mu.Lock()
	n.rerender = f
	n.mu.Unlock()
}

// SetMessages replaces the message set and resets the spoken history. A
// fresh analysis run means every message is narratable again.
func (n *Narrator) SetMessages(msgs []analysis.Message) {
	n.mu.Lock()
	n.byPly = make(map[int]analysis.Message, len(msgs))
	n.spoken = make(map[int]bool, len(msgs))
	for _, m := range msgs {
		n.byPly[m.Ply] = m
	}
	n.mu.Unlock()
}

// SetEnabled turns narration on or off. Disabling cancels any in-flight
// utterance immediately.
func (n *Narrator) SetEnabled(on bool) {
	n.mu.Lock()
	n.enabled = on
	cancel := !on && n.speaking
	if cancel {
		n.speaking = false
	}
	n.mu.Unlock()
	if cancel {
		n.speaker.Cancel()
	}
}

func (n *Narrator) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// IsPausedForNarration reports whether an utterance is in flight.
func (n *Narrator) IsPausedForNarration() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speaking
}

// OnPositionChanged is the playback listener hook. Landing on a ply with an
// unspoken message cancels any current utterance and starts narrating the
// new one.
func (n *Narrator) OnPositionChanged(ply int) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	msg, ok := n.byPly[ply]
	if !ok || n.spoken[ply] {
		// Nothing to narrate here: an utterance still in flight belongs to
		// a ply the user already left, so cut it and release playback.
		cancel := n.speaking
		if cancel {
			n.speaking = false
			n.gen++
		}
		n.mu.Unlock()
		if cancel {
			n.speaker.Cancel()
		}
		return
	}
	cancelFirst := n.speaking
	n.spoken[ply] = true
	n.speaking = true
	n.gen++
	gen := n.gen
	text := n.narrationText(msg)
	locale := n.locale
	n.mu.Unlock()

	if cancelFirst {
		n.speaker.Cancel()
	}
	obslog.L().Debug("narration_start", zap.Int("ply", ply), zap.String("msg_id", msg.ID))
	n.speaker.Speak(text, locale, func() {
		n.mu.Lock()
		if n.gen == gen {
			n.speaking = false
		}
		n.mu.Unlock()
	})
}

// narrationText voices the stored rendering unless the target locale
// differs and a re-render hook is installed. Callers hold n.mu.
func (n *Narrator) narrationText(msg analysis.Message) string {
	if msg.Locale != n.locale && n.rerender != nil {
		if text, ok := n.rerender(msg, n.locale); ok {
			return text
		}
	}
	return msg.Title + " " + msg.Body
}
