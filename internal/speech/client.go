package speech

import (
	"context"
	"sync"

	"github.com/park285/chess-coach-go/internal/httpjson"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// Client voices narration text through the TTS sidecar. The sidecar plays
// audio on the device and returns once playback finishes, so one request
// maps to one utterance. Only a single utterance is in flight at a time;
// starting a new one cancels the previous request.
type Client struct {
	http *httpjson.Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(http *httpjson.Client) *Client {
	return &Client{http: http}
}

type speakRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

// Speak starts an utterance and calls done exactly once when it ends,
// whether it finished, failed, or was cancelled.
func (c *Client) Speak(text, locale string, done func()) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer done()
		defer cancel()
		if err := c.http.Post(ctx, "/api/tts", speakRequest{Text: text, Locale: locale}, nil, false); err != nil {
			if ctx.Err() == nil {
				obslog.L().Warn("tts_failed", zap.Error(err))
			}
		}
	}()
}

// Cancel aborts the in-flight utterance, if any. The pending Speak call
// still runs its done callback.
func (c *Client) Cancel() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}
