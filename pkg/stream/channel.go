package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/stackscout/backend/internal/metrics"
)

// ErrClosed is returned by Emit after the terminal done event.
var ErrClosed = errors.New("stream: channel closed")

// Channel serializes events onto one HTTP response as newline-delimited
// JSON, flushed eagerly so the client renders each event as it arrives.
// Emit is safe for concurrent use; a batch passed to one Emit call is
// written contiguously.
type Channel struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	opened  bool
	closed  bool
}

// NewChannel wraps a response writer. Open must be called before Emit.
func NewChannel(w http.ResponseWriter) *Channel {
	flusher, _ := w.(http.Flusher)
	return &Channel{w: w, flusher: flusher}
}

// Open commits the response headers for an incremental NDJSON stream.
// After Open the status code can no longer change; failures must be
// surfaced as events.
func (c *Channel) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened {
		return
	}

	header := c.w.Header()
	header.Set("Content-Type", "application/x-ndjson")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.w.WriteHeader(http.StatusOK)

	c.opened = true
}

// Opened reports whether the response headers have been committed.
func (c *Channel) Opened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Emit appends the given events to the stream in order, as one contiguous
// block, flushing after each event. Emitting a done event closes the
// channel; any later Emit returns ErrClosed.
func (c *Channel) Emit(events ...Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return errors.New("stream: channel not opened")
	}

	for _, event := range events {
		if c.closed {
			return ErrClosed
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("stream: failed to encode %s event: %w", event.Type, err)
		}
		if _, err := c.w.Write(append(payload, '\n')); err != nil {
			return fmt.Errorf("stream: write failed: %w", err)
		}
		if c.flusher != nil {
			c.flusher.Flush()
		}

		metrics.EventsEmitted.WithLabelValues(event.Type).Inc()
		if event.Type == EventDone {
			c.closed = true
		}
	}
	return nil
}
