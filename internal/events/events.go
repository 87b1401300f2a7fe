// Package events publishes content lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yapress/yapress/internal/metrics"
)

// PublishTimeout bounds a single asynchronous publish.
const PublishTimeout = 2 * time.Second

// Type names a lifecycle transition.
type Type string

// Event types.
const (
	NewsCreated     Type = "news.created"
	NewsUpdated     Type = "news.updated"
	NewsDeleted     Type = "news.deleted"
	CommentCreated  Type = "comment.created"
	CommentUpdated  Type = "comment.updated"
	CommentDeleted  Type = "comment.deleted"
	CommentRejected Type = "comment.rejected"
	NoteCreated     Type = "note.created"
	NoteUpdated     Type = "note.updated"
	NoteDeleted     Type = "note.deleted"
)

// Event is the wire payload. ID is empty for rejected submissions.
type Event struct {
	Type    Type      `json:"type"`
	ID      string    `json:"id,omitempty"`
	OwnerID string    `json:"owner_id"`
	NewsID  string    `json:"news_id,omitempty"`
	At      time.Time `json:"at"`
}

// Key is the partition key: the resource id, or the news id for rejections.
func (e Event) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.NewsID
}

// Sink delivers encoded events.
type Sink interface {
	Send(ctx context.Context, key, value []byte) error
	Close() error
}

// Publisher hands events to a Sink without blocking request handling.
// A Publisher with a nil sink drops everything.
type Publisher struct {
	sink    Sink
	logger  *slog.Logger
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewPublisher creates a new event publisher.
func NewPublisher(sink Sink, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sink:    sink,
		logger:  logger.With("component", "events.publisher"),
		metrics: recorder,
	}
}

// NewNoop returns a publisher that discards events.
func NewNoop() *Publisher {
	return NewPublisher(nil, nil, nil)
}

// Enabled reports whether events reach a broker.
func (p *Publisher) Enabled() bool {
	return p != nil && p.sink != nil
}

// Publish sends an event synchronously.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if !p.Enabled() {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.sink.Send(ctx, []byte(event.Key()), data); err != nil {
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (p *Publisher) PublishAsync(event Event) {
	if !p.Enabled() {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.logger.Warn("event_publish_failed",
				"type", event.Type,
				"id", event.ID,
				"error", err,
			)
			p.metrics.IncEventPublished("dropped")
			return
		}

		p.logger.Debug("event_published", "type", event.Type, "id", event.ID)
		p.metrics.IncEventPublished("success")
	}()
}

// Close waits for in-flight publishes and closes the sink.
func (p *Publisher) Close(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("event_publisher_close_timeout", "error", ctx.Err())
	}

	return p.sink.Close()
}
