package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yapress/yapress/internal/metrics"
)

type message struct {
	key   string
	value []byte
}

type fakeSink struct {
	mu       sync.Mutex
	messages []message
	err      error
	closed   bool
}

func (s *fakeSink) Send(ctx context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message{key: string(key), value: value})
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func TestPublisher_PublishEncodesEvent(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	p := NewPublisher(sink, nil, nil)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:    CommentCreated,
		ID:      "c1",
		OwnerID: "u1",
		NewsID:  "n1",
		At:      at,
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(sink.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(sink.messages))
	}
	msg := sink.messages[0]
	if msg.key != "c1" {
		t.Errorf("key = %q, want %q", msg.key, "c1")
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg.value, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "comment.created" || decoded["news_id"] != "n1" || decoded["owner_id"] != "u1" {
		t.Errorf("payload = %v", decoded)
	}
}

func TestEvent_KeyFallsBackToNewsID(t *testing.T) {
	t.Parallel()

	e := Event{Type: CommentRejected, OwnerID: "u1", NewsID: "n1"}
	if e.Key() != "n1" {
		t.Errorf("Key() = %q, want %q", e.Key(), "n1")
	}
}

func TestPublisher_AsyncCountsOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sinkErr error
		status  string
	}{
		{"success", nil, "success"},
		{"dropped", errors.New("broker down"), "dropped"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &fakeSink{err: tt.sinkErr}
			rec := metrics.NewInMemory()
			p := NewPublisher(sink, nil, rec)

			p.PublishAsync(Event{Type: NoteCreated, ID: "n1", OwnerID: "u1"})

			if err := p.Close(context.Background()); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := rec.Snapshot().EventsPublished[tt.status]; got != 1 {
				t.Errorf("EventsPublished[%s] = %d, want 1", tt.status, got)
			}
			if !sink.closed {
				t.Error("sink should be closed")
			}
		})
	}
}

func TestPublisher_NoopDropsSilently(t *testing.T) {
	t.Parallel()

	p := NewNoop()
	if p.Enabled() {
		t.Error("noop publisher should be disabled")
	}
	p.PublishAsync(Event{Type: NewsCreated, ID: "x"})
	if err := p.Publish(context.Background(), Event{Type: NewsCreated}); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
