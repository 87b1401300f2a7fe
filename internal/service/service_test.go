package service

import (
	"sync"
	"testing"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/repository/memory"
	"github.com/yapress/yapress/internal/wordfilter"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) PublishAsync(event events.Event) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	store    *memory.Store
	events   *recordingPublisher
	metrics  *metrics.InMemoryRecorder
	notes    *NoteService
	news     *NewsService
	comments *CommentService
	users    *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	pub := &recordingPublisher{}
	rec := metrics.NewInMemory()
	filter := wordfilter.MustNew(wordfilter.Rules{Words: wordfilter.DefaultWords})

	return &env{
		store:    store,
		events:   pub,
		metrics:  rec,
		notes:    NewNoteService(store, pub, rec),
		news:     NewNewsService(store, pub, rec, 0),
		comments: NewCommentService(store, filter, pub, rec),
		users:    NewUserService(store, rec),
	}
}
