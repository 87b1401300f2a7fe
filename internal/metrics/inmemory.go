package metrics

import "sync"

// Snapshot captures current in-memory counters, keyed by label.
type Snapshot struct {
	Created         map[string]uint64
	Updated         map[string]uint64
	Deleted         map[string]uint64
	AccessDecisions map[string]uint64
	Rejected        map[string]uint64 // key: kind + "/" + reason
	LoginSuccess    uint64
	LoginFailure    uint64
	EventsPublished map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: newSnapshot()}
}

func newSnapshot() Snapshot {
	return Snapshot{
		Created:         map[string]uint64{},
		Updated:         map[string]uint64{},
		Deleted:         map[string]uint64{},
		AccessDecisions: map[string]uint64{},
		Rejected:        map[string]uint64{},
		EventsPublished: map[string]uint64{},
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := newSnapshot()
	copyInto(out.Created, m.snap.Created)
	copyInto(out.Updated, m.snap.Updated)
	copyInto(out.Deleted, m.snap.Deleted)
	copyInto(out.AccessDecisions, m.snap.AccessDecisions)
	copyInto(out.Rejected, m.snap.Rejected)
	copyInto(out.EventsPublished, m.snap.EventsPublished)
	out.LoginSuccess = m.snap.LoginSuccess
	out.LoginFailure = m.snap.LoginFailure
	return out
}

// IncCreated increments the created counter for kind.
func (m *InMemoryRecorder) IncCreated(kind string) {
	m.inc(m.snap.Created, kind)
}

// IncUpdated increments the updated counter for kind.
func (m *InMemoryRecorder) IncUpdated(kind string) {
	m.inc(m.snap.Updated, kind)
}

// IncDeleted increments the deleted counter for kind.
func (m *InMemoryRecorder) IncDeleted(kind string) {
	m.inc(m.snap.Deleted, kind)
}

// IncAccessDecision counts guard outcomes.
func (m *InMemoryRecorder) IncAccessDecision(decision string) {
	m.inc(m.snap.AccessDecisions, decision)
}

// IncRejected counts rejected submissions.
func (m *InMemoryRecorder) IncRejected(kind, reason string) {
	m.inc(m.snap.Rejected, kind+"/"+reason)
}

// IncLogin counts login attempts.
func (m *InMemoryRecorder) IncLogin(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.snap.LoginSuccess++
	} else {
		m.snap.LoginFailure++
	}
}

// IncEventPublished counts event publish outcomes.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	m.inc(m.snap.EventsPublished, status)
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, key string) {
	m.mu.Lock()
	counter[key]++
	m.mu.Unlock()
}

func copyInto(dst, src map[string]uint64) {
	for k, v := range src {
		dst[k] = v
	}
}
