package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncCreated(KindNote)
	m.IncCreated(KindNote)
	m.IncDeleted(KindComment)
	m.IncRejected(KindComment, ReasonBanned)
	m.IncAccessDecision("not_found")
	m.IncLogin(true)
	m.IncLogin(false)
	m.IncLogin(false)

	snap := m.Snapshot()
	if snap.Created[KindNote] != 2 {
		t.Errorf("Created[note] = %d, want 2", snap.Created[KindNote])
	}
	if snap.Deleted[KindComment] != 1 {
		t.Errorf("Deleted[comment] = %d, want 1", snap.Deleted[KindComment])
	}
	if snap.Rejected["comment/banned"] != 1 {
		t.Errorf("Rejected[comment/banned] = %d, want 1", snap.Rejected["comment/banned"])
	}
	if snap.LoginSuccess != 1 || snap.LoginFailure != 2 {
		t.Errorf("logins = %d/%d, want 1/2", snap.LoginSuccess, snap.LoginFailure)
	}

	// Snapshot must be a copy.
	snap.Created[KindNote] = 100
	if m.Snapshot().Created[KindNote] != 2 {
		t.Error("Snapshot should not alias internal state")
	}
}

func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	if err != nil {
		t.Fatalf("NewPrometheus() error = %v", err)
	}

	p.IncCreated(KindNews)
	p.IncRejected(KindComment, ReasonBanned)
	p.IncLogin(true)

	expected := `
# HELP yapress_resources_created_total Resources created, by kind.
# TYPE yapress_resources_created_total counter
yapress_resources_created_total{kind="news"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "yapress_resources_created_total"); err != nil {
		t.Error(err)
	}

	if got := testutil.ToFloat64(p.rejected.WithLabelValues(KindComment, ReasonBanned)); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}

	if _, err := NewPrometheus(reg); err == nil {
		t.Error("registering twice on the same registry should fail")
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	r := NewNoop()
	r.IncCreated(KindNote)
	r.IncEventPublished("success")
}
