package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCreated is a no-op.
func (n *NoopRecorder) IncCreated(kind string) {}

// IncUpdated is a no-op.
func (n *NoopRecorder) IncUpdated(kind string) {}

// IncDeleted is a no-op.
func (n *NoopRecorder) IncDeleted(kind string) {}

// IncAccessDecision is a no-op.
func (n *NoopRecorder) IncAccessDecision(decision string) {}

// IncRejected is a no-op.
func (n *NoopRecorder) IncRejected(kind, reason string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(success bool) {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}
