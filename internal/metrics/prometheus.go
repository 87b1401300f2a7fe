package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "yapress"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	created         *prometheus.CounterVec
	updated         *prometheus.CounterVec
	deleted         *prometheus.CounterVec
	accessDecisions *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	logins          *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// NewPrometheus creates collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	p := &PrometheusRecorder{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_created_total",
			Help:      "Resources created, by kind.",
		}, []string{"kind"}),
		updated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_updated_total",
			Help:      "Resources updated, by kind.",
		}, []string{"kind"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_deleted_total",
			Help:      "Resources deleted, by kind.",
		}, []string{"kind"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Ownership guard decisions.",
		}, []string{"decision"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Rejected form submissions, by kind and reason.",
		}, []string{"kind", "reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts, by result.",
		}, []string{"result"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Content events handed to the broker, by status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{
		p.created, p.updated, p.deleted, p.accessDecisions, p.rejected, p.logins, p.eventsPublished,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// IncCreated increments the created counter for kind.
func (p *PrometheusRecorder) IncCreated(kind string) {
	p.created.WithLabelValues(kind).Inc()
}

// IncUpdated increments the updated counter for kind.
func (p *PrometheusRecorder) IncUpdated(kind string) {
	p.updated.WithLabelValues(kind).Inc()
}

// IncDeleted increments the deleted counter for kind.
func (p *PrometheusRecorder) IncDeleted(kind string) {
	p.deleted.WithLabelValues(kind).Inc()
}

// IncAccessDecision counts guard outcomes.
func (p *PrometheusRecorder) IncAccessDecision(decision string) {
	p.accessDecisions.WithLabelValues(decision).Inc()
}

// IncRejected counts rejected submissions.
func (p *PrometheusRecorder) IncRejected(kind, reason string) {
	p.rejected.WithLabelValues(kind, reason).Inc()
}

// IncLogin counts login attempts.
func (p *PrometheusRecorder) IncLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.logins.WithLabelValues(result).Inc()
}

// IncEventPublished counts event publish outcomes.
func (p *PrometheusRecorder) IncEventPublished(status string) {
	p.eventsPublished.WithLabelValues(status).Inc()
}
