// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Resource kinds used as metric labels.
const (
	KindNote    = "note"
	KindNews    = "news"
	KindComment = "comment"
	KindUser    = "user"
)

// Rejection reasons used as metric labels.
const (
	ReasonEmpty    = "empty"
	ReasonInvalid  = "invalid"
	ReasonBanned   = "banned"
	ReasonConflict = "conflict"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Content lifecycle
	IncCreated(kind string)
	IncUpdated(kind string)
	IncDeleted(kind string)

	// Policy outcomes
	IncAccessDecision(decision string)
	IncRejected(kind, reason string)

	// Authentication
	IncLogin(success bool)

	// Event pipeline
	IncEventPublished(status string) // status: "success" or "dropped"
}
