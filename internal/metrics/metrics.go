// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Registration outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeInternal = "internal_error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Registration metrics
	IncRegistration(outcome string)
	ObserveRegistrationDuration(duration time.Duration)
	ObservePasswordHashDuration(duration time.Duration)

	// Session metrics
	IncSessionIssued()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
