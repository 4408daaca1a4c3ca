package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// ObserveRegistrationDuration is a no-op.
func (n *NoopRecorder) ObserveRegistrationDuration(duration time.Duration) {}

// ObservePasswordHashDuration is a no-op.
func (n *NoopRecorder) ObservePasswordHashDuration(duration time.Duration) {}

// IncSessionIssued is a no-op.
func (n *NoopRecorder) IncSessionIssued() {}
