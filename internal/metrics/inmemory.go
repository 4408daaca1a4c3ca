package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations               map[string]uint64
	RegistrationDurationCount   uint64
	RegistrationDurationTotalNs int64
	PasswordHashDurationCount   uint64
	PasswordHashDurationTotalNs int64
	SessionsIssued              uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu            sync.Mutex
	registrations map[string]uint64

	registrationDurationCount   uint64
	registrationDurationTotalNs int64
	passwordHashDurationCount   uint64
	passwordHashDurationTotalNs int64
	sessionsIssued              uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		registrations: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	registrations := make(map[string]uint64, len(m.registrations))
	for outcome, count := range m.registrations {
		registrations[outcome] = count
	}
	m.mu.Unlock()

	return Snapshot{
		Registrations:               registrations,
		RegistrationDurationCount:   atomic.LoadUint64(&m.registrationDurationCount),
		RegistrationDurationTotalNs: atomic.LoadInt64(&m.registrationDurationTotalNs),
		PasswordHashDurationCount:   atomic.LoadUint64(&m.passwordHashDurationCount),
		PasswordHashDurationTotalNs: atomic.LoadInt64(&m.passwordHashDurationTotalNs),
		SessionsIssued:              atomic.LoadUint64(&m.sessionsIssued),
	}
}

// IncRegistration increments the counter for a registration outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.mu.Lock()
	m.registrations[outcome]++
	m.mu.Unlock()
}

// ObserveRegistrationDuration records end-to-end registration duration.
func (m *InMemoryRecorder) ObserveRegistrationDuration(duration time.Duration) {
	atomic.AddUint64(&m.registrationDurationCount, 1)
	atomic.AddInt64(&m.registrationDurationTotalNs, duration.Nanoseconds())
}

// ObservePasswordHashDuration records password hashing duration.
func (m *InMemoryRecorder) ObservePasswordHashDuration(duration time.Duration) {
	atomic.AddUint64(&m.passwordHashDurationCount, 1)
	atomic.AddInt64(&m.passwordHashDurationTotalNs, duration.Nanoseconds())
}

// IncSessionIssued increments the issued session counter.
func (m *InMemoryRecorder) IncSessionIssued() {
	atomic.AddUint64(&m.sessionsIssued, 1)
}
