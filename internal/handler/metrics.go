package handler

import (
	"fmt"
	"net/http"

	"github.com/signet/signet/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, outcome := range []string{
		metrics.OutcomeSuccess,
		metrics.OutcomeInvalid,
		metrics.OutcomeConflict,
		metrics.OutcomeInternal,
	} {
		writeMetric(w, "signet_registrations_total{outcome=%q} %d\n", outcome, snap.Registrations[outcome])
	}

	writeMetric(w, "signet_registration_duration_seconds_count %d\n", snap.RegistrationDurationCount)
	writeMetric(w, "signet_registration_duration_seconds_sum %.6f\n", float64(snap.RegistrationDurationTotalNs)/1e9)
	writeMetric(w, "signet_password_hash_duration_seconds_count %d\n", snap.PasswordHashDurationCount)
	writeMetric(w, "signet_password_hash_duration_seconds_sum %.6f\n", float64(snap.PasswordHashDurationTotalNs)/1e9)
	writeMetric(w, "signet_sessions_issued_total %d\n", snap.SessionsIssued)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
