package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulingMetrics records outcomes for appointment booking operations.
type SchedulingMetrics struct {
	duration  *prometheus.HistogramVec
	booked    *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewSchedulingMetrics registers the scheduling metrics on the provided registerer.
func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	if reg == nil {
		return &SchedulingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appointment_op_duration_seconds",
		Help:    "Duration of appointment operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	booked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_booked_total",
		Help: "Appointments successfully written.",
	}, []string{"op"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_conflicts_total",
		Help: "Booking attempts rejected because the agent was busy.",
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_failures_total",
		Help: "Appointment operations that failed for other reasons.",
	}, []string{"op"})
	reg.MustRegister(duration, booked, conflicts, failures)
	return &SchedulingMetrics{
		duration:  duration,
		booked:    booked,
		conflicts: conflicts,
		failures:  failures,
	}
}

// ObserveDuration records the duration for the named operation.
func (s *SchedulingMetrics) ObserveDuration(op string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncBooked increments the success counter for the named operation.
func (s *SchedulingMetrics) IncBooked(op string) {
	if s == nil || s.booked == nil {
		return
	}
	s.booked.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncConflict increments the conflict counter for the named operation.
func (s *SchedulingMetrics) IncConflict(op string) {
	if s == nil || s.conflicts == nil {
		return
	}
	s.conflicts.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (s *SchedulingMetrics) IncFailure(op string) {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
