// Package metrics registers the Prometheus metrics for the scheduling
// domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduling counters.
type Metrics struct {
	ValidationsTotal   prometheus.Counter
	ConflictsFound     *prometheus.CounterVec
	AssignmentsBlocked prometheus.Counter
	ShiftsAssigned     prometheus.Counter
}

// New creates and registers the scheduling metrics.
func New() *Metrics {
	return &Metrics{
		ValidationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardhq_schedule_validations_total",
			Help: "Total number of assignment validations run",
		}),
		ConflictsFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardhq_schedule_conflicts_found_total",
			Help: "Validation findings by conflict type",
		}, []string{"type"}),
		AssignmentsBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardhq_schedule_assignments_blocked_total",
			Help: "Assignments rejected due to blocking conflicts",
		}),
		ShiftsAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardhq_schedule_shifts_assigned_total",
			Help: "Shifts successfully assigned to an officer",
		}),
	}
}

// ObserveConflicts counts one validation run and its findings.
func (m *Metrics) ObserveConflicts(types []string) {
	m.ValidationsTotal.Inc()
	for _, t := range types {
		m.ConflictsFound.WithLabelValues(t).Inc()
	}
}
