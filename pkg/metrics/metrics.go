// Package metrics holds the prometheus instruments for reconciliation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	KindShifts      = "shifts"
	KindAssignments = "assignments"
)

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	changes             *prometheus.CounterVec
	syncs               *prometheus.CounterVec
	duration            *prometheus.HistogramVec
	notificationsFailed prometheus.Counter
	gateUnassigned      prometheus.Counter
}

// New registers the instruments on reg
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		changes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdock_sync_changes_total",
			Help: "Rows added, updated or deleted by reconciliation.",
		}, []string{"kind", "op"}),
		syncs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdock_sync_total",
			Help: "Reconciliation calls by outcome.",
		}, []string{"kind", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftdock_sync_duration_seconds",
			Help:    "Reconciliation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		notificationsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "shiftdock_notifications_failed_total",
			Help: "Notifications that could not be delivered after a commit.",
		}),
		gateUnassigned: f.NewCounter(prometheus.CounterOpts{
			Name: "shiftdock_unassigned_by_status_gate_total",
			Help: "Assignments removed because their project stopped being active.",
		}),
	}
}

// ObserveSync records one reconciliation call
func (r *Recorder) ObserveSync(kind string, added, updated, deleted int, err error, started time.Time) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err != nil {
		r.syncs.WithLabelValues(kind, "error").Inc()
		return
	}
	r.syncs.WithLabelValues(kind, "success").Inc()
	r.changes.WithLabelValues(kind, "added").Add(float64(added))
	r.changes.WithLabelValues(kind, "updated").Add(float64(updated))
	r.changes.WithLabelValues(kind, "deleted").Add(float64(deleted))
}

func (r *Recorder) NotificationFailed() {
	if r == nil {
		return
	}
	r.notificationsFailed.Inc()
}

func (r *Recorder) UnassignedByGate(n int) {
	if r == nil {
		return
	}
	r.gateUnassigned.Add(float64(n))
}
