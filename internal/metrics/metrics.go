// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Accepted submissions
	ScheduledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "postpone_scheduled_total",
			Help: "Total number of delayed publications accepted",
		},
	)

	// Rejected submissions partitioned by reason
	RejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postpone_rejected_total",
			Help: "Total number of delayed publications rejected",
		},
		[]string{"reason"},
	)

	// Seconds between acceptance and the planned publish time
	PlannedDelaySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "postpone_planned_delay_seconds",
			Help:    "Delay between scheduling and the planned publish time",
			Buckets: []float64{0, 60, 300, 900, 1800, 3600, 4 * 3600, 12 * 3600, 24 * 3600, 7 * 24 * 3600},
		},
	)

	// Publications partitioned by mode (prepared, unprepared) and outcome
	PublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postpone_published_total",
			Help: "Total number of delayed publications executed",
		},
		[]string{"mode", "outcome"},
	)

	// Jobs waiting in the queue, sampled on every worker poll
	QueuePending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "postpone_queue_pending",
			Help: "Number of delayed publication jobs waiting in the queue",
		},
	)

	// Executed jobs partitioned by outcome (done, retried, dropped)
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postpone_jobs_total",
			Help: "Total number of queued jobs handled by the worker",
		},
		[]string{"command", "outcome"},
	)
)
