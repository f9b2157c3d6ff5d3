// Package metrics holds the prometheus collectors of the dispatch service.
// Adapters record into the package variables; cmd registers them once and
// serves Registry on /metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_http_requests_total", Help: "HTTP requests by method, route and status."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ZoneAssignments counts orders handled by zone assignment by outcome:
	// assigned, fallback, out_of_bounds, already_zoned.
	ZoneAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_zone_assignments_total", Help: "Orders processed by zone assignment."},
		[]string{"outcome"},
	)
	RunAssignmentConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_run_assignment_conflicts_total", Help: "Driver or vehicle assignments rejected as already committed."},
	)
	CapacityRejections = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_capacity_rejections_total", Help: "Assignments rejected by vehicle capacity."},
	)
	// Notifications counts notices by kind (customer, driver) and outcome
	// (sent, already_sent, failed).
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_notifications_total", Help: "Notification attempts by kind and outcome."},
		[]string{"kind", "outcome"},
	)
	// CollaboratorLatency is per external call, in seconds.
	CollaboratorLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_collaborator_latency_seconds",
			Help:    "Latency of calls to external collaborators.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service", "operation", "status"},
	)
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_job_runs_total", Help: "Scheduled job executions by job and status."},
		[]string{"job", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector plus the Go and process
// collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			ZoneAssignments,
			RunAssignmentConflicts,
			CapacityRejections,
			Notifications,
			CollaboratorLatency,
			JobRuns,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// ObserveCall returns a func that records the latency of one collaborator
// call; pass it the call's error.
//
//	done := metrics.ObserveCall("ors", "geocode")
//	coords, err := c.geocode(ctx, address)
//	done(err)
func ObserveCall(service string, operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		CollaboratorLatency.WithLabelValues(service, operation, status).Observe(time.Since(start).Seconds())
	}
}

// RecordZoneAssignments adds the outcome counts of one zone assignment pass.
func RecordZoneAssignments(assigned int, fallback int, outOfBounds int, alreadyZoned int) {
	ZoneAssignments.WithLabelValues("assigned").Add(float64(assigned))
	ZoneAssignments.WithLabelValues("fallback").Add(float64(fallback))
	ZoneAssignments.WithLabelValues("out_of_bounds").Add(float64(outOfBounds))
	ZoneAssignments.WithLabelValues("already_zoned").Add(float64(alreadyZoned))
}
