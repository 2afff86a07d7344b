// Package metrics exposes Prometheus counters and a duration histogram for
// solve calls, adapted from the gauge/counter/histogram layout used by
// acdtunes-spacetraders's manufacturing metrics collector, scaled down to
// this module's single operation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "clsp"
	subsystem = "solver"
)

// Registry is the Prometheus registry solve metrics are registered against.
// Left nil (disabled) unless the CLI's server mode calls Enable.
var Registry *prometheus.Registry

var (
	solvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "solves_total",
			Help:      "Total Solve invocations by terminal status",
		},
		[]string{"status", "backend"},
	)

	solveDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of a Solve call",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"status"},
	)

	modelSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "model_variables",
			Help:      "Number of FD variables declared for a solve",
			Buckets:   []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{},
	)
)

// Enable creates and registers the registry; server mode calls this before
// starting its /metrics endpoint. Solve calls made before Enable simply
// record into unregistered collectors, which is harmless.
func Enable() *prometheus.Registry {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(solvesTotal, solveDurationSeconds, modelSize)
	return Registry
}

// RecordSolve records one Solve call's terminal status, backend name, and
// duration — the per-status breakdown spec.md §7's error-kind taxonomy
// implies should be observable.
func RecordSolve(status, backend string, duration time.Duration) {
	solvesTotal.WithLabelValues(status, backend).Inc()
	solveDurationSeconds.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordModelSize records the declared variable count for a solve.
func RecordModelSize(variables int) {
	modelSize.WithLabelValues().Observe(float64(variables))
}
