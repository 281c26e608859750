// Package metrics holds the prometheus collectors shared by the computation
// engines, the distribution adapters and the worker server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcomes recorded by ObserveTask.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartop_operations_total",
		Help: "Matrix operations executed, by operation and engine",
	}, []string{"op", "engine"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartop_operation_duration_seconds",
		Help:    "Wall time of matrix operations",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"op", "engine"})

	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartop_tasks_total",
		Help: "Row-range tasks finished, by kind and outcome",
	}, []string{"kind", "outcome"})

	parallelFactor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smartop_parallel_factor",
		Help: "Parallel factor chosen for the last operation of each kind",
	}, []string{"op"})
)

// ObserveOperation counts one operation and records its duration.
func ObserveOperation(op, engine string, elapsed time.Duration) {
	operationsTotal.WithLabelValues(op, engine).Inc()
	operationDuration.WithLabelValues(op, engine).Observe(elapsed.Seconds())
}

// ObserveTask counts one finished task.
func ObserveTask(kind, outcome string) {
	tasksTotal.WithLabelValues(kind, outcome).Inc()
}

// SetParallelFactor records the factor chosen for op.
func SetParallelFactor(op string, factor int) {
	parallelFactor.WithLabelValues(op).Set(float64(factor))
}

// Handler exposes the default registry in Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
