// Package metrics exposes the engine's Prometheus instrumentation. Counters
// are package level, mirroring the HTTP middleware, so call sites record
// observations without carrying a registry around.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	paymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kopledger_payments_processed_total",
			Help: "Total number of settlement payments processed",
		},
		[]string{"kind", "status"},
	)

	transformationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kopledger_transformations_processed_total",
			Help: "Total number of stock transformations processed",
		},
		[]string{"status"},
	)

	batchesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kopledger_batches_processed_total",
			Help: "Total number of batch runs",
		},
	)

	batchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kopledger_batch_items_total",
			Help: "Total batch items by outcome",
		},
		[]string{"outcome"},
	)

	engineErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kopledger_engine_errors_total",
			Help: "Total engine failures by error category",
		},
		[]string{"category"},
	)
)

// RecordPayment counts one payment attempt by kind and final status.
func RecordPayment(kind, status string) {
	paymentsProcessed.WithLabelValues(kind, status).Inc()
}

// RecordTransformation counts one transformation attempt by final status.
func RecordTransformation(status string) {
	transformationsProcessed.WithLabelValues(status).Inc()
}

// RecordBatch counts a batch run and its per-item outcomes.
func RecordBatch(succeeded, failed, skipped int) {
	batchesProcessed.Inc()
	batchItems.WithLabelValues("succeeded").Add(float64(succeeded))
	batchItems.WithLabelValues("failed").Add(float64(failed))
	batchItems.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordEngineError counts one failure by error category.
func RecordEngineError(category string) {
	engineErrors.WithLabelValues(category).Inc()
}
