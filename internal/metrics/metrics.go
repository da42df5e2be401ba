// Package metrics exposes the meter's operational counters. Every drop and
// eviction is counted; nothing is lost silently.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cicflowmeter"

var (
	// PacketsProcessed counts packets accepted into the flow table.
	PacketsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packets_processed_total",
		Help:      "Packets accepted into the flow table.",
	})

	// PacketsDropped counts malformed packets rejected at the driver
	// boundary (no usable L3/L4 addressing).
	PacketsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packets_dropped_total",
		Help:      "Malformed packets dropped before ingestion.",
	})

	// FlowsCreated counts flow table insertions.
	FlowsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flows_created_total",
		Help:      "Flows created in the table.",
	})

	// FlowsExpired counts flow evictions by reason (idle, active, tcp,
	// lru, drain).
	FlowsExpired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flows_expired_total",
		Help:      "Flows expired from the table, by reason.",
	}, []string{"reason"})

	// RecordsWritten counts feature records handed to the output sink.
	RecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_written_total",
		Help:      "Feature records written to the sink.",
	})
)

// Serve blocks, exposing the counters on addr under /metrics.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
