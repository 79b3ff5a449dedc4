// Package monitoring exposes the Prometheus metrics recorded by the service
// and HTTP layers.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool call outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcdata_tool_calls_total",
			Help: "Total number of tool calls by outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vcdata_tool_duration_seconds",
			Help:    "Duration of tool calls in seconds, including the store fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	SnapshotRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vcdata_snapshot_records",
			Help: "Number of records in the most recently fetched snapshot",
		},
	)

	StoreFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcdata_store_fetch_errors_total",
			Help: "Total number of failed record store fetches",
		},
		[]string{"tool"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcdata_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// ObserveTool records one finished tool call.
func ObserveTool(tool, outcome string, started time.Time) {
	ToolCalls.WithLabelValues(tool, outcome).Inc()
	ToolDuration.WithLabelValues(tool).Observe(time.Since(started).Seconds())
}
