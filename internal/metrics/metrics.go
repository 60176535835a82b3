// Package metrics provides Prometheus metrics for the search pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OutboundRequestsTotal tracks calls to third-party APIs by service and outcome
	OutboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"service", "status"},
	)

	// OutboundRequestDuration tracks outbound HTTP request duration
	OutboundRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fwi",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service"},
	)

	// RunsTotal tracks pipeline runs by result
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of search runs by result",
		},
		[]string{"result"},
	)

	// RunDuration tracks the wall time of a search run
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fwi",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of search runs in seconds",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120},
		},
	)

	// RowsTotal tracks emitted table rows by table and origin (native or filled)
	RowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "pipeline",
			Name:      "rows_total",
			Help:      "Total number of table rows emitted",
		},
		[]string{"table", "kind"},
	)

	// DegradedUnitsTotal tracks dates or locations that produced nothing because a source failed
	DegradedUnitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "pipeline",
			Name:      "degraded_units_total",
			Help:      "Total number of days or locations skipped after a source failure",
		},
		[]string{"source"},
	)

	// SinkWritesTotal tracks table writes per sink and status
	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "sink",
			Name:      "writes_total",
			Help:      "Total number of table writes by sink and status",
		},
		[]string{"sink", "status"},
	)

	// LocationCacheLookups tracks location search cache hits and misses
	LocationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fwi",
			Subsystem: "reference",
			Name:      "location_cache_lookups_total",
			Help:      "Location search cache lookups by result",
		},
		[]string{"result"},
	)
)
