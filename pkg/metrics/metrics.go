package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry through promauto.

var (
	// HttpRequestsTotal counts API requests by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgrid_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures API response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadgrid_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	// RoadVehicles tracks the occupancy of every directed road.
	RoadVehicles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roadgrid_road_vehicles",
			Help: "Current number of vehicles on a directed road",
		},
		[]string{"road", "from", "to"},
	)

	// SignalTicksTotal counts runs of the periodic signal recomputation.
	SignalTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roadgrid_signal_ticks_total",
			Help: "Number of automatic signal recomputation ticks",
		},
	)

	// SignalRecomputeTotal counts per-intersection recomputations by outcome
	// ("updated", "unchanged", "skipped").
	SignalRecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgrid_signal_recompute_total",
			Help: "Automatic signal recomputations by result",
		},
		[]string{"result"},
	)

	// SignalStateChanges counts transitions into each signal state.
	SignalStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgrid_signal_state_changes_total",
			Help: "Signal state transitions by new state",
		},
		[]string{"state"},
	)

	// PathQueriesTotal counts shortest-path queries ("found", "no_path", "error").
	PathQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgrid_path_queries_total",
			Help: "Shortest path queries by result",
		},
		[]string{"result"},
	)

	// OperationErrors counts failed engine operations by error kind.
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadgrid_operation_errors_total",
			Help: "Failed network operations by operation and error kind",
		},
		[]string{"op", "kind"},
	)
)
