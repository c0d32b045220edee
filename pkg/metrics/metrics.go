package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Explorer API client
	ExplorerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmscan",
		Subsystem: "explorer",
		Name:      "requests_total",
		Help:      "Total explorer API requests by outcome",
	}, []string{"network", "action", "status"})

	ExplorerRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evmscan",
		Subsystem: "explorer",
		Name:      "request_duration_seconds",
		Help:      "Explorer API request duration",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"network", "action"})

	ExplorerRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmscan",
		Subsystem: "explorer",
		Name:      "rate_limit_waits_total",
		Help:      "Requests delayed by the client-side rate limiter",
	}, []string{"network"})

	// Views
	PageRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmscan",
		Subsystem: "views",
		Name:      "renders_total",
		Help:      "Rendered pages by view and network",
	}, []string{"view", "network"})

	DegradedResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmscan",
		Subsystem: "views",
		Name:      "degraded_results_total",
		Help:      "Fetch failures replaced by a default value",
	}, []string{"view", "network", "field"})

	// Navigation
	StaleEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "evmscan",
		Subsystem: "watcher",
		Name:      "stale_events_dropped_total",
		Help:      "Fetch results discarded because a newer navigation superseded them",
	})
)
