package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_api_requests_total",
		Help: "Total number of API requests issued",
	}, []string{"method", "path", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_api_request_duration_seconds",
		Help:    "Latency of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	RequestFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_api_request_failures_total",
		Help: "Total number of failed API requests by failure kind",
	}, []string{"kind"})

	SessionExpiriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_session_expiries_total",
		Help: "Total number of forced logouts after a 401 response",
	})

	RefreshCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_refresh_cycles_total",
		Help: "Total number of completed resource refresh cycles",
	})

	RefreshFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_refresh_failures_total",
		Help: "Total number of failed resource refreshes",
	}, []string{"resource"})

	SearchFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_search_fallbacks_total",
		Help: "Total number of searches served by the fetch-all fallback",
	}, []string{"resource"})

	SnapshotWarmStartsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_snapshot_warm_starts_total",
		Help: "Total number of containers warmed from a cached snapshot",
	}, []string{"resource"})
)
