// Package observability provides Prometheus metrics for monitoring the
// couchgm gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// UpstreamBuckets defines histogram buckets suited for upstream REST and
// LLM latencies, ranging from 10ms to 60s.
var UpstreamBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}

var (
	// QueriesTotal counts processed queries by routed function (or
	// "none") and outcome.
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_queries_total",
			Help: "Total queries processed",
		},
		[]string{"function", "outcome"},
	)

	// QueryDuration records end-to-end query processing duration.
	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "couchgm_query_duration_seconds",
			Help:    "Query processing duration",
			Buckets: UpstreamBuckets,
		},
	)

	// RouterMatchesTotal counts router decisions by function; no-match
	// decisions use the function label "none".
	RouterMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_router_matches_total",
			Help: "Router decisions",
		},
		[]string{"function"},
	)

	// SleeperRequestsTotal counts requests sent to the Sleeper API.
	SleeperRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_sleeper_requests_total",
			Help: "Sleeper API requests",
		},
		[]string{"function", "status"},
	)

	// SleeperRequestDuration records Sleeper API request latency.
	SleeperRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchgm_sleeper_request_duration_seconds",
			Help:    "Sleeper API request latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"function"},
	)

	// SleeperCacheHitsTotal counts cache lookups by result.
	SleeperCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_sleeper_cache_hits_total",
			Help: "Sleeper response cache lookups",
		},
		[]string{"result"},
	)

	// LLMRequestsTotal counts generative backend calls by backend and status.
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_llm_requests_total",
			Help: "Generative backend requests",
		},
		[]string{"backend", "status"},
	)

	// LLMLatency records generative backend latency.
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchgm_llm_latency_seconds",
			Help:    "Generative backend latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"backend"},
	)

	// ComposerFallbacksTotal counts deterministic fallback renders by reason.
	ComposerFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchgm_composer_fallbacks_total",
			Help: "Deterministic fallback renders",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		QueriesTotal,
		QueryDuration,
		RouterMatchesTotal,
		SleeperRequestsTotal,
		SleeperRequestDuration,
		SleeperCacheHitsTotal,
		LLMRequestsTotal,
		LLMLatency,
		ComposerFallbacksTotal,
	)
}
