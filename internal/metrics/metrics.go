// Package metrics provides Prometheus metrics for the TCG Explorer backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tcg_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Gateway Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_cache_hits_total",
			Help: "Gateway cache hits by query kind",
		},
		[]string{"kind"}, // "set", "all_sets", "search"
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_cache_misses_total",
			Help: "Gateway cache misses by query kind",
		},
		[]string{"kind"},
	)

	// Card API Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_upstream_requests_total",
			Help: "Card API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok", "not_found", "transient", "rejected", "schema"
	)

	UpstreamRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_upstream_retries_total",
			Help: "Card API request attempts beyond the first",
		},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tcg_upstream_latency_seconds",
			Help:    "Card API call latency, including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	UpstreamPagesFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_upstream_pages_per_query",
			Help:    "Number of pages fetched for one paginated query",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	// Intent Resolution Metrics
	IntentResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_intent_resolutions_total",
			Help: "Resolved intents by resolver and intent kind",
		},
		[]string{"resolver", "intent"}, // resolver: "model", "keyword"
	)

	IntentCoercionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_intent_coercions_total",
			Help: "Model outputs coerced to unknown, by reason",
		},
		[]string{"reason"}, // "unparseable", "unknown_tag", "missing_param", "bad_param"
	)

	ClarificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_clarifications_total",
			Help: "Turns answered with a clarification request",
		},
	)

	// Gemini Metrics
	GeminiRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_gemini_requests_total",
			Help: "Total Gemini intent classification requests",
		},
	)

	GeminiAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_gemini_api_latency_seconds",
			Help:    "Gemini API call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	GeminiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_gemini_errors_total",
			Help: "Gemini API errors by type",
		},
		[]string{"type"}, // "disabled", "timeout", "api", "empty"
	)

	// Response Metrics
	ResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_responses_total",
			Help: "Composed responses by intent and status",
		},
		[]string{"intent", "status"}, // status: "ok", "no_data", "error", "clarification"
	)
)
