// Package metrics provides Prometheus metrics collection for the fertilizer service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// RecommendationsTotal counts recommendation builds by mode (single, multi)
	// and status (success, degraded, error).
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fertilizer_recommendations_total",
			Help: "Total number of fertilizer recommendations built",
		},
		[]string{"mode", "status"},
	)

	// RecommendationDuration tracks the time to build one recommendation,
	// upstream calls included.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fertilizer_recommendation_duration_seconds",
			Help:    "Fertilizer recommendation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// GatewayRequestsTotal counts upstream calls by gateway and result.
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of upstream gateway requests",
		},
		[]string{"gateway", "result"},
	)

	// GatewayFallbacksTotal counts responses served from fallback data.
	GatewayFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Total number of responses served from fallback data",
		},
		[]string{"gateway"},
	)

	// PrescriptionCacheOperationsTotal tracks prescription cache operations.
	PrescriptionCacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_cache_operations_total",
			Help: "Total number of prescription cache operations",
		},
		[]string{"operation", "result"},
	)

	// PrescriptionCacheSize tracks the current number of cached prescriptions.
	PrescriptionCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prescription_cache_size",
			Help: "Current prescription cache size",
		},
	)

	// CircuitBreakerState exposes breaker state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// LLMCallsTotal counts language model calls by task and result.
	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"task", "result"},
	)

	// LLMCallDuration tracks language model latency by task.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Language model call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"task"},
	)

	// KnowledgeSearchesTotal counts knowledge index searches by result
	// (hit, empty, error).
	KnowledgeSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_searches_total",
			Help: "Total number of knowledge index searches",
		},
		[]string{"result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRecommendation records one recommendation build.
func RecordRecommendation(mode, status string, duration time.Duration) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationsTotal.WithLabelValues(mode, status).Inc()
}

// RecordGatewayRequest records an upstream call result
// (success, error, circuit_open, cache_hit).
func RecordGatewayRequest(gateway, result string) {
	GatewayRequestsTotal.WithLabelValues(gateway, result).Inc()
}

// RecordGatewayFallback records a response served from fallback data.
func RecordGatewayFallback(gateway string) {
	GatewayFallbacksTotal.WithLabelValues(gateway).Inc()
}

// RecordPrescriptionCacheOperation records a prescription cache operation.
func RecordPrescriptionCacheOperation(operation, result string) {
	PrescriptionCacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdatePrescriptionCacheSize sets the prescription cache size gauge.
func UpdatePrescriptionCacheSize(size int) {
	PrescriptionCacheSize.Set(float64(size))
}

// RecordCircuitBreakerState sets the state gauge for a breaker.
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordLLMCall records one language model call.
func RecordLLMCall(task, result string, duration time.Duration) {
	LLMCallDuration.WithLabelValues(task).Observe(duration.Seconds())
	LLMCallsTotal.WithLabelValues(task, result).Inc()
}

// RecordKnowledgeSearch records one knowledge index search.
func RecordKnowledgeSearch(result string) {
	KnowledgeSearchesTotal.WithLabelValues(result).Inc()
}
