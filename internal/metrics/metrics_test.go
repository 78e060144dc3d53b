package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/api/crops", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		label          string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/api/crops",
			label:          "/api/crops",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			label:          "/error",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "collapses unmatched paths",
			path:           "/no/such/route",
			label:          "unmatched",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, tt.label, strconv.Itoa(tt.expectedStatus)))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			after := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, tt.label, strconv.Itoa(tt.expectedStatus)))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("single", "degraded"))
	RecordRecommendation("single", "degraded", 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RecommendationsTotal.WithLabelValues("single", "degraded")))
}

func TestRecordGatewayMetrics(t *testing.T) {
	before := testutil.ToFloat64(GatewayFallbacksTotal.WithLabelValues("soil"))
	RecordGatewayFallback("soil")
	RecordGatewayRequest("soil", "error")
	assert.Equal(t, before+1, testutil.ToFloat64(GatewayFallbacksTotal.WithLabelValues("soil")))
	assert.Positive(t, testutil.ToFloat64(GatewayRequestsTotal.WithLabelValues("soil", "error")))
}

func TestRecordPrescriptionCacheMetrics(t *testing.T) {
	before := testutil.ToFloat64(PrescriptionCacheOperationsTotal.WithLabelValues("get", "hit"))
	RecordPrescriptionCacheOperation("get", "hit")
	assert.Equal(t, before+1, testutil.ToFloat64(PrescriptionCacheOperationsTotal.WithLabelValues("get", "hit")))

	UpdatePrescriptionCacheSize(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(PrescriptionCacheSize))
}

func TestRecordCircuitBreakerState(t *testing.T) {
	RecordCircuitBreakerState("soil-api", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("soil-api")))
	RecordCircuitBreakerState("soil-api", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("soil-api")))
}

func TestRecordLLMAndKnowledge(t *testing.T) {
	before := testutil.ToFloat64(LLMCallsTotal.WithLabelValues("route", "success"))
	RecordLLMCall("route", "success", time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(LLMCallsTotal.WithLabelValues("route", "success")))

	before = testutil.ToFloat64(KnowledgeSearchesTotal.WithLabelValues("empty"))
	RecordKnowledgeSearch("empty")
	assert.Equal(t, before+1, testutil.ToFloat64(KnowledgeSearchesTotal.WithLabelValues("empty")))
}
