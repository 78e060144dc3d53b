package http

import (
	"net/http"
	"testing"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/mocks"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewRouter_RegistersGroups(t *testing.T) {
	store := newTestStore(t)
	recs := &mocks.MockRecommendationService{}
	recs.On("BuildRecommendation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(false), nil).Maybe()

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	cfg.FarmID = "farm001"
	router := NewRouter(Handlers{
		Recommendations: NewHandler(recs, store),
		Reference:       NewReferenceHandler(store),
		Weather:         NewWeatherHandler(&stubWeather{}, store),
		Tracker:         NewTrackerHandler(service.NewTrackerService(service.NewMemoryTrackedCropStore(), store, recs), store),
		Chat:            NewChatHandler(&mocks.MockAssistant{}),
	}, NewHealthHandler(), cfg)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/crops", http.StatusOK},
		{http.MethodGet, "/api/farm", http.StatusOK},
		{http.MethodGet, "/api/fertilizer-prescription/test", http.StatusOK},
		{http.MethodGet, "/api/fertilizer-prescription/user-crops", http.StatusOK},
		{http.MethodGet, "/api/weather/current", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/logs", http.StatusNotFound},
		{http.MethodPost, "/api/reference/reload", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := performRequest(router, tt.method, tt.path, "")

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewRouter_GlobalRateLimit(t *testing.T) {
	store := newTestStore(t)
	cfg := DefaultRouterConfig()
	cfg.RateLimit = 1
	router := NewRouter(Handlers{Reference: NewReferenceHandler(store)}, nil, cfg)

	first := performRequest(router, http.MethodGet, "/api/farm", "")
	second := performRequest(router, http.MethodGet, "/api/farm", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestNewRouter_DegradedHeaderExposed(t *testing.T) {
	store := newTestStore(t)
	recs := &mocks.MockRecommendationService{}
	degraded := sampleResult(true)
	degraded.Source.Provider = "fallback"
	recs.On("BuildRecommendation", mock.Anything, DefaultTestCrop, mock.Anything, mock.Anything).Return(degraded, nil)

	cfg := DefaultRouterConfig()
	cfg.CORSOrigins = []string{"http://farm.example"}
	router := NewRouter(Handlers{Recommendations: NewHandler(recs, store)}, nil, cfg)

	req := performRequestWithOrigin(router, "/api/fertilizer-prescription/test", "http://farm.example")

	assert.Equal(t, http.StatusOK, req.Code)
	assert.Equal(t, "true", req.Header().Get("X-Degraded-Mode"))
	assert.Contains(t, req.Header().Get("Access-Control-Expose-Headers"), "X-Degraded-Mode")
	result := decodeData[model.RecommendationResult](t, req)
	assert.True(t, result.Source.Degraded)
}
