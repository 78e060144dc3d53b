package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/fertilizer-service/internal/circuitbreaker"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/gateway"
	"github.com/guttosm/fertilizer-service/internal/mocks"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleResult(degraded bool) *model.RecommendationResult {
	return &model.RecommendationResult{
		Crop:    model.CropIdentity{Name: "맥주보리", Code: "01001", Category: "맥류"},
		Farm:    model.NewFarmSizing(25000),
		Compost: model.CompostNeed{CattleKg: 37500, PigKg: 8250, ChickenKg: 6375, MixedKg: 13525},
		Source:  model.PrescriptionSource{Provider: gateway.ProviderSoilAPI, Degraded: degraded},
	}
}

func TestHandler_Recommend(t *testing.T) {
	store := newTestStore(t)
	farm := store.Snapshot().Farm()

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockRecommendationService)
		expectedStatus int
		expectedCode   string
		degraded       bool
	}{
		{
			name: "uses farm profile defaults",
			body: `{"crop_name": " 맥주보리 "}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildRecommendation", mock.Anything, "맥주보리", farm.Soil, farm.AreaM2).Return(sampleResult(false), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "overrides soil and area",
			body: `{"crop_name": "콩", "soil": {"ph": 5.8}, "farm_area_m2": 1000}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				soil := farm.Soil
				soil.PH = 5.8
				m.On("BuildRecommendation", mock.Anything, "콩", soil, 1000.0).Return(sampleResult(false), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "degraded result sets header",
			body: `{"crop_name": "맥주보리"}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildRecommendation", mock.Anything, "맥주보리", mock.Anything, mock.Anything).Return(sampleResult(true), nil)
			},
			expectedStatus: http.StatusOK,
			degraded:       true,
		},
		{
			name:           "invalid JSON",
			body:           `{"crop_name": `,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidRequest,
		},
		{
			name:           "blank crop name",
			body:           `{"crop_name": "   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:           "non-positive area",
			body:           `{"crop_name": "맥주보리", "farm_area_m2": 0}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidInput,
		},
		{
			name: "unsupported crop",
			body: `{"crop_name": "바나나"}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildRecommendation", mock.Anything, "바나나", mock.Anything, mock.Anything).
					Return(nil, &service.Error{Kind: service.ErrUnsupportedCrop, Crop: "바나나", Message: "unsupported crop: 바나나"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeUnsupportedCrop,
		},
		{
			name: "upstream unavailable",
			body: `{"crop_name": "맥주보리"}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildRecommendation", mock.Anything, "맥주보리", mock.Anything, mock.Anything).
					Return(nil, &service.Error{Kind: service.ErrUpstreamUnavailable, Message: "soil api failed", Err: errors.New("bad status")})
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeUpstreamUnavailable,
		},
		{
			name: "deadline exceeded",
			body: `{"crop_name": "맥주보리"}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildRecommendation", mock.Anything, "맥주보리", mock.Anything, mock.Anything).
					Return(nil, &service.Error{Kind: service.ErrUpstreamUnavailable, Message: "soil api failed", Err: context.DeadlineExceeded})
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   dto.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockRecommendationService{}
			if tt.setupMock != nil {
				tt.setupMock(m)
			}
			router := newTestRouter(NewHandler(m, store))

			w := performRequest(router, http.MethodPost, "/api/fertilizer-prescription", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			}
			if tt.degraded {
				assert.Equal(t, "true", w.Header().Get(dto.DegradedHeader))
			} else {
				assert.Empty(t, w.Header().Get(dto.DegradedHeader))
			}
			m.AssertExpectations(t)
		})
	}
}

func TestHandler_RecommendTest(t *testing.T) {
	store := newTestStore(t)
	farm := store.Snapshot().Farm()
	m := &mocks.MockRecommendationService{}
	m.On("BuildRecommendation", mock.Anything, DefaultTestCrop, farm.Soil, farm.AreaM2).Return(sampleResult(false), nil)

	w := performRequest(newTestRouter(NewHandler(m, store)), http.MethodGet, "/api/fertilizer-prescription/test", "")

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeData[model.RecommendationResult](t, w)
	assert.Equal(t, "01001", result.Crop.Code)
	m.AssertExpectations(t)
}

func TestHandler_RecommendCompact(t *testing.T) {
	store := newTestStore(t)

	t.Run("compact shape", func(t *testing.T) {
		m := &mocks.MockRecommendationService{}
		m.On("BuildRecommendation", mock.Anything, "맥주보리", mock.Anything, mock.Anything).Return(sampleResult(true), nil)

		w := performRequest(newTestRouter(NewHandler(m, store)), http.MethodGet, "/api/fertilizer-recommendation?crop_name=맥주보리", "")

		require.Equal(t, http.StatusOK, w.Code)
		compact := decodeData[map[string]interface{}](t, w)
		assert.Contains(t, compact, "crop")
		assert.Contains(t, compact, "compost")
		assert.Contains(t, compact, "fertilizer")
		assert.Equal(t, true, compact["degraded"])
		assert.NotContains(t, compact, "total_farm_needs")
		assert.Equal(t, "true", w.Header().Get(dto.DegradedHeader))
	})

	t.Run("missing crop name", func(t *testing.T) {
		m := &mocks.MockRecommendationService{}
		w := performRequest(newTestRouter(NewHandler(m, store)), http.MethodGet, "/api/fertilizer-recommendation", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.AssertNotCalled(t, "BuildRecommendation")
	})
}

func TestHandler_RecommendMultiple(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockRecommendationService)
		expectedStatus int
		expectedCode   string
		degraded       bool
	}{
		{
			name: "partial failure is still 200",
			body: `{"crop_names": ["맥주보리", "바나나"]}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildMulti", mock.Anything, []string{"맥주보리", "바나나"}, mock.Anything, mock.Anything).Return(&model.BatchResult{
					TotalCrops: 2,
					Crops:      []model.RecommendationResult{*sampleResult(false)},
					Summary: model.BatchSummary{Successful: 1, Failed: 1, Errors: []model.CropError{
						{Crop: "바나나", Kind: service.KindUnsupportedCrop, Message: "unsupported crop: 바나나"},
					}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "degraded batch",
			body: `{"crop_names": ["맥주보리"]}`,
			setupMock: func(m *mocks.MockRecommendationService) {
				m.On("BuildMulti", mock.Anything, []string{"맥주보리"}, mock.Anything, mock.Anything).
					Return(&model.BatchResult{TotalCrops: 1, Degraded: true}, nil)
			},
			expectedStatus: http.StatusOK,
			degraded:       true,
		},
		{
			name:           "empty list",
			body:           `{"crop_names": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:           "too many crops",
			body:           `{"crop_names": ["맥주보리", "밀", "콩", "양파"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeTooManyCrops,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockRecommendationService{}
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			w := performRequest(newTestRouter(NewHandler(m, store)), http.MethodPost, "/api/fertilizer-prescription/multiple", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			}
			assert.Equal(t, tt.degraded, w.Header().Get(dto.DegradedHeader) == "true")
			m.AssertExpectations(t)
		})
	}
}

type failingFetcher struct {
	calls atomic.Int32
}

func (f *failingFetcher) FetchPrescription(ctx context.Context, cropCode string, soil model.SoilSample) (model.NutrientPrescription, error) {
	f.calls.Add(1)
	return model.NutrientPrescription{}, fmt.Errorf("%w: 502", gateway.ErrUpstreamStatus)
}

func TestHandler_FallbackPipeline(t *testing.T) {
	store := newTestStore(t)
	fetcher := &failingFetcher{}
	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "soil-api-test",
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
	})
	provider := gateway.NewResilientProvider(fetcher, gateway.WithBreaker(breaker))
	router := newTestRouter(NewHandler(service.NewAggregator(provider, store), store))

	for i := 0; i < 2; i++ {
		w := performRequest(router, http.MethodPost, "/api/fertilizer-prescription", `{"crop_name": "맥주보리"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "true", w.Header().Get(dto.DegradedHeader))
		result := decodeData[model.RecommendationResult](t, w)
		assert.True(t, result.Source.Degraded)
		assert.Equal(t, gateway.ProviderFallback, result.Source.Provider)
		assert.InDelta(t, 4.9, result.Standard.Base.N, 1e-9)
		assert.InDelta(t, 122.5, result.FarmNeeds.Base.N, 1e-9)
	}

	// the second request is served while the circuit is open
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.True(t, breaker.IsOpen())
}
