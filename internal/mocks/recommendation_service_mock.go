package mocks

import (
	"context"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/stretchr/testify/mock"
)

var _ service.RecommendationService = (*MockRecommendationService)(nil)

// MockRecommendationService mocks service.RecommendationService.
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) BuildRecommendation(ctx context.Context, cropName string, soil model.SoilSample, farmAreaM2 float64) (*model.RecommendationResult, error) {
	args := m.Called(ctx, cropName, soil, farmAreaM2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecommendationResult), args.Error(1)
}

func (m *MockRecommendationService) BuildMulti(ctx context.Context, cropNames []string, soil model.SoilSample, farmAreaM2 float64) (*model.BatchResult, error) {
	args := m.Called(ctx, cropNames, soil, farmAreaM2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

var _ service.Assistant = (*MockAssistant)(nil)

// MockAssistant mocks service.Assistant.
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Ask(ctx context.Context, message string) (*model.ChatAnswer, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatAnswer), args.Error(1)
}
