//go:build !integration

package dto

import (
	"math"
	"testing"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestRecommendationRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      RecommendationRequest
		expected error
	}{
		{"valid", RecommendationRequest{CropName: "맥주보리"}, nil},
		{"trimmed blank name", RecommendationRequest{CropName: "   "}, ErrCropNameRequired},
		{"zero area", RecommendationRequest{CropName: "콩", farmInputs: farmInputs{FarmAreaM2: f(0)}}, ErrInvalidArea},
		{"negative area", RecommendationRequest{CropName: "콩", farmInputs: farmInputs{FarmAreaM2: f(-5)}}, ErrInvalidArea},
		{"nan area", RecommendationRequest{CropName: "콩", farmInputs: farmInputs{FarmAreaM2: f(math.NaN())}}, ErrInvalidArea},
		{"positive area", RecommendationRequest{CropName: "콩", farmInputs: farmInputs{FarmAreaM2: f(333)}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestRecommendationRequest_TrimsName(t *testing.T) {
	req := RecommendationRequest{CropName: " 맥주보리 "}

	assert.NoError(t, req.Validate())
	assert.Equal(t, "맥주보리", req.CropName)
}

func TestMultiRecommendationRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected error
	}{
		{"empty", nil, ErrNoCrops},
		{"one", []string{"맥주보리"}, nil},
		{"three", []string{"맥주보리", "콩", "양파"}, nil},
		{"four", []string{"맥주보리", "콩", "양파", "밀"}, ErrTooManyCrops},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := MultiRecommendationRequest{CropNames: tt.names}
			err := req.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expected, err)
			assert.Equal(t, tt.expected.(*ValidationError).Code, err.(*ValidationError).Code)
		})
	}

	tracked := TrackedCropsRequest{CropNames: []string{"a", "b", "c", "d"}}
	assert.Equal(t, ErrTooManyCrops, tracked.Validate())
}

func TestFarmInputs_Resolve(t *testing.T) {
	farm := model.FarmProfile{
		AreaM2: 25000,
		Soil:   model.SoilSample{PH: 6.5, OrganicMatter: 22, AvailablePhosphate: 10, Potassium: 4, Calcium: 6, Magnesium: 13, ElectricalConductivity: 6},
	}

	t.Run("all defaults", func(t *testing.T) {
		soil, area := farmInputs{}.Resolve(farm)
		assert.Equal(t, farm.Soil, soil)
		assert.Equal(t, 25000.0, area)
	})

	t.Run("partial override", func(t *testing.T) {
		in := farmInputs{Soil: &SoilInput{PH: f(5.8), Magnesium: f(2)}, FarmAreaM2: f(333)}
		soil, area := in.Resolve(farm)

		expected := farm.Soil
		expected.PH = 5.8
		expected.Magnesium = 2
		assert.Equal(t, expected, soil)
		assert.Equal(t, 333.0, area)
	})
}

func TestChatRequest_Validate(t *testing.T) {
	req := ChatRequest{Message: "  노린재 방제는?  "}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "노린재 방제는?", req.Message)

	blank := ChatRequest{Message: "\n\t"}
	assert.Equal(t, ErrEmptyMessage, blank.Validate())
}

func TestLogsQuery_Options(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	q := LogsQuery{RequestID: "r1", Level: "warn", ActionType: "recommend", Path: "/api", Start: &start, End: &end, Limit: 10, Skip: 5}

	assert.Equal(t, model.LogQueryOptions{
		RequestID:  "r1",
		Level:      "warn",
		ActionType: "recommend",
		Path:       "/api",
		StartTime:  &start,
		EndTime:    &end,
		Limit:      10,
		Skip:       5,
	}, q.Options())
}
