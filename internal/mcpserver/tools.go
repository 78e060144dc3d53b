package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/reference"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools holds the handlers registered by New.
type Tools struct {
	deps Deps
}

type ListCropsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Crop category such as 맥류 or 채소류; empty lists every crop"`
}

type RecommendInput struct {
	CropName   string            `json:"crop_name" jsonschema:"Crop name as listed by list_crops"`
	FarmAreaM2 float64           `json:"farm_area_m2,omitempty" jsonschema:"Farm area in square meters; defaults to the farm profile"`
	Soil       *model.SoilSample `json:"soil,omitempty" jsonschema:"Soil test values; defaults to the farm profile sample"`
}

type RecommendMultipleInput struct {
	CropNames  []string          `json:"crop_names" jsonschema:"One to three crop names"`
	FarmAreaM2 float64           `json:"farm_area_m2,omitempty" jsonschema:"Farm area in square meters; defaults to the farm profile"`
	Soil       *model.SoilSample `json:"soil,omitempty" jsonschema:"Soil test values; defaults to the farm profile sample"`
}

type WeatherInput struct {
	Station string `json:"station,omitempty" jsonschema:"KMA station id; defaults to the farm station"`
}

type cropsOutput struct {
	Total int              `json:"total"`
	Crops []reference.Crop `json:"crops"`
}

func (t *Tools) ListCrops(_ context.Context, _ *mcp.CallToolRequest, input ListCropsInput) (*mcp.CallToolResult, any, error) {
	table := t.deps.Reference.Snapshot().Crops()
	crops := table.Crops()
	if input.Category != "" {
		crops = table.CropsByCategory(input.Category)
		if len(crops) == 0 {
			return toolError("Unknown category %q. Known categories: %v", input.Category, table.Categories()), nil, nil
		}
	}
	return toolJSON(cropsOutput{Total: len(crops), Crops: crops})
}

func (t *Tools) RecommendFertilizer(ctx context.Context, _ *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, any, error) {
	soil, area := t.defaults(input.Soil, input.FarmAreaM2)
	result, err := t.deps.Recommendations.BuildRecommendation(ctx, input.CropName, soil, area)
	if err != nil {
		return toolError("Recommendation failed: %v", err), nil, nil
	}
	return toolJSON(result)
}

func (t *Tools) RecommendMultiple(ctx context.Context, _ *mcp.CallToolRequest, input RecommendMultipleInput) (*mcp.CallToolResult, any, error) {
	soil, area := t.defaults(input.Soil, input.FarmAreaM2)
	result, err := t.deps.Recommendations.BuildMulti(ctx, input.CropNames, soil, area)
	if err != nil {
		return toolError("Recommendation failed: %v", err), nil, nil
	}
	return toolJSON(result)
}

func (t *Tools) CurrentWeather(ctx context.Context, _ *mcp.CallToolRequest, input WeatherInput) (*mcp.CallToolResult, any, error) {
	station := input.Station
	if station == "" {
		station = t.deps.Reference.Snapshot().Farm().StationID
	}
	obs := t.deps.Weather.Current(ctx, station)
	if obs == nil {
		return toolError("No observation available for station %s", station), nil, nil
	}
	return toolJSON(obs)
}

// defaults fills an omitted soil sample or area from the farm profile.
func (t *Tools) defaults(soil *model.SoilSample, areaM2 float64) (model.SoilSample, float64) {
	farm := t.deps.Reference.Snapshot().Farm()
	s := farm.Soil
	if soil != nil {
		s = *soil
	}
	if areaM2 == 0 {
		areaM2 = farm.AreaM2
	}
	return s, areaM2
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
