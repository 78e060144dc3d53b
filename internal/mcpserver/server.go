// Package mcpserver exposes the recommendation pipeline as MCP tools.
package mcpserver

import (
	"context"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// WeatherReader returns the latest observation for a station.
type WeatherReader interface {
	Current(ctx context.Context, station string) *model.WeatherObservation
}

// Deps are the services the tools call.
type Deps struct {
	Recommendations service.RecommendationService
	Reference       service.ReferenceSource
	Weather         WeatherReader
}

// New creates an MCP server with every tool registered. current_weather is
// registered only when Weather is set.
func New(deps Deps) *mcp.Server {
	t := &Tools{deps: deps}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "fertilizer-service",
		Version: Version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_crops",
		Description: "List supported crops with their soil API codes, optionally filtered by category (맥류, 채소류, ...)",
	}, t.ListCrops)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "recommend_fertilizer",
		Description: "Fertilizer prescription and ranked products for one crop. Soil and area default to the farm profile",
	}, t.RecommendFertilizer)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "recommend_multiple",
		Description: "Fertilizer recommendations for up to 3 crops on the same soil and area",
	}, t.RecommendMultiple)

	if deps.Weather != nil {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        "current_weather",
			Description: "Latest surface observation for a weather station (defaults to the farm station)",
		}, t.CurrentWeather)
	}

	return srv
}
