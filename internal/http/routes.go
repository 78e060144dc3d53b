package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup is a set of API routes registered under /api.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// Handlers holds the optional route groups of the API. Nil groups are not
// registered.
type Handlers struct {
	Recommendations *Handler
	Reference       *ReferenceHandler
	Weather         *WeatherHandler
	Tracker         *TrackerHandler
	Chat            *ChatHandler
	Logs            *LogsHandler
}

// groups returns the non-nil route groups in registration order.
func (h Handlers) groups() []RouteGroup {
	var out []RouteGroup
	if h.Recommendations != nil {
		out = append(out, h.Recommendations)
	}
	if h.Reference != nil {
		out = append(out, h.Reference)
	}
	if h.Weather != nil {
		out = append(out, h.Weather)
	}
	if h.Tracker != nil {
		out = append(out, h.Tracker)
	}
	if h.Chat != nil {
		out = append(out, h.Chat)
	}
	if h.Logs != nil {
		out = append(out, h.Logs)
	}
	return out
}
