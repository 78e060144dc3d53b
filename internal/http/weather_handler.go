package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/service"
)

// WeatherReader serves observations per station.
type WeatherReader interface {
	Current(ctx context.Context, station string) *model.WeatherObservation
	Refresh(ctx context.Context, station string) *model.WeatherObservation
	DefaultStation() string
}

// WeatherHandler serves the weather endpoints.
type WeatherHandler struct {
	weather   WeatherReader
	reference service.ReferenceSource
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(weather WeatherReader, ref service.ReferenceSource) *WeatherHandler {
	return &WeatherHandler{weather: weather, reference: ref}
}

// RegisterRoutes registers the weather endpoints.
func (h *WeatherHandler) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/weather/current", h.Current)
	rg.GET("/weather/update", h.Update)
	rg.POST("/weather/update", h.Update)
}

// Current handles GET /api/weather/current.
//
// @Summary      Current weather
// @Description  Returns the latest observation for the station, served from cache while fresh.
// @Tags         Weather
// @Produce      json
// @Param        station query string false "KMA station id" default(108)
// @Success      200 {object} dto.SuccessResponse{data=dto.WeatherResponse} "Observation"
// @Failure      503 {object} dto.ErrorResponse "No observation available"
// @Router       /api/weather/current [get]
func (h *WeatherHandler) Current(c *gin.Context) {
	obs := h.weather.Current(c.Request.Context(), strings.TrimSpace(c.Query("station")))
	h.respond(c, obs, "")
}

// Update handles POST|GET /api/weather/update.
//
// @Summary      Refresh weather
// @Description  Fetches a new observation for the station, bypassing the cache.
// @Tags         Weather
// @Produce      json
// @Param        station query string false "KMA station id" default(108)
// @Success      200 {object} dto.SuccessResponse{data=dto.WeatherResponse} "Observation"
// @Failure      503 {object} dto.ErrorResponse "No observation available"
// @Router       /api/weather/update [post]
func (h *WeatherHandler) Update(c *gin.Context) {
	obs := h.weather.Refresh(c.Request.Context(), strings.TrimSpace(c.Query("station")))
	h.respond(c, obs, i18n.SuccessKeyWeatherUpdated)
}

func (h *WeatherHandler) respond(c *gin.Context, obs *model.WeatherObservation, messageKey string) {
	builder := NewResponseBuilder(c)
	if obs == nil {
		builder.Error(http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyWeatherUnavailable, nil)
		return
	}
	builder.Success(http.StatusOK, dto.WeatherResponse{
		City:    service.ParseCity(h.reference.Snapshot().Farm().Address),
		Weather: obs,
	}, messageKey)
}
