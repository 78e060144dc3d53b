package app

import (
	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handlers      http.Handlers
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the handlers, registers circuit breakers and
// dependencies for readiness, and derives the router configuration.
func InitializeRouter(sc *ServiceComponents, dbComponents *DatabaseComponents, cfg config.Config) *RouterComponents {
	handlers := http.Handlers{
		Recommendations: http.NewHandler(sc.Recommendations, sc.Reference),
		Reference:       http.NewReferenceHandler(sc.Reference),
		Weather:         http.NewWeatherHandler(sc.Weather, sc.Reference),
		Tracker:         http.NewTrackerHandler(sc.Tracker, sc.Reference),
		Chat:            http.NewChatHandler(sc.Assistant),
	}

	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterCircuitBreaker("soil_api", sc.Prescriptions.Breaker())
	healthHandler.RegisterCircuitBreaker("weather_api", sc.WeatherClient.Breaker())

	if dbComponents != nil {
		handlers.Logs = http.NewLogsHandler(dbComponents.LoggingService)
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.HealthCheck))
		healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
	}

	return &RouterComponents{
		Handlers:      handlers,
		HealthHandler: healthHandler,
		Config: http.RouterConfig{
			RateLimit:      cfg.Server.RateLimit,
			RateWindow:     cfg.Server.RateWindow,
			ChatRateLimit:  cfg.Server.ChatRateLimit,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSOrigins:    cfg.Server.CORSOrigins,
			SwaggerUser:    cfg.Server.SwaggerUser,
			SwaggerPass:    cfg.Server.SwaggerPass,
			FarmID:         sc.Reference.Snapshot().Farm().ID,
		},
	}
}
