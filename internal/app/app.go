// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/http"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// App is the wired HTTP application and the resources it owns.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := InitializeDatabase(cfg.Database)
	if db != nil {
		middleware.InitAsyncLogger(db.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	rc := InitializeRouter(services, db, cfg)

	return &App{
		Router:   http.NewRouter(rc.Handlers, rc.HealthHandler, rc.Config),
		Services: services,
		Database: db,
	}, nil
}

// Close flushes queued log entries and releases the database and services.
func (a *App) Close(ctx context.Context) {
	middleware.StopAsyncLogger()
	if a.Database != nil {
		if err := a.Database.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}
	a.Services.Close()
}
