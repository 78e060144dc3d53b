// Package main is the entry point for the fertilizer-service application.
//
// @title           Fertilizer Service API
// @version         1.0.0
// @description     Fertilizer prescriptions and product recommendations for a Korean farm.
//
//	Nutrient needs come from the national soil testing API (with a fallback table when it is
//	unreachable) and are matched against a catalog of base and topdress fertilizers.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/fertilizer-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /api
//
// @tag.name        Recommendations
// @tag.description Fertilizer prescription and product recommendation
//
// @tag.name        Tracking
// @tag.description Tracked crop set for the farm
//
// @tag.name        Reference
// @tag.description Crops, fertilizer catalog and farm profile
//
// @tag.name        Weather
// @tag.description Surface weather observations
//
// @tag.name        Chat
// @tag.description Farm assistant
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/fertilizer-service/docs" // swagger docs

	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	application, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port, cfg.Server.RequestTimeout)
	runErr := server.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application.Close(closeCtx)
	cancel()

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
