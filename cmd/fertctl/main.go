// Command fertctl prints fertilizer reports and serves the recommendation
// tools over MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/app"
	"github.com/guttosm/fertilizer-service/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	app.InitializeLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	services, err := app.InitializeServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	root := cli.NewRootCmd(&cli.App{
		Recommendations: services.Recommendations,
		Reference:       services.Reference,
		Weather:         services.Weather,
	})
	return root.ExecuteContext(ctx)
}
