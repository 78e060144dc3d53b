// Package cli implements the fertctl operator commands.
package cli

import (
	"github.com/guttosm/fertilizer-service/internal/mcpserver"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands.
type App struct {
	Recommendations service.RecommendationService
	Reference       service.ReferenceSource
	Weather         mcpserver.WeatherReader
}

// NewRootCmd creates the top-level "fertctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "fertctl",
		Short:         "Fertilizer recommendation reports and MCP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newCropsCmd(app),
		newMCPCmd(app),
	)

	return root
}
