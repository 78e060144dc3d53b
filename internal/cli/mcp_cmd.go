package cli

import (
	"github.com/guttosm/fertilizer-service/internal/mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the recommendation tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.New(mcpserver.Deps{
				Recommendations: app.Recommendations,
				Reference:       app.Reference,
				Weather:         app.Weather,
			})
			log.Info().Str("version", mcpserver.Version).Msg("MCP server starting (stdio)")
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
