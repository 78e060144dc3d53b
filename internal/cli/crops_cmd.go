package cli

import (
	"fmt"

	"github.com/guttosm/fertilizer-service/internal/report"
	"github.com/spf13/cobra"
)

func newCropsCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "crops",
		Short: "List supported crops and their codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := app.Reference.Snapshot().Crops()
			crops := table.Crops()
			if category != "" {
				crops = table.CropsByCategory(category)
				if len(crops) == 0 {
					return fmt.Errorf("unknown category %q (known: %v)", category, table.Categories())
				}
			}
			report.NewPrinter(cmd.OutOrStdout()).Crops(crops)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list crops in this category")

	return cmd
}
