package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guttosm/fertilizer-service/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var crops []string
	var areaM2 float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the fertilizer report for one or more crops",
		Example: `  fertctl report --crop 맥주보리
  fertctl report --crop 맥주보리 --crop 감자 --area 5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(crops) == 0 {
				return errors.New("at least one --crop is required")
			}

			farm := app.Reference.Snapshot().Farm()
			if !cmd.Flags().Changed("area") {
				areaM2 = farm.AreaM2
			}

			out := cmd.OutOrStdout()
			if len(crops) == 1 {
				result, err := app.Recommendations.BuildRecommendation(cmd.Context(), crops[0], farm.Soil, areaM2)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				report.NewPrinter(out).Recommendation(*result)
				return nil
			}

			batch, err := app.Recommendations.BuildMulti(cmd.Context(), crops, farm.Soil, areaM2)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, batch)
			}
			report.NewPrinter(out).Batch(*batch)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&crops, "crop", nil, "Crop name (repeatable, up to 3)")
	cmd.Flags().Float64Var(&areaM2, "area", 0, "Farm area in m² (defaults to the farm profile)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON result")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
