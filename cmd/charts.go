package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightx/insightx-cli/internal/charts"
	"github.com/insightx/insightx-cli/internal/utils"
)

var chartsJSON bool

var chartsCmd = &cobra.Command{
	Use:   "charts <file>",
	Short: "Print the smart chart plan for a CSV/JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		plan := charts.GenerateSmartCharts(ds)
		if chartsJSON {
			b, err := utils.PrettyJSON(plan)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		printChartPlan(plan)
		return nil
	},
}

func init() {
	chartsCmd.Flags().BoolVar(&chartsJSON, "json", false, "emit machine-readable JSON")
	rootCmd.AddCommand(chartsCmd)
}
