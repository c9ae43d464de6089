package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightx/insightx-cli/internal/analysis"
	"github.com/insightx/insightx-cli/internal/charts"
	"github.com/insightx/insightx-cli/internal/dataset"
	"github.com/insightx/insightx-cli/internal/forecast"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full dashboard flow on the bundled demo dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := analysis.AnalyzeDataset(dataset.DemoName, dataset.DemoRows(), dataset.DemoColumns())
		if err != nil {
			return err
		}

		// Phase one: the instant heuristic dashboard, before any AI call.
		fmt.Print(analysis.RenderSummary(ds))
		fmt.Println()
		printChartPlan(charts.GenerateSmartCharts(ds))

		// Phase two: AI enrichment layered on afterwards.
		svc := newAIService()
		enr := svc.EnrichDataset(cmd.Context(), ds)
		fmt.Println()
		if len(enr.Insights) == 0 {
			fmt.Println("No insights yet.")
		} else {
			fmt.Println("[INSIGHTS]")
			for _, in := range enr.Insights {
				fmt.Printf("• [%s] %s — %s\n", in.Category, in.Title, in.Description)
			}
		}
		if enr.Story != nil {
			fmt.Printf("\n[STORY] %s: %s\n", enr.Story.Title, enr.Story.Summary)
		}

		tracker := forecast.NewTracker(svc)
		tracker.SetDataset(ds)
		if tracker.Run(cmd.Context()) {
			fmt.Println("\n[FORECAST]")
			for _, p := range tracker.Forecast() {
				fmt.Printf("- %s: %.2f (range %.2f – %.2f)\n", p.Date, p.Value, p.LowerBound, p.UpperBound)
			}
		} else if msg := tracker.Err(); msg != "" {
			fmt.Printf("\n⚠ %s\n", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
