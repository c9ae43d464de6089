package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightx/insightx-cli/internal/forecast"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast [file]",
	Short: "Predict the next periods of the file's primary time series",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := resolveDataset(args)
		if err != nil {
			return err
		}
		tracker := forecast.NewTracker(newAIService())
		tracker.SetDataset(ds)
		if !tracker.Run(cmd.Context()) {
			return fmt.Errorf("%s", tracker.Err())
		}
		fmt.Println("[FORECAST]")
		for _, p := range tracker.Forecast() {
			fmt.Printf("- %s: %.2f (range %.2f – %.2f)\n", p.Date, p.Value, p.LowerBound, p.UpperBound)
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().BoolVar(&useDemo, "demo", false, "use the bundled demo dataset")
	rootCmd.AddCommand(forecastCmd)
}
