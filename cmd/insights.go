package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights [file]",
	Short: "Generate AI business observations for a CSV/JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := resolveDataset(args)
		if err != nil {
			return err
		}
		svc := newAIService()
		insights := svc.GenerateInsights(cmd.Context(), ds)
		if len(insights) == 0 {
			fmt.Println("No insights yet.")
			return nil
		}
		for _, in := range insights {
			fmt.Printf("• [%s] %s (confidence %.0f%%)\n  %s\n", in.Category, in.Title, in.Confidence, in.Description)
		}
		return nil
	},
}

func init() {
	insightsCmd.Flags().BoolVar(&useDemo, "demo", false, "use the bundled demo dataset")
	rootCmd.AddCommand(insightsCmd)
}
