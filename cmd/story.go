package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var storyCmd = &cobra.Command{
	Use:   "story [file]",
	Short: "Generate an AI data story for a CSV/JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := resolveDataset(args)
		if err != nil {
			return err
		}
		svc := newAIService()
		insights := svc.GenerateInsights(cmd.Context(), ds)
		story := svc.GenerateDataStory(cmd.Context(), ds, insights)
		if story == nil {
			fmt.Println("No story available.")
			return nil
		}
		fmt.Printf("%s\n%s\n", story.Title, story.Summary)
		for i, seg := range story.Segments {
			fmt.Printf("\n%d. %s\n%s\n", i+1, seg.Title, seg.Text)
			if seg.ChartID != "" {
				fmt.Printf("   (highlights chart %s)\n", seg.ChartID)
			}
		}
		return nil
	},
}

func init() {
	storyCmd.Flags().BoolVar(&useDemo, "demo", false, "use the bundled demo dataset")
	rootCmd.AddCommand(storyCmd)
}
