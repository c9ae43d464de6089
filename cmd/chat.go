package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file] <question>",
	Short: "Ask a question about a CSV/JSON file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[len(args)-1]
		ds, err := resolveDataset(args[:len(args)-1])
		if err != nil {
			return err
		}
		svc := newAIService()
		fmt.Println(svc.GenerateChatResponse(cmd.Context(), question, ds))
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&useDemo, "demo", false, "use the bundled demo dataset")
	rootCmd.AddCommand(chatCmd)
}
