package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightx/insightx-cli/internal/analysis"
	"github.com/insightx/insightx-cli/internal/charts"
	"github.com/insightx/insightx-cli/internal/dataset"
	"github.com/insightx/insightx-cli/internal/parser"
	"github.com/insightx/insightx-cli/internal/utils"
)

var (
	anaJSON     bool
	anaValidate bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/JSON file: column types, KPIs, and a chart plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		plan := charts.GenerateSmartCharts(ds)

		if anaJSON {
			out := struct {
				Dataset *dataset.Dataset      `json:"dataset"`
				Charts  []dataset.ChartConfig `json:"charts"`
			}{ds, plan}
			b, err := utils.PrettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		fmt.Print(analysis.RenderSummary(ds))
		fmt.Println()
		printChartPlan(plan)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit machine-readable JSON")
	analyzeCmd.Flags().BoolVar(&anaValidate, "validate", false, "normalize rows against the header column set")
	rootCmd.AddCommand(analyzeCmd)
}

// useDemo switches the AI commands onto the bundled demo dataset instead
// of a file argument.
var useDemo bool

// resolveDataset picks the dataset for an AI command: the bundled demo
// when --demo is set, otherwise the file argument.
func resolveDataset(args []string) (*dataset.Dataset, error) {
	if useDemo {
		return analysis.AnalyzeDataset(dataset.DemoName, dataset.DemoRows(), dataset.DemoColumns())
	}
	if len(args) == 0 {
		return nil, errors.New("provide an input file or pass --demo")
	}
	return loadDataset(args[0])
}

// loadDataset parses and analyzes one input file. Parse and empty-dataset
// failures surface as a single "check your format" error at this boundary.
func loadDataset(path string) (*dataset.Dataset, error) {
	src, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	rows := src.Rows
	if anaValidate {
		normalized, warnings := parser.NormalizeRows(rows, src.Columns)
		rows = normalized
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
	}
	ds, err := analysis.AnalyzeDataset(src.Name, rows, src.Columns)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyDataset) {
			return nil, fmt.Errorf("no data rows found in %s; check your format", path)
		}
		return nil, err
	}
	return ds, nil
}

func printChartPlan(plan []dataset.ChartConfig) {
	fmt.Println("[CHART PLAN]")
	for i, c := range plan {
		marker := " "
		if i == 0 {
			marker = "★" // headline visualization
		}
		fmt.Printf("%s %d. %s (%s) — x: %s, series: %v\n", marker, i+1, c.Title, c.Type, c.XAxisKey, c.DataKeys)
		if c.Description != "" {
			fmt.Printf("     %s\n", c.Description)
		}
	}
}
