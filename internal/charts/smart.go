// Package charts picks which visualizations best fit a dataset's shape.
package charts

import (
	"fmt"
	"strings"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// maxCategoryCardinality bounds how many distinct values a STRING column
// may have before it stops being usable as a breakdown axis.
const maxCategoryCardinality = 50

// GenerateSmartCharts returns an ordered, never-empty chart plan for the
// dataset. The pipeline is a fixed priority order; downstream consumers
// rely on the first entry being the headline visualization:
//
//  1. trend over the date column (area)
//  2. category breakdown (donut)
//  3. correlation of the first two metrics (scatter)
//  4. distribution fallback when 1-3 produced nothing (bar)
//  5. one filler for the secondary metric when fewer than 3 charts exist
//  6. an absolute placeholder when no column is usable at all
//
// The function is deterministic: identical input yields an identical plan.
func GenerateSmartCharts(ds *dataset.Dataset) []dataset.ChartConfig {
	var out []dataset.ChartConfig

	var dateCol *dataset.ColumnMetadata
	var catCols, numCols []dataset.ColumnMetadata
	for i, c := range ds.Columns {
		switch {
		case c.Type == dataset.ColumnDate:
			if dateCol == nil {
				dateCol = &ds.Columns[i]
			}
		case c.Type == dataset.ColumnString && c.UniqueValues < maxCategoryCardinality:
			catCols = append(catCols, c)
		case c.Type == dataset.ColumnNumber && !strings.Contains(strings.ToLower(c.Name), "id"):
			numCols = append(numCols, c)
		}
	}

	// 1. Trend over time.
	if dateCol != nil && len(numCols) > 0 {
		title := fmt.Sprintf("%s Over Time", numCols[0].Name)
		desc := fmt.Sprintf("Historical trend analysis of %s", numCols[0].Name)
		if sportsDomain(ds.Columns) {
			title = fmt.Sprintf("%s Progression", numCols[0].Name)
			desc = "Cumulative score progression"
		}
		out = append(out, dataset.ChartConfig{
			ID:          "trend_main",
			Title:       title,
			Type:        dataset.ChartArea,
			XAxisKey:    dateCol.Name,
			DataKeys:    []string{numCols[0].Name},
			Description: desc,
		})
	}

	// 2. Category breakdown.
	if len(catCols) > 0 && len(numCols) > 0 {
		out = append(out, dataset.ChartConfig{
			ID:          "cat_breakdown",
			Title:       fmt.Sprintf("%s by %s", numCols[0].Name, catCols[0].Name),
			Type:        dataset.ChartDonut,
			XAxisKey:    catCols[0].Name,
			DataKeys:    []string{numCols[0].Name},
			Description: "Distribution across top categories",
		})
	}

	// 3. Correlation between the first two metrics.
	if len(numCols) >= 2 {
		out = append(out, dataset.ChartConfig{
			ID:          "correlation_scatter",
			Title:       fmt.Sprintf("%s vs %s", numCols[0].Name, numCols[1].Name),
			Type:        dataset.ChartScatter,
			XAxisKey:    numCols[0].Name,
			DataKeys:    []string{numCols[1].Name},
			Description: "Correlation analysis between metrics",
		})
	}

	// 4. Distribution fallback when nothing above applied.
	if len(out) == 0 && len(numCols) > 0 {
		xKey := "index"
		if len(catCols) > 0 {
			xKey = catCols[0].Name
		}
		out = append(out, dataset.ChartConfig{
			ID:          "distribution_bar",
			Title:       fmt.Sprintf("%s Distribution", numCols[0].Name),
			Type:        dataset.ChartBar,
			XAxisKey:    xKey,
			DataKeys:    []string{numCols[0].Name},
			Description: fmt.Sprintf("Value distribution of %s", numCols[0].Name),
		})
	}

	// 5. Filler for grid balance: a chart for the secondary metric.
	if len(out) < 3 && len(numCols) > 1 {
		secondary := numCols[1]
		if dateCol != nil {
			out = append(out, dataset.ChartConfig{
				ID:          "trend_secondary",
				Title:       fmt.Sprintf("%s Trend", secondary.Name),
				Type:        dataset.ChartLine,
				XAxisKey:    dateCol.Name,
				DataKeys:    []string{secondary.Name},
				Description: fmt.Sprintf("Trend analysis for %s", secondary.Name),
			})
		} else if len(catCols) > 0 {
			out = append(out, dataset.ChartConfig{
				ID:          "cat_breakdown_secondary",
				Title:       fmt.Sprintf("%s by %s", secondary.Name, catCols[0].Name),
				Type:        dataset.ChartBar,
				XAxisKey:    catCols[0].Name,
				DataKeys:    []string{secondary.Name},
				Description: "Comparative analysis",
			})
		}
	}

	// 6. Absolute fallback: nothing mappable at all.
	if len(out) == 0 {
		out = append(out, dataset.ChartConfig{
			ID:          "demo_fallback",
			Title:       "Sample Data Overview",
			Type:        dataset.ChartBar,
			XAxisKey:    "category",
			DataKeys:    []string{"value"},
			Description: "No mapable columns found. Showing sample data pattern.",
		})
	}

	return out
}

// sportsDomain guesses whether column names look like cricket/sports data,
// which flips the trend chart's copy.
func sportsDomain(cols []dataset.ColumnMetadata) bool {
	for _, c := range cols {
		name := strings.ToLower(c.Name)
		for _, k := range []string{"over", "inning", "match"} {
			if strings.Contains(name, k) {
				return true
			}
		}
	}
	return false
}
