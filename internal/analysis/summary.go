package analysis

import (
	"fmt"
	"strings"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// RenderSummary renders a compact plain-text report of an analyzed dataset,
// suitable for terminal output or as prompt context.
func RenderSummary(ds *dataset.Dataset) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if ds.Name != "" {
		b.WriteString(fmt.Sprintf("Name: %s\n", ds.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", len(ds.Rows)))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(ds.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range ds.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (unique %d)", c.Name, c.Type, c.UniqueValues))
		if c.Stats != nil {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, sum %.4g, avg %.4g",
				c.Stats.Min, c.Stats.Max, c.Stats.Sum, c.Stats.Avg))
		}
		b.WriteString("\n")
	}

	if len(ds.KPIs) > 0 {
		b.WriteString("\n[KPIS]\n")
		for _, k := range ds.KPIs {
			b.WriteString(fmt.Sprintf("- %s: %s", k.Label, formatKPIValue(k)))
			if k.Trend != nil {
				b.WriteString(fmt.Sprintf(" (trend %+.0f%%)", *k.Trend))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatKPIValue(k dataset.KPI) string {
	switch k.Type {
	case dataset.KPICurrency:
		return fmt.Sprintf("$%.2f", k.Value)
	case dataset.KPIPercentage:
		return fmt.Sprintf("%.1f%%", k.Value)
	default:
		return fmt.Sprintf("%g", k.Value)
	}
}
