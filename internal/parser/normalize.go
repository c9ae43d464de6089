package parser

import (
	"fmt"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// NormalizeRows validates every row against the given column set. Missing
// keys become explicit nils, so downstream analysis sees sparse columns
// instead of panicking on absent keys; keys outside the column set are
// dropped. Returns the normalized rows plus human-readable warnings about
// what was adjusted.
func NormalizeRows(rows []dataset.DataRow, columns []string) ([]dataset.DataRow, []string) {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	var padded, trimmed int
	out := make([]dataset.DataRow, len(rows))
	for i, row := range rows {
		clean := make(dataset.DataRow, len(columns))
		for _, c := range columns {
			v, ok := row[c]
			if !ok {
				padded++
			}
			clean[c] = v
		}
		for k := range row {
			if _, ok := known[k]; !ok {
				trimmed++
			}
		}
		out[i] = clean
	}

	var warnings []string
	if padded > 0 {
		warnings = append(warnings, fmt.Sprintf("filled %d missing cell(s) with nulls", padded))
	}
	if trimmed > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d cell(s) outside the header column set", trimmed))
	}
	return out, warnings
}
