package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/insightx/insightx-cli/internal/dataset"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func (csvParser) Parse(content []byte) ([]dataset.DataRow, []string, error) {
	rows, cols := ParseCSV(string(content))
	return rows, cols, nil
}

// ParseCSV turns newline-separated comma-delimited text into data rows.
// The first non-blank line is the header; header tokens are trimmed and
// stripped of surrounding double quotes. Fewer than two non-blank lines
// yields no rows rather than an error.
//
// Cells are split on raw commas: quoted commas, embedded newlines and
// escaped quotes are not supported. That limitation is part of the upload
// contract and is pinned by tests.
func ParseCSV(text string) ([]dataset.DataRow, []string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, nil
	}

	rawHeaders := strings.Split(lines[0], ",")
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = stripQuotes(strings.TrimSpace(h))
	}

	rows := make([]dataset.DataRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make(dataset.DataRow, len(headers))
		for j, h := range headers {
			if j >= len(values) {
				row[h] = nil
				continue
			}
			row[h] = CoerceCell(values[j])
		}
		rows = append(rows, row)
	}
	return rows, headers
}

// CoerceCell applies the per-cell typing rules: empty string becomes nil,
// then numeric coercion, then case-insensitive true/false, else the
// trimmed string is kept. ParseFloat accepts the literal "NaN", which
// must stay a string: a NaN cell would otherwise classify the column as
// NUMBER and poison its stats.
func CoerceCell(raw string) dataset.CellValue {
	val := stripQuotes(strings.TrimSpace(raw))
	if val == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(val, 64); err == nil && !math.IsNaN(n) {
		return n
	}
	switch strings.ToLower(val) {
	case "true":
		return true
	case "false":
		return false
	}
	return val
}

// stripQuotes removes one leading and one trailing double quote, each
// independently of the other.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
