package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// typeSampleSize caps how many valid values type detection inspects.
// Decisions are made from at most the first 100 non-null values in row
// order; the sampling bias on huge datasets is intentional.
const typeSampleSize = 100

// DetectColumnType classifies one column from its cell values. Precedence
// when a sample satisfies several checks: NUMBER, then DATE, then BOOLEAN,
// then STRING. An all-null column defaults to STRING.
func DetectColumnType(values []dataset.CellValue) dataset.ColumnType {
	sample := make([]dataset.CellValue, 0, typeSampleSize)
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) >= typeSampleSize {
			break
		}
	}
	if len(sample) == 0 {
		return dataset.ColumnString
	}

	allNumber := true
	for _, v := range sample {
		if _, ok := NumericValue(v); !ok {
			allNumber = false
			break
		}
	}
	if allNumber {
		return dataset.ColumnNumber
	}

	allDate := true
	anySeparator := false
	for _, v := range sample {
		s := cellString(v)
		if _, ok := ParseDate(s); !ok {
			allDate = false
			break
		}
		if strings.ContainsAny(s, "-/") {
			anySeparator = true
		}
	}
	// The separator requirement keeps bare numeric tokens from being read
	// as years.
	if allDate && anySeparator {
		return dataset.ColumnDate
	}

	allBool := true
	for _, v := range sample {
		if _, ok := v.(bool); !ok {
			allBool = false
			break
		}
	}
	if allBool {
		return dataset.ColumnBoolean
	}

	return dataset.ColumnString
}

// NumericValue reports the float64 value of a numeric cell.
func NumericValue(v dataset.CellValue) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// ParseDate attempts to read s with the date layouts the app accepts.
func ParseDate(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
		"Jan 2, 2006", "2 Jan 2006",
	}
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cellString(v dataset.CellValue) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
