package analysis

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// ErrEmptyDataset is returned when analysis is asked to run on zero rows.
// This is the one loud validation at the load boundary; everything past it
// degrades gracefully.
var ErrEmptyDataset = errors.New("empty dataset")

// AnalyzeDataset builds a full Dataset from parsed rows: per-column type
// inference, distinct counts, numeric stats, and the KPI list.
//
// columns fixes the column order; parsers supply the header order since Go
// maps do not preserve it. When columns is nil the keys of the first row
// are used in sorted order. Rows beyond the first are assumed to share the
// first row's key set.
func AnalyzeDataset(name string, rows []dataset.DataRow, columns []string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	if columns == nil {
		columns = make([]string, 0, len(rows[0]))
		for k := range rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	metas := make([]dataset.ColumnMetadata, 0, len(columns))
	for _, col := range columns {
		values := make([]dataset.CellValue, len(rows))
		for i, r := range rows {
			values[i] = r[col]
		}

		colType := DetectColumnType(values)
		distinct := make(map[dataset.CellValue]struct{}, len(values))
		for _, v := range values {
			distinct[v] = struct{}{}
		}

		meta := dataset.ColumnMetadata{Name: col, Type: colType, UniqueValues: len(distinct)}
		if colType == dataset.ColumnNumber {
			meta.Stats = numericStats(values)
		}
		metas = append(metas, meta)
	}

	return &dataset.Dataset{
		Name:    name,
		Rows:    rows,
		Columns: metas,
		KPIs:    deriveKPIs(rows, metas),
	}, nil
}

// numericStats aggregates over the cells that passed numeric coercion.
// Non-numeric cells in a numeric column are excluded silently. Returns nil
// when no cell is numeric.
func numericStats(values []dataset.CellValue) *dataset.NumericStats {
	var (
		count    int
		sum      float64
		min, max float64
	)
	for _, v := range values {
		n, ok := NumericValue(v)
		if !ok {
			continue
		}
		if count == 0 || n < min {
			min = n
		}
		if count == 0 || n > max {
			max = n
		}
		sum += n
		count++
	}
	if count == 0 {
		return nil
	}
	return &dataset.NumericStats{Min: min, Max: max, Sum: sum, Avg: sum / float64(count)}
}

// deriveKPIs emits the headline metrics in a fixed order: the record count
// first, then total and average of the primary metric. The primary metric
// is the numeric column with the largest sum whose name does not contain
// "id".
func deriveKPIs(rows []dataset.DataRow, metas []dataset.ColumnMetadata) []dataset.KPI {
	kpis := []dataset.KPI{{
		ID:    "total_records",
		Label: "Total Records",
		Value: float64(len(rows)),
		Type:  dataset.KPINumber,
	}}

	var numberCols []dataset.ColumnMetadata
	for _, m := range metas {
		if m.Type == dataset.ColumnNumber && !strings.Contains(strings.ToLower(m.Name), "id") {
			numberCols = append(numberCols, m)
		}
	}
	if len(numberCols) == 0 {
		return kpis
	}

	primary := numberCols[0]
	for _, c := range numberCols[1:] {
		if statSum(primary) > statSum(c) {
			continue
		}
		primary = c
	}

	if primary.Stats != nil && primary.Stats.Sum != 0 {
		// The trend is a randomized stand-in for a period-over-period
		// comparison that does not exist yet. Callers must not depend on
		// its value, only its presence.
		trend := float64(rand.Intn(20) - 5)
		kpis = append(kpis, dataset.KPI{
			ID:    "sum_" + primary.Name,
			Label: "Total " + capitalize(primary.Name),
			Value: round2(primary.Stats.Sum),
			Type:  dataset.KPICurrency,
			Trend: &trend,
		})
		if primary.Stats.Avg != 0 {
			kpis = append(kpis, dataset.KPI{
				ID:    "avg_" + primary.Name,
				Label: "Avg " + capitalize(primary.Name),
				Value: round2(primary.Stats.Avg),
				Type:  dataset.KPICurrency,
			})
		}
	}
	return kpis
}

func statSum(m dataset.ColumnMetadata) float64 {
	if m.Stats == nil {
		return 0
	}
	return m.Stats.Sum
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// capitalize upper-cases the first rune only, leaving the rest unchanged.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
