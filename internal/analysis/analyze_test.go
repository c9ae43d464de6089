package analysis

import (
	"errors"
	"testing"

	"github.com/insightx/insightx-cli/internal/dataset"
)

func TestAnalyzeDatasetEmptyRows(t *testing.T) {
	if _, err := AnalyzeDataset("empty", nil, nil); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestAnalyzeDatasetColumnOrder(t *testing.T) {
	rows := []dataset.DataRow{{"b": 1.0, "a": "x"}}
	ds, err := AnalyzeDataset("t", rows, []string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Columns[0].Name != "b" || ds.Columns[1].Name != "a" {
		t.Errorf("column order = %v, want supplied order", ds.Columns)
	}
}

func TestAnalyzeDatasetStatsExcludeNonNumeric(t *testing.T) {
	// 100 numeric rows fill the detection sample; the junk row after the
	// window leaves the column NUMBER, and its cell is skipped by stats.
	var rows []dataset.DataRow
	for i := 0; i < 100; i++ {
		rows = append(rows, dataset.DataRow{"v": float64(i)})
	}
	rows = append(rows, dataset.DataRow{"v": "#VALUE!"})
	ds, err := AnalyzeDataset("t", rows, []string{"v"})
	if err != nil {
		t.Fatal(err)
	}
	col := ds.Columns[0]
	if col.Type != dataset.ColumnNumber {
		t.Fatalf("type = %v, want NUMBER", col.Type)
	}
	if col.Stats == nil || col.Stats.Sum != 4950 || col.Stats.Avg != 49.5 {
		t.Errorf("stats = %+v; junk cell must be excluded", col.Stats)
	}
}

func TestNumericStatsMixedColumn(t *testing.T) {
	// Stats aggregate only over numeric cells, silently skipping the rest.
	stats := numericStats([]dataset.CellValue{10.0, 20.0, "#VALUE!", nil, 30.0})
	if stats == nil {
		t.Fatal("stats = nil")
	}
	if stats.Sum != 60 || stats.Avg != 20 || stats.Min != 10 || stats.Max != 30 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUniqueValuesCountsNull(t *testing.T) {
	rows := []dataset.DataRow{{"c": "a"}, {"c": nil}, {"c": "a"}, {"c": nil}}
	ds, err := AnalyzeDataset("t", rows, []string{"c"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ds.Columns[0].UniqueValues; got != 2 {
		t.Errorf("uniqueValues = %d, want 2 (null counts as one value)", got)
	}
}

func TestKPIDerivation(t *testing.T) {
	rows := []dataset.DataRow{
		{"order_id": 1.0, "sales": 100.0, "units": 5.0},
		{"order_id": 2.0, "sales": 250.5, "units": 3.0},
	}
	ds, err := AnalyzeDataset("t", rows, []string{"order_id", "sales", "units"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.KPIs) != 3 {
		t.Fatalf("kpis = %d, want 3", len(ds.KPIs))
	}
	if ds.KPIs[0].ID != "total_records" || ds.KPIs[0].Value != 2 {
		t.Errorf("first KPI = %+v, want total_records=2", ds.KPIs[0])
	}
	// sales beats units on sum; order_id is excluded by name.
	if ds.KPIs[1].ID != "sum_sales" || ds.KPIs[1].Label != "Total Sales" {
		t.Errorf("sum KPI = %+v", ds.KPIs[1])
	}
	if ds.KPIs[1].Value != 350.5 {
		t.Errorf("sum value = %v, want 350.5", ds.KPIs[1].Value)
	}
	// The trend is a randomized placeholder: assert presence and range
	// only, never an exact value.
	if ds.KPIs[1].Trend == nil {
		t.Fatal("sum KPI missing trend")
	}
	if tr := *ds.KPIs[1].Trend; tr < -5 || tr > 14 {
		t.Errorf("trend = %v, outside placeholder range", tr)
	}
	if ds.KPIs[2].ID != "avg_sales" || ds.KPIs[2].Value != 175.25 {
		t.Errorf("avg KPI = %+v", ds.KPIs[2])
	}
	if ds.KPIs[2].Trend != nil {
		t.Error("avg KPI should carry no trend")
	}
}

func TestKPIDerivationNoNumericColumns(t *testing.T) {
	rows := []dataset.DataRow{{"name": "a"}, {"name": "b"}}
	ds, err := AnalyzeDataset("t", rows, []string{"name"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.KPIs) != 1 {
		t.Errorf("kpis = %v, want only total_records", ds.KPIs)
	}
}

func TestAnalyzeDemoDataset(t *testing.T) {
	ds, err := AnalyzeDataset(dataset.DemoName, dataset.DemoRows(), dataset.DemoColumns())
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]dataset.ColumnMetadata{}
	for _, c := range ds.Columns {
		byName[c.Name] = c
	}
	if byName["date"].Type != dataset.ColumnDate {
		t.Errorf("date type = %v", byName["date"].Type)
	}
	if byName["region"].Type != dataset.ColumnString || byName["region"].UniqueValues != 3 {
		t.Errorf("region = %+v", byName["region"])
	}
	sales := byName["sales"]
	if sales.Type != dataset.ColumnNumber || sales.Stats == nil {
		t.Fatalf("sales = %+v", sales)
	}
	if sales.Stats.Sum != 92400 {
		t.Errorf("sales sum = %v, want 92400", sales.Stats.Sum)
	}
	if units := byName["units"]; units.Stats == nil || units.Stats.Sum != 237 {
		t.Errorf("units sum = %+v, want 237", units.Stats)
	}
	// sales wins the primary-metric pick on sum.
	if ds.KPIs[1].ID != "sum_sales" || ds.KPIs[1].Value != 92400 {
		t.Errorf("sum KPI = %+v", ds.KPIs[1])
	}
	if ds.KPIs[2].ID != "avg_sales" || ds.KPIs[2].Value != 6160 {
		t.Errorf("avg KPI = %+v", ds.KPIs[2])
	}
}
