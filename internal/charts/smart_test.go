package charts

import (
	"reflect"
	"testing"

	"github.com/insightx/insightx-cli/internal/analysis"
	"github.com/insightx/insightx-cli/internal/dataset"
)

func demoDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := analysis.AnalyzeDataset(dataset.DemoName, dataset.DemoRows(), dataset.DemoColumns())
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestSmartChartsDemoDataset(t *testing.T) {
	plan := GenerateSmartCharts(demoDataset(t))
	if len(plan) < 2 {
		t.Fatalf("plan = %d charts, want at least trend and breakdown", len(plan))
	}
	headline := plan[0]
	if headline.ID != "trend_main" || headline.Type != dataset.ChartArea {
		t.Errorf("headline = %+v, want area trend", headline)
	}
	if headline.XAxisKey != "date" || headline.DataKeys[0] != "sales" {
		t.Errorf("headline keys = %s/%v, want date/sales", headline.XAxisKey, headline.DataKeys)
	}
	breakdown := plan[1]
	if breakdown.Type != dataset.ChartDonut {
		t.Errorf("breakdown = %+v, want donut", breakdown)
	}
	if breakdown.XAxisKey != "region" && breakdown.XAxisKey != "product" {
		t.Errorf("breakdown axis = %s, want region or product", breakdown.XAxisKey)
	}
	// Every referenced key must exist on the dataset.
	cols := map[string]bool{"date": true, "region": true, "product": true, "sales": true, "units": true}
	for _, c := range plan {
		if !cols[c.XAxisKey] {
			t.Errorf("chart %s references unknown x-axis %q", c.ID, c.XAxisKey)
		}
		for _, k := range c.DataKeys {
			if !cols[k] {
				t.Errorf("chart %s references unknown key %q", c.ID, k)
			}
		}
	}
}

func TestSmartChartsIdempotent(t *testing.T) {
	ds := demoDataset(t)
	a := GenerateSmartCharts(ds)
	b := GenerateSmartCharts(ds)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("plans differ between identical calls:\n%v\n%v", a, b)
	}
}

func TestSmartChartsNeverEmpty(t *testing.T) {
	// No numeric, no categorical, no date column at all.
	ds := &dataset.Dataset{
		Name:    "hostile",
		Columns: []dataset.ColumnMetadata{{Name: "blob", Type: dataset.ColumnString, UniqueValues: 90}},
	}
	plan := GenerateSmartCharts(ds)
	if len(plan) != 1 {
		t.Fatalf("plan = %d charts, want exactly the fallback", len(plan))
	}
	fb := plan[0]
	if fb.ID != "demo_fallback" || fb.XAxisKey != "category" || fb.DataKeys[0] != "value" {
		t.Errorf("fallback = %+v", fb)
	}
}

func TestSmartChartsDistributionFallback(t *testing.T) {
	// One numeric column, no date, no usable category: distribution bar
	// keyed by the literal index placeholder.
	ds := &dataset.Dataset{
		Name: "nums",
		Columns: []dataset.ColumnMetadata{
			{Name: "value", Type: dataset.ColumnNumber, Stats: &dataset.NumericStats{Sum: 10}},
		},
	}
	plan := GenerateSmartCharts(ds)
	if plan[0].ID != "distribution_bar" || plan[0].XAxisKey != "index" {
		t.Errorf("plan[0] = %+v, want index-keyed distribution", plan[0])
	}
}

func TestSmartChartsFillerSecondaryTrend(t *testing.T) {
	ds := &dataset.Dataset{
		Name: "two-metrics",
		Columns: []dataset.ColumnMetadata{
			{Name: "day", Type: dataset.ColumnDate},
			{Name: "revenue", Type: dataset.ColumnNumber},
			{Name: "cost", Type: dataset.ColumnNumber},
		},
	}
	plan := GenerateSmartCharts(ds)
	// trend + scatter, then the filler line for the secondary metric.
	var filler *dataset.ChartConfig
	for i := range plan {
		if plan[i].ID == "trend_secondary" {
			filler = &plan[i]
		}
	}
	if filler == nil {
		t.Fatalf("plan %v missing trend_secondary filler", plan)
	}
	if filler.Type != dataset.ChartLine || filler.DataKeys[0] != "cost" {
		t.Errorf("filler = %+v", filler)
	}
}

func TestSmartChartsFillerCategoricalWithoutDate(t *testing.T) {
	ds := &dataset.Dataset{
		Name: "no-date",
		Columns: []dataset.ColumnMetadata{
			{Name: "segment", Type: dataset.ColumnString, UniqueValues: 4},
			{Name: "revenue", Type: dataset.ColumnNumber},
			{Name: "cost", Type: dataset.ColumnNumber},
		},
	}
	plan := GenerateSmartCharts(ds)
	var filler *dataset.ChartConfig
	for i := range plan {
		if plan[i].ID == "cat_breakdown_secondary" {
			filler = &plan[i]
		}
	}
	if filler == nil {
		t.Fatalf("plan %v missing categorical filler", plan)
	}
	if filler.Type != dataset.ChartBar || filler.XAxisKey != "segment" {
		t.Errorf("filler = %+v", filler)
	}
}

func TestSmartChartsSportsCopy(t *testing.T) {
	ds := &dataset.Dataset{
		Name: "cricket",
		Columns: []dataset.ColumnMetadata{
			{Name: "over", Type: dataset.ColumnDate},
			{Name: "runs", Type: dataset.ColumnNumber},
		},
	}
	plan := GenerateSmartCharts(ds)
	if plan[0].Title != "runs Progression" {
		t.Errorf("title = %q, want sports progression copy", plan[0].Title)
	}

	plain := &dataset.Dataset{
		Name: "sales",
		Columns: []dataset.ColumnMetadata{
			{Name: "date", Type: dataset.ColumnDate},
			{Name: "sales", Type: dataset.ColumnNumber},
		},
	}
	if got := GenerateSmartCharts(plain)[0].Title; got != "sales Over Time" {
		t.Errorf("title = %q, want default copy", got)
	}
}

func TestSmartChartsExcludesIDColumns(t *testing.T) {
	ds := &dataset.Dataset{
		Name: "ids",
		Columns: []dataset.ColumnMetadata{
			{Name: "day", Type: dataset.ColumnDate},
			{Name: "user_id", Type: dataset.ColumnNumber},
			{Name: "spend", Type: dataset.ColumnNumber},
		},
	}
	plan := GenerateSmartCharts(ds)
	for _, c := range plan {
		for _, k := range c.DataKeys {
			if k == "user_id" {
				t.Errorf("chart %s uses excluded id column", c.ID)
			}
		}
	}
	if plan[0].DataKeys[0] != "spend" {
		t.Errorf("headline keys = %v, want spend", plan[0].DataKeys)
	}
}
