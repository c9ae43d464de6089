package dataset

// CellValue is a single parsed cell: string, float64, bool, or nil.
type CellValue any

// DataRow maps column names to cell values. All rows of one dataset are
// expected to share the first row's key set; the parser enforces this only
// when NormalizeRows is requested.
type DataRow map[string]CellValue

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	ColumnString  ColumnType = "STRING"
	ColumnNumber  ColumnType = "NUMBER"
	ColumnDate    ColumnType = "DATE"
	ColumnBoolean ColumnType = "BOOLEAN"
)

// NumericStats holds summary statistics for a NUMBER column, computed over
// the cells that passed numeric coercion. Non-numeric cells in an otherwise
// numeric column are excluded, not errored.
type NumericStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
}

// ColumnMetadata describes one column after analysis. Stats is nil for
// non-numeric columns and for numeric columns with no numeric cells.
type ColumnMetadata struct {
	Name         string        `json:"name"`
	Type         ColumnType    `json:"type"`
	UniqueValues int           `json:"uniqueValues"`
	Stats        *NumericStats `json:"stats,omitempty"`
}

// KPIType selects how a KPI value is displayed.
type KPIType string

const (
	KPICurrency   KPIType = "currency"
	KPINumber     KPIType = "number"
	KPIPercentage KPIType = "percentage"
)

// KPI is a single headline metric shown at the top of a dashboard.
type KPI struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Value      float64  `json:"value"`
	Type       KPIType  `json:"type"`
	Trend      *float64 `json:"trend,omitempty"`
	TrendLabel string   `json:"trendLabel,omitempty"`
}

// Dataset is the complete parsed and analyzed representation of one file.
// It is rebuilt from scratch on every load and never partially mutated.
type Dataset struct {
	Name    string           `json:"name"`
	Rows    []DataRow        `json:"rows"`
	Columns []ColumnMetadata `json:"columns"`
	KPIs    []KPI            `json:"kpis"`
}

// ChartType names the visualization kind for a ChartConfig.
type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
	ChartArea    ChartType = "area"
	ChartDonut   ChartType = "donut"
	ChartScatter ChartType = "scatter"
)

// ChartConfig declares how to visualize a dataset slice. DataKeys and
// XAxisKey reference columns of the owning Dataset; the chart selector
// upholds that contract.
type ChartConfig struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        ChartType `json:"type"`
	XAxisKey    string    `json:"xAxisKey"`
	DataKeys    []string  `json:"dataKeys"`
	Description string    `json:"description,omitempty"`
}

// InsightCategory classifies an AI-generated observation.
type InsightCategory string

const (
	InsightGrowth      InsightCategory = "growth"
	InsightAnomaly     InsightCategory = "anomaly"
	InsightCorrelation InsightCategory = "correlation"
	InsightGeneral     InsightCategory = "general"
)

// Insight is one AI-generated observation about a dataset.
type Insight struct {
	Category    InsightCategory `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Confidence  float64         `json:"confidence"`
}

// ForecastPoint is one predicted future period with confidence bounds.
type ForecastPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}

// StorySegment is one step of a DataStory. ChartID optionally links the
// segment to a ChartConfig for highlighting.
type StorySegment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	AudioScript string `json:"audioScript,omitempty"`
	ChartID     string `json:"chartId,omitempty"`
}

// DataStory is a short AI-generated narrative over a dataset.
type DataStory struct {
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Segments []StorySegment `json:"segments"`
}
