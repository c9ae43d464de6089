package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/insightx/insightx-cli/internal/dataset"
)

func tsDataset(name string, rows []dataset.DataRow) *dataset.Dataset {
	return &dataset.Dataset{
		Name: name,
		Rows: rows,
		Columns: []dataset.ColumnMetadata{
			{Name: "date", Type: dataset.ColumnDate},
			{Name: "sales", Type: dataset.ColumnNumber, Stats: &dataset.NumericStats{Min: 1, Max: 9, Sum: 10, Avg: 5}},
		},
		KPIs: []dataset.KPI{{ID: "total_records", Label: "Total Records", Value: float64(len(rows)), Type: dataset.KPINumber}},
	}
}

// textServer answers every generate call with the given text payload and
// counts the calls.
func textServer(t *testing.T, text string) (*ipv4Server, *int32) {
	t.Helper()
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(GenerateResponse{Text: text})
	}))
	return srv, &calls
}

func newTestService(baseURL, apiKey string) *Service {
	c := NewClientWithBaseURL(apiKey, "test-model", 2*time.Second, 0, time.Millisecond, baseURL)
	return NewService(c, nil, nil)
}

func TestGenerateInsightsMockWithoutKey(t *testing.T) {
	svc := newTestService("http://127.0.0.1:1", "")
	got := svc.GenerateInsights(context.Background(), tsDataset("t", nil))
	if len(got) != 2 {
		t.Fatalf("insights = %d, want the fixed mock pair", len(got))
	}
	if got[0].Title != "Data Overview" || got[0].Confidence != 100 {
		t.Errorf("mock[0] = %+v", got[0])
	}
	if got[1].Title != "Revenue Trend" || got[1].Category != dataset.InsightGrowth {
		t.Errorf("mock[1] = %+v", got[1])
	}
}

func TestGenerateInsightsParsesAndCaches(t *testing.T) {
	payload := `[{"type":"growth","title":"Up","description":"Sales rose","confidence":80}]`
	srv, calls := textServer(t, payload)
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	ds := tsDataset("t", []dataset.DataRow{{"date": "2023-01-01", "sales": 1.0}})
	first := svc.GenerateInsights(context.Background(), ds)
	if len(first) != 1 || first[0].Title != "Up" {
		t.Fatalf("insights = %+v", first)
	}
	second := svc.GenerateInsights(context.Background(), ds)
	if len(second) != 1 {
		t.Fatalf("cached insights = %+v", second)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("server saw %d calls, want 1 (second served from cache)", n)
	}
}

func TestGenerateInsightsDegradesToNil(t *testing.T) {
	srv, _ := testServerSequence(t, []int{500}, nil, "")
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	if got := svc.GenerateInsights(context.Background(), tsDataset("t", nil)); got != nil {
		t.Errorf("insights = %+v, want nil on gateway failure", got)
	}
}

func TestGenerateDataStoryContracts(t *testing.T) {
	// Without a key the story is silently nil.
	svc := newTestService("http://127.0.0.1:1", "")
	if got := svc.GenerateDataStory(context.Background(), tsDataset("t", nil), nil); got != nil {
		t.Errorf("story = %+v, want nil without credentials", got)
	}

	// And nil again on gateway failure with a key present.
	srv, _ := testServerSequence(t, []int{500}, nil, "")
	defer srv.Close()
	svc = newTestService(srv.URL, "key")
	if got := svc.GenerateDataStory(context.Background(), tsDataset("t", nil), nil); got != nil {
		t.Errorf("story = %+v, want nil on gateway failure", got)
	}
}

func TestGenerateDataStoryParses(t *testing.T) {
	payload := `{"title":"Q3 Story","summary":"ok","segments":[{"id":"s1","title":"Start","text":"t","audioScript":"a","chartId":"trend_main"}]}`
	srv, _ := textServer(t, payload)
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	story := svc.GenerateDataStory(context.Background(), tsDataset("t", nil), []dataset.Insight{{Description: "d"}})
	if story == nil || story.Title != "Q3 Story" || len(story.Segments) != 1 {
		t.Fatalf("story = %+v", story)
	}
}

func TestGenerateChatResponseContracts(t *testing.T) {
	ds := tsDataset("t", nil)

	svc := newTestService("http://127.0.0.1:1", "")
	if got := svc.GenerateChatResponse(context.Background(), "why?", ds); got != chatNoKeyReply {
		t.Errorf("reply = %q, want the fixed no-key reply", got)
	}

	srv, _ := testServerSequence(t, []int{500}, nil, "")
	defer srv.Close()
	svc = newTestService(srv.URL, "key")
	if got := svc.GenerateChatResponse(context.Background(), "why?", ds); got != chatErrorReply {
		t.Errorf("reply = %q, want the fixed error reply", got)
	}

	empty, _ := textServer(t, "")
	defer empty.Close()
	svc = newTestService(empty.URL, "key")
	if got := svc.GenerateChatResponse(context.Background(), "why?", ds); got != "No response generated." {
		t.Errorf("reply = %q, want the empty-reply placeholder", got)
	}
}

func TestGenerateForecastNoTimeSeries(t *testing.T) {
	srv, calls := textServer(t, "[]")
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	ds := &dataset.Dataset{
		Name:    "flat",
		Columns: []dataset.ColumnMetadata{{Name: "region", Type: dataset.ColumnString}},
	}
	_, err := svc.GenerateForecast(context.Background(), ds)
	if err != ErrNoTimeSeries {
		t.Fatalf("err = %v, want ErrNoTimeSeries", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("server saw %d calls, want 0 (shape checked locally)", n)
	}
}

// Credentials are checked before the shape: a keyless service stays quiet
// even on a dataset with no time series at all.
func TestGenerateForecastNoCredentials(t *testing.T) {
	svc := newTestService("http://127.0.0.1:1", "")
	ds := &dataset.Dataset{
		Name:    "flat",
		Columns: []dataset.ColumnMetadata{{Name: "region", Type: dataset.ColumnString}},
	}
	points, err := svc.GenerateForecast(context.Background(), ds)
	if err != nil || points != nil {
		t.Fatalf("forecast = %v, %v; want empty and nil error", points, err)
	}
}

func TestGenerateForecastDegradesOnFailure(t *testing.T) {
	srv, _ := testServerSequence(t, []int{503}, nil, "")
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	ds := tsDataset("t", []dataset.DataRow{{"date": "2023-01-01", "sales": 1.0}})
	points, err := svc.GenerateForecast(context.Background(), ds)
	if err != nil {
		t.Fatalf("err = %v, want nil (forecast degrades on call failure)", err)
	}
	if len(points) != 0 {
		t.Errorf("points = %+v, want empty", points)
	}
}

func TestGenerateForecastParses(t *testing.T) {
	payload := `[{"date":"2023-02-01","value":10,"lowerBound":8,"upperBound":12}]`
	srv, _ := textServer(t, payload)
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	ds := tsDataset("t", []dataset.DataRow{{"date": "2023-01-01", "sales": 1.0}})
	points, err := svc.GenerateForecast(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Value != 10 || points[0].LowerBound != 8 {
		t.Errorf("points = %+v", points)
	}
}

// The cache fingerprint is name + row count + column count only. Two
// datasets that agree on those three share cache entries even when their
// contents differ.
func TestCacheKeyCollision(t *testing.T) {
	payload := `[{"date":"2023-02-01","value":10,"lowerBound":8,"upperBound":12}]`
	srv, calls := textServer(t, payload)
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	a := tsDataset("same", []dataset.DataRow{{"date": "2023-01-01", "sales": 100.0}})
	b := tsDataset("same", []dataset.DataRow{{"date": "2024-06-30", "sales": 999.0}})

	first, err := svc.GenerateForecast(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.GenerateForecast(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("forecasts differ: %+v vs %+v", first, second)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("server saw %d calls, want 1 (colliding key served from cache)", n)
	}
}

func TestBuildHistoryWindow(t *testing.T) {
	var rows []dataset.DataRow
	// 20 valid points in reverse chronological order, plus rows the
	// history must skip.
	for i := 20; i >= 1; i-- {
		rows = append(rows, dataset.DataRow{"date": time.Date(2023, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), "sales": float64(i)})
	}
	rows = append(rows, dataset.DataRow{"date": "", "sales": 5.0})
	rows = append(rows, dataset.DataRow{"date": "2023-01-31", "sales": nil})

	history := buildHistory(rows, "date", "sales")
	if len(history) != 15 {
		t.Fatalf("history = %d points, want the trailing 15", len(history))
	}
	if history[0].Date != "2023-01-06" || history[14].Date != "2023-01-20" {
		t.Errorf("window = %s .. %s, want 2023-01-06 .. 2023-01-20", history[0].Date, history[14].Date)
	}
}

func TestEnrichDatasetIndependentOutcomes(t *testing.T) {
	insightJSON := `[{"type":"general","title":"ok","description":"d","confidence":50}]`
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Prompt, "Data Story") {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "down"}})
			return
		}
		_ = json.NewEncoder(w).Encode(GenerateResponse{Text: insightJSON})
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, "key")
	enr := svc.EnrichDataset(context.Background(), tsDataset("t", nil))
	if len(enr.Insights) != 1 {
		t.Errorf("insights = %+v, want 1 despite the story failing", enr.Insights)
	}
	if enr.Story != nil {
		t.Errorf("story = %+v, want nil", enr.Story)
	}
}

func TestCacheClearAndLen(t *testing.T) {
	c := NewCache()
	c.Set("k", 1)
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	c.Clear()
	if _, ok := c.Get("k"); ok || c.Len() != 0 {
		t.Error("Clear left entries behind")
	}
}
