package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/insightx/insightx-cli/internal/analysis"
	"github.com/insightx/insightx-cli/internal/dataset"
	"github.com/insightx/insightx-cli/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	// maxPromptTokens bounds every prompt sent to the gateway.
	maxPromptTokens = 4096
	// summaries are capped so huge datasets don't blow up prompt size.
	maxSummaryColumns = 10
	maxSummaryKPIs    = 5
	// historyWindow is how many trailing periods feed the forecast.
	historyWindow = 15

	chatNoKeyReply = "I can't answer that without an API key."
	chatErrorReply = "Error analyzing question. Please try again."
)

// Service exposes the four AI enrichment operations over one dataset
// session. Error contracts are deliberately asymmetric and must stay so:
// insights, story and chat never fail loudly (they degrade to mocks, nil,
// or fixed strings); forecast raises ErrNoTimeSeries on bad input shape
// but still degrades to an empty result on call failure.
type Service struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
}

// NewService wires a Service from its dependencies. The cache is injected
// so callers control its lifecycle; nil gets a fresh one.
func NewService(client *Client, cache *Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// GenerateInsights asks the gateway for three business observations about
// the dataset. Without credentials it returns a fixed mock pair; on any
// transport or parse failure it returns nothing. Insight generation must
// never block a dashboard.
func (s *Service) GenerateInsights(ctx context.Context, ds *dataset.Dataset) []dataset.Insight {
	key := Key("insights", ds, "")
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]dataset.Insight); ok {
			return cached
		}
	}

	if !s.client.HasCredentials() {
		s.logger.Warn("api key missing, returning mock insights")
		return []dataset.Insight{
			{Category: dataset.InsightGeneral, Title: "Data Overview", Description: "API key missing. Showing mock insights.", Confidence: 100},
			{Category: dataset.InsightGrowth, Title: "Revenue Trend", Description: "Positive growth trajectory observed.", Confidence: 85},
		}
	}

	summary, err := json.Marshal(summarize(ds))
	if err != nil {
		s.logger.Warn("insight generation skipped", "error", err)
		return nil
	}
	prompt := fmt.Sprintf(
		"Analyze this dataset summary and generate 3 business observations.\nDataset Summary: %s\nReturn JSON array: [{type, title, description, confidence}].",
		summary)

	resp, err := s.client.Generate(ctx, GenerateRequest{
		Prompt:         s.boundPrompt("insights", prompt),
		ResponseSchema: insightSchema(),
	})
	if err != nil {
		s.logger.Warn("insight generation skipped", "error", err)
		return nil
	}
	var insights []dataset.Insight
	if err := json.Unmarshal([]byte(resp.Text), &insights); err != nil {
		s.logger.Warn("insight generation skipped", "error", err, "request_id", resp.RequestID)
		return nil
	}
	s.cache.Set(key, insights)
	return insights
}

// GenerateDataStory builds a short narrative over the dataset, optionally
// seeded with previously generated insights. Returns nil without
// credentials and on any failure.
func (s *Service) GenerateDataStory(ctx context.Context, ds *dataset.Dataset, insights []dataset.Insight) *dataset.DataStory {
	key := Key("story", ds, strconv.Itoa(len(insights)))
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(*dataset.DataStory); ok {
			return cached
		}
	}
	if !s.client.HasCredentials() {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s\nKPIs: %s", ds.Name, kpiLines(ds, maxSummaryKPIs))
	if len(insights) > 0 {
		var descs []string
		for _, in := range insights {
			descs = append(descs, in.Description)
			if len(descs) == 3 {
				break
			}
		}
		fmt.Fprintf(&b, "\nInsights: %s", strings.Join(descs, "; "))
	} else {
		var stats []string
		for _, c := range ds.Columns {
			if c.Type != dataset.ColumnNumber || strings.ToLower(c.Name) == "id" || c.Stats == nil {
				continue
			}
			stats = append(stats, fmt.Sprintf("%s (Avg: %.1f)", c.Name, c.Stats.Avg))
			if len(stats) == 3 {
				break
			}
		}
		fmt.Fprintf(&b, "\nStats: %s", strings.Join(stats, "; "))
	}

	prompt := fmt.Sprintf(
		"Create a \"Data Story\" (3 segments) based on this context.\nContext: %s\nReturn JSON: {title, summary, segments: [{id, title, text, audioScript, chartId}]}.\nKeep audioScript concise.",
		b.String())

	resp, err := s.client.Generate(ctx, GenerateRequest{
		Prompt:         s.boundPrompt("story", prompt),
		ResponseSchema: storySchema(),
	})
	if err != nil {
		s.logger.Warn("story generation failed gracefully", "error", err)
		return nil
	}
	var story dataset.DataStory
	if err := json.Unmarshal([]byte(resp.Text), &story); err != nil {
		s.logger.Warn("story generation failed gracefully", "error", err, "request_id", resp.RequestID)
		return nil
	}
	s.cache.Set(key, &story)
	return &story
}

// GenerateChatResponse answers a free-text question about the dataset in
// plain text. Never raises: missing credentials and failures both map to
// fixed reply strings.
func (s *Service) GenerateChatResponse(ctx context.Context, query string, ds *dataset.Dataset) string {
	key := Key("chat", ds, query)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(string); ok {
			return cached
		}
	}
	if !s.client.HasCredentials() {
		return chatNoKeyReply
	}

	var names []string
	for _, c := range ds.Columns {
		names = append(names, c.Name)
	}
	briefing := fmt.Sprintf("Columns: %s.\nKPIs: %s.", strings.Join(names, ", "), kpiLines(ds, len(ds.KPIs)))
	prompt := fmt.Sprintf("Context: %s. User Question: %q. Answer briefly in plain text.", briefing, query)

	resp, err := s.client.Generate(ctx, GenerateRequest{
		Prompt: s.boundPrompt("chat", prompt),
	})
	if err != nil {
		s.logger.Warn("chat response failed", "error", err)
		return chatErrorReply
	}
	answer := resp.Text
	if answer == "" {
		answer = "No response generated."
	}
	s.cache.Set(key, answer)
	return answer
}

// GenerateForecast predicts the next three periods of the dataset's first
// date/number column pair. It raises ErrNoTimeSeries when the dataset has
// no such pair; missing credentials and call failures yield an empty
// result with no error.
func (s *Service) GenerateForecast(ctx context.Context, ds *dataset.Dataset) ([]dataset.ForecastPoint, error) {
	key := Key("forecast", ds, "")
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]dataset.ForecastPoint); ok {
			return cached, nil
		}
	}
	if !s.client.HasCredentials() {
		return nil, nil
	}

	var dateCol, numCol *dataset.ColumnMetadata
	for i, c := range ds.Columns {
		if dateCol == nil && c.Type == dataset.ColumnDate {
			dateCol = &ds.Columns[i]
		}
		if numCol == nil && c.Type == dataset.ColumnNumber && !strings.Contains(strings.ToLower(c.Name), "id") {
			numCol = &ds.Columns[i]
		}
	}
	if dateCol == nil || numCol == nil {
		return nil, ErrNoTimeSeries
	}

	history := buildHistory(ds.Rows, dateCol.Name, numCol.Name)
	historyJSON, err := json.Marshal(history)
	if err != nil {
		s.logger.Warn("forecast generation failed", "error", err)
		return nil, nil
	}
	prompt := fmt.Sprintf(
		"History: %s\nPredict next 3 periods. Return JSON array: [{date, value, lowerBound, upperBound}].",
		historyJSON)

	resp, err := s.client.Generate(ctx, GenerateRequest{
		Prompt:         s.boundPrompt("forecast", prompt),
		ResponseSchema: forecastSchema(),
	})
	if err != nil {
		s.logger.Warn("forecast generation failed", "error", err)
		return nil, nil
	}
	var points []dataset.ForecastPoint
	if err := json.Unmarshal([]byte(resp.Text), &points); err != nil {
		s.logger.Warn("forecast generation failed", "error", err, "request_id", resp.RequestID)
		return nil, nil
	}
	s.cache.Set(key, points)
	return points, nil
}

// Enrichment bundles the results of the concurrent post-render AI pass.
type Enrichment struct {
	Insights []dataset.Insight
	Story    *dataset.DataStory
}

// EnrichDataset issues insight and story generation concurrently. Each
// outcome lands independently: one failing (to its degraded value) never
// affects the other. The heuristic dashboard is expected to be rendered
// before this is called.
func (s *Service) EnrichDataset(ctx context.Context, ds *dataset.Dataset) Enrichment {
	var enr Enrichment
	var g errgroup.Group
	g.Go(func() error {
		enr.Insights = s.GenerateInsights(ctx, ds)
		return nil
	})
	g.Go(func() error {
		enr.Story = s.GenerateDataStory(ctx, ds, nil)
		return nil
	})
	// Both operations degrade internally and never return an error.
	_ = g.Wait()
	return enr
}

// boundPrompt truncates a prompt to the gateway budget and logs its
// estimated size.
func (s *Service) boundPrompt(op, prompt string) string {
	p := utils.TruncateToTokenLimit(prompt, maxPromptTokens)
	s.logger.Debug("prompt built", "op", op, "est_tokens", utils.CountTokens(p))
	return p
}

type historyPoint struct {
	Date  string            `json:"date"`
	Value dataset.CellValue `json:"value"`
}

// buildHistory collects the chronologically last historyWindow points of
// the date/value pair, skipping rows with a blank date or null value.
func buildHistory(rows []dataset.DataRow, dateKey, valueKey string) []historyPoint {
	type datedRow struct {
		t   time.Time
		raw string
		val dataset.CellValue
	}
	var dated []datedRow
	for _, r := range rows {
		d, v := r[dateKey], r[valueKey]
		if !truthy(d) || v == nil {
			continue
		}
		raw := fmt.Sprint(d)
		t, _ := analysis.ParseDate(raw)
		dated = append(dated, datedRow{t: t, raw: raw, val: v})
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].t.Before(dated[j].t) })
	if len(dated) > historyWindow {
		dated = dated[len(dated)-historyWindow:]
	}
	out := make([]historyPoint, len(dated))
	for i, d := range dated {
		out[i] = historyPoint{Date: d.raw, Value: d.val}
	}
	return out
}

func truthy(v dataset.CellValue) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}

type columnBrief struct {
	Name  string             `json:"name"`
	Type  dataset.ColumnType `json:"type"`
	Stats map[string]any     `json:"stats"`
}

type datasetBrief struct {
	TotalRows int           `json:"totalRows"`
	Columns   []columnBrief `json:"columns"`
	KPIs      []string      `json:"kpis"`
}

// summarize compacts a dataset for prompt context: at most
// maxSummaryColumns columns and maxSummaryKPIs KPIs.
func summarize(ds *dataset.Dataset) datasetBrief {
	brief := datasetBrief{TotalRows: len(ds.Rows)}
	for _, c := range ds.Columns {
		if len(brief.Columns) == maxSummaryColumns {
			break
		}
		cb := columnBrief{Name: c.Name, Type: c.Type}
		if c.Type == dataset.ColumnNumber && c.Stats != nil {
			cb.Stats = map[string]any{"min": c.Stats.Min, "max": c.Stats.Max, "avg": c.Stats.Avg}
		} else {
			cb.Stats = map[string]any{"unique": c.UniqueValues}
		}
		brief.Columns = append(brief.Columns, cb)
	}
	for _, k := range ds.KPIs {
		if len(brief.KPIs) == maxSummaryKPIs {
			break
		}
		brief.KPIs = append(brief.KPIs, fmt.Sprintf("%s: %g", k.Label, k.Value))
	}
	return brief
}

func kpiLines(ds *dataset.Dataset, limit int) string {
	var parts []string
	for _, k := range ds.KPIs {
		if len(parts) == limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %g", k.Label, k.Value))
	}
	return strings.Join(parts, ", ")
}
