package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.insightx.dev"
	defaultModel      = "insightx-flash"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	defaultBaseDelay  = 1000 * time.Millisecond
)

// GenerateRequest is one prompt submission. ResponseSchema optionally asks
// the gateway for structured JSON output matching the schema.
type GenerateRequest struct {
	Model          string         `json:"model"`
	Prompt         string         `json:"prompt"`
	ResponseSchema map[string]any `json:"response_schema,omitempty"`
}

// GenerateResponse carries the gateway's text (or JSON-as-text) reply.
type GenerateResponse struct {
	Text      string `json:"text"`
	RequestID string `json:"-"`
}

// Client talks to the hosted model gateway. The vendor behind the gateway
// is opaque: the contract is prompt plus optional schema in, text or a
// typed failure out.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	baseDelay  time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient returns a client with the default timeout and retry strategy:
// up to 3 retries with exponential backoff starting at 1s.
func NewClient(apiKey, model string) *Client {
	return NewClientWithOptions(apiKey, model, defaultTimeout, defaultMaxRetries, defaultBaseDelay, 0)
}

// NewClientWithOptions customizes HTTP timeout, retry count, backoff base
// delay and an optional client-side rate limit (requests per second; 0
// disables the limiter).
func NewClientWithOptions(apiKey, model string, httpTimeout time.Duration, maxRetries int, baseDelay time.Duration, rps float64) *Client {
	if model == "" {
		model = defaultModel
	}
	if httpTimeout <= 0 {
		httpTimeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	c := &Client{
		httpClient: &http.Client{Timeout: httpTimeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     slog.Default(),
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// NewClientWithBaseURL additionally overrides the gateway URL (used in
// tests).
func NewClientWithBaseURL(apiKey, model string, httpTimeout time.Duration, maxRetries int, baseDelay time.Duration, baseURL string) *Client {
	c := NewClientWithOptions(apiKey, model, httpTimeout, maxRetries, baseDelay, 0)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// SetBaseURL overrides the gateway URL; empty keeps the current one.
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = u
	}
}

// SetLogger replaces the client logger.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// HasCredentials reports whether an API key is configured.
func (c *Client) HasCredentials() bool { return c.apiKey != "" }

// Generate submits a prompt and returns the gateway reply. Transient
// failures (no status code, 5xx, 429) are retried with exponential
// backoff; everything else propagates immediately as a typed error.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}
	if req.Model == "" {
		req.Model = c.model
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	delay := c.baseDelay
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("gateway call failed, retrying",
				"attempt", attempt, "delay", delay.String(), "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.doOnce(ctx, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			return nil, classify(err)
		}
	}
	return nil, classify(lastErr)
}

func (c *Client) doOnce(ctx context.Context, payload []byte) (*GenerateResponse, error) {
	endpoint := c.baseURL + "/v1/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				apiErr.retryAfter = time.Duration(secs) * time.Second
			}
		}
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		if v, ok := raw["error"].(map[string]any); ok {
			if msg, ok := v["message"].(string); ok {
				apiErr.Message = msg
			}
			if code, ok := v["code"].(string); ok {
				apiErr.Code = code
			}
		} else if msg, ok := raw["message"].(string); ok {
			apiErr.Message = msg
		}
		return nil, apiErr
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedResponse, err)
	}
	out.RequestID = requestID
	return &out, nil
}

// isRetryable applies the transient-failure classification: no status code
// at all (network trouble), 5xx, or 429.
func isRetryable(err error) bool {
	if errors.Is(err, errMalformedResponse) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

// quotaSignal heuristically spots billing/quota failures by code or
// message, since the gateway has no dedicated status for them.
func quotaSignal(e *APIError) bool {
	if e.Code == "quota_exceeded" {
		return true
	}
	msg := strings.ToLower(e.Message)
	for _, kw := range []string{"quota", "billing", "limit exceeded"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// classify maps a raw APIError to the typed error callers match on.
func classify(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return &AuthError{apiErr}
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{APIError: apiErr, RetryAfter: apiErr.retryAfter}
	case quotaSignal(apiErr):
		return &QuotaExceededError{apiErr}
	case apiErr.StatusCode >= 500:
		return &ServerError{apiErr}
	case apiErr.StatusCode >= 400:
		return &BadRequestError{apiErr}
	default:
		return apiErr
	}
}
