package ai

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredentials indicates no API key is configured. Operations in
// Service degrade instead of surfacing this; only direct Client callers
// see it.
var ErrMissingCredentials = errors.New("INSIGHTX_API_KEY is missing")

// ErrNoTimeSeries is the forecast precondition failure: the dataset has no
// date column or no usable numeric column. This is a local validation
// error, not a service error, and is raised loudly.
var ErrNoTimeSeries = errors.New("no time-series data found")

// errMalformedResponse marks a 2xx reply whose body could not be decoded.
// Malformed responses are permanent failures and are never retried.
var errMalformedResponse = errors.New("malformed gateway response")

// APIError is a structured non-2xx response from the model gateway.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string

	retryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.RequestID != "" {
			return fmt.Sprintf("api error: status=%d request_id=%s message=%s", e.StatusCode, e.RequestID, e.Message)
		}
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// QuotaExceededError indicates billing/quota problems.
type QuotaExceededError struct{ *APIError }

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s", e.APIError.Error())
}

// BadRequestError indicates a 4xx request problem (e.g., 400 validation).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// ServerError indicates 5xx errors from the gateway.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("gateway error: %s", e.APIError.Error()) }
