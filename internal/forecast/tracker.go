// Package forecast manages the request lifecycle around forecast
// generation, mirroring what a UI binding needs: loading and error state,
// auto-dismissal, and protection against stale responses.
package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// State is the tracker's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

// errDismissAfter is how long an error stays visible before auto-clearing.
const errDismissAfter = 6 * time.Second

// failedMessage is shown when the gateway degrades to an empty forecast.
const failedMessage = "Forecast generation failed. Please check your API key and try again."

// Generator produces a forecast for a dataset; satisfied by *ai.Service.
type Generator interface {
	GenerateForecast(ctx context.Context, ds *dataset.Dataset) ([]dataset.ForecastPoint, error)
}

// Tracker drives forecast requests for one dataset session. Concurrent
// Run calls race and the last response wins: each call bumps a generation
// counter and responses from an older generation are dropped, so a
// dataset switch mid-flight never surfaces a stale forecast.
type Tracker struct {
	mu  sync.Mutex
	gen Generator

	ds       *dataset.Dataset
	state    State
	forecast []dataset.ForecastPoint
	errMsg   string

	generation uint64
	errTimer   *time.Timer
	dismiss    time.Duration
}

// NewTracker returns an idle tracker bound to a generator.
func NewTracker(gen Generator) *Tracker {
	return &Tracker{gen: gen, dismiss: errDismissAfter}
}

// SetDataset switches the active dataset and resets to idle, clearing any
// forecast or error and invalidating in-flight requests.
func (t *Tracker) SetDataset(ds *dataset.Dataset) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ds = ds
	t.generation++
	t.state = StateIdle
	t.forecast = nil
	t.clearErrorLocked()
}

// Run requests a forecast for the active dataset and reports whether it
// succeeded. Shape errors from the generator surface as the error message;
// an empty degraded result maps to a generic failure message.
func (t *Tracker) Run(ctx context.Context) bool {
	t.mu.Lock()
	if t.ds == nil {
		t.mu.Unlock()
		return false
	}
	t.generation++
	myGen := t.generation
	ds := t.ds
	t.state = StateLoading
	t.clearErrorLocked()
	t.mu.Unlock()

	result, err := t.gen.GenerateForecast(ctx, ds)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generation != myGen {
		// A newer Run or dataset switch owns the state now.
		return false
	}
	if err != nil {
		t.setErrorLocked(err.Error())
		return false
	}
	if len(result) == 0 {
		t.setErrorLocked(failedMessage)
		return false
	}
	t.state = StateSuccess
	t.forecast = result
	return true
}

// ClearForecast drops a stored forecast, returning to idle.
func (t *Tracker) ClearForecast() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forecast = nil
	if t.state == StateSuccess {
		t.state = StateIdle
	}
}

// DismissError manually clears a visible error.
func (t *Tracker) DismissError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		t.state = StateIdle
	}
	t.clearErrorLocked()
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Forecast returns the stored forecast, if any.
func (t *Tracker) Forecast() []dataset.ForecastPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forecast
}

// Err returns the visible error message, empty when none.
func (t *Tracker) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errMsg
}

// SetDismissAfter overrides the error auto-dismiss delay (tests).
func (t *Tracker) SetDismissAfter(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d > 0 {
		t.dismiss = d
	}
}

// setErrorLocked stores an error and (re)arms the auto-dismiss timer.
func (t *Tracker) setErrorLocked(msg string) {
	t.state = StateError
	t.errMsg = msg
	if t.errTimer != nil {
		t.errTimer.Stop()
	}
	gen := t.generation
	t.errTimer = time.AfterFunc(t.dismiss, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.generation != gen || t.state != StateError {
			return
		}
		t.state = StateIdle
		t.errMsg = ""
	})
}

func (t *Tracker) clearErrorLocked() {
	t.errMsg = ""
	if t.errTimer != nil {
		t.errTimer.Stop()
		t.errTimer = nil
	}
}
