// Package estimate turns the current location into a priced breakdown by
// calling a cost authority on a trailing debounce.
package estimate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/installquote/internal/debounce"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

const (
	DefaultDelay   = 500 * time.Millisecond
	DefaultTimeout = 10 * time.Second
)

// InputFunc returns the current input, or false when there is nothing to price.
type InputFunc func() (Input, bool)

// State is what a display shows: the last accepted breakdown plus flags.
type State struct {
	Breakdown *domain.EstimateBreakdown `json:"breakdown"`
	Loading   bool                      `json:"loading"`
	Stale     bool                      `json:"stale"`
	Error     string                    `json:"error,omitempty"`
}

type Aggregator struct {
	authority CostAuthority
	input     InputFunc
	timeout   time.Duration
	refresh   *debounce.Debouncer
	logger    *slog.Logger

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	inflight int
	current  *domain.EstimateBreakdown
	stale    bool
	lastErr  string
	accepted []func(pricing.Request, domain.EstimateBreakdown)
}

func NewAggregator(authority CostAuthority, input InputFunc, delay, timeout time.Duration, logger *slog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &Aggregator{
		authority: authority,
		input:     input,
		timeout:   timeout,
		logger:    logger,
	}
	a.refresh = debounce.New(delay, func() {
		_ = a.Refresh(context.Background())
	})
	return a
}

// OnAccept registers fn to run after a breakdown is accepted.
func (a *Aggregator) OnAccept(fn func(pricing.Request, domain.EstimateBreakdown)) {
	a.mu.Lock()
	a.accepted = append(a.accepted, fn)
	a.mu.Unlock()
}

// Touch schedules a refresh, restarting the delay on every call.
func (a *Aggregator) Touch() {
	a.refresh.Trigger()
}

// Refresh prices the current input now. A response is applied only when no
// later-issued request has already been applied; on failure the previous
// breakdown is kept and marked stale.
func (a *Aggregator) Refresh(ctx context.Context) error {
	in, ok := a.input()
	if !ok {
		return nil
	}

	a.mu.Lock()
	a.issued++
	seq := a.issued
	a.inflight++
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	b, req, err := Compute(ctx, a.authority, in)

	a.mu.Lock()
	a.inflight--
	if err != nil {
		if seq > a.applied {
			a.stale = a.current != nil
			a.lastErr = err.Error()
		}
		a.mu.Unlock()
		a.logger.Warn("estimate refresh failed", "location", in.Location.ID, "seq", seq, "error", err)
		return err
	}
	if seq <= a.applied {
		a.mu.Unlock()
		a.logger.Debug("dropping superseded estimate", "seq", seq, "applied", a.applied)
		return nil
	}
	a.applied = seq
	a.current = &b
	a.stale = false
	a.lastErr = ""
	hooks := append([]func(pricing.Request, domain.EstimateBreakdown){}, a.accepted...)
	a.mu.Unlock()

	a.logger.Debug("estimate updated", "location", b.LocationID, "seq", seq, "total", b.Summary.TotalFirst)
	for _, fn := range hooks {
		fn(req, b.Clone())
	}
	return nil
}

// Reset forgets the current breakdown and ignores responses to requests
// issued before the call, e.g. when the active location changes.
func (a *Aggregator) Reset() {
	a.refresh.Cancel()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = a.issued
	a.current = nil
	a.stale = false
	a.lastErr = ""
}

func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := State{
		Loading: a.inflight > 0 || a.refresh.Pending(),
		Stale:   a.stale,
		Error:   a.lastErr,
	}
	if a.current != nil {
		b := a.current.Clone()
		st.Breakdown = &b
	}
	return st
}
