package estimate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

// gatedAuthority blocks each call until the test releases it.
type gatedAuthority struct {
	mu      sync.Mutex
	gates   []chan pricing.Response
	started chan int
}

func newGatedAuthority() *gatedAuthority {
	return &gatedAuthority{started: make(chan int, 16)}
}

func (g *gatedAuthority) Quote(ctx context.Context, req pricing.Request) (pricing.Response, error) {
	g.mu.Lock()
	gate := make(chan pricing.Response, 1)
	g.gates = append(g.gates, gate)
	n := len(g.gates)
	g.mu.Unlock()
	g.started <- n

	select {
	case resp := <-gate:
		return resp, nil
	case <-ctx.Done():
		return pricing.Response{}, ctx.Err()
	}
}

func (g *gatedAuthority) release(n int, total float64) {
	g.mu.Lock()
	gate := g.gates[n-1]
	g.mu.Unlock()
	gate <- pricing.Response{Success: true, Quote: &pricing.Quote{Summary: pricing.Summary{TotalFirst: total}}}
}

// failingAuthority succeeds until fail is set.
type failingAuthority struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *failingAuthority) Quote(ctx context.Context, req pricing.Request) (pricing.Response, error) {
	n := f.calls.Add(1)
	if f.fail.Load() {
		return pricing.Response{}, errors.New("connection refused")
	}
	return pricing.Response{Success: true, Quote: &pricing.Quote{Summary: pricing.Summary{TotalFirst: float64(n)}}}, nil
}

func fixedInput() InputFunc {
	return func() (Input, bool) {
		return Input{Location: domain.Location{ID: "loc-1"}}, true
	}
}

func TestRefreshAcceptsLatestCompletion(t *testing.T) {
	auth := newGatedAuthority()
	agg := NewAggregator(auth, fixedInput(), time.Hour, time.Minute, slog.Default())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = agg.Refresh(context.Background()) }()
	require.Equal(t, 1, <-auth.started)
	go func() { defer wg.Done(); _ = agg.Refresh(context.Background()) }()
	require.Equal(t, 2, <-auth.started)
	assert.True(t, agg.State().Loading)

	// The newer request completes first and wins; the late older one is dropped.
	auth.release(2, 200)
	assert.Eventually(t, func() bool {
		b := agg.State().Breakdown
		return b != nil && b.Summary.TotalFirst == 200
	}, time.Second, 5*time.Millisecond)
	auth.release(1, 100)
	wg.Wait()

	st := agg.State()
	require.NotNil(t, st.Breakdown)
	assert.Equal(t, 200.0, st.Breakdown.Summary.TotalFirst)
	assert.False(t, st.Loading)
}

func TestRefreshAcceptsOlderRequestCompletingFirst(t *testing.T) {
	auth := newGatedAuthority()
	agg := NewAggregator(auth, fixedInput(), time.Hour, time.Minute, slog.Default())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = agg.Refresh(context.Background()) }()
	<-auth.started
	go func() { defer wg.Done(); _ = agg.Refresh(context.Background()) }()
	<-auth.started

	auth.release(1, 100)
	assert.Eventually(t, func() bool {
		b := agg.State().Breakdown
		return b != nil && b.Summary.TotalFirst == 100
	}, time.Second, 5*time.Millisecond)
	auth.release(2, 200)
	wg.Wait()
	assert.Equal(t, 200.0, agg.State().Breakdown.Summary.TotalFirst)
}

func TestRefreshFailureKeepsPreviousBreakdown(t *testing.T) {
	auth := &failingAuthority{}
	agg := NewAggregator(auth, fixedInput(), time.Hour, time.Minute, slog.Default())

	require.NoError(t, agg.Refresh(context.Background()))
	first := agg.State()
	require.NotNil(t, first.Breakdown)
	assert.False(t, first.Stale)

	auth.fail.Store(true)
	err := agg.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrAuthority)

	st := agg.State()
	assert.True(t, st.Stale)
	assert.Contains(t, st.Error, "connection refused")
	assert.Equal(t, first.Breakdown, st.Breakdown)

	auth.fail.Store(false)
	require.NoError(t, agg.Refresh(context.Background()))
	st = agg.State()
	assert.False(t, st.Stale)
	assert.Empty(t, st.Error)
}

func TestRefreshFailureWithoutBreakdownIsNotStale(t *testing.T) {
	auth := &failingAuthority{}
	auth.fail.Store(true)
	agg := NewAggregator(auth, fixedInput(), time.Hour, time.Minute, slog.Default())

	assert.Error(t, agg.Refresh(context.Background()))
	st := agg.State()
	assert.Nil(t, st.Breakdown)
	assert.False(t, st.Stale)
	assert.NotEmpty(t, st.Error)
}

func TestTouchDebouncesRefresh(t *testing.T) {
	auth := &failingAuthority{}
	agg := NewAggregator(auth, fixedInput(), 20*time.Millisecond, time.Minute, slog.Default())

	for i := 0; i < 5; i++ {
		agg.Touch()
	}
	assert.True(t, agg.State().Loading)
	assert.Eventually(t, func() bool {
		return agg.State().Breakdown != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), auth.calls.Load())
}

func TestRefreshTimeout(t *testing.T) {
	auth := newGatedAuthority()
	agg := NewAggregator(auth, fixedInput(), time.Hour, 10*time.Millisecond, slog.Default())

	err := agg.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrAuthority)
	assert.ErrorContains(t, err, context.DeadlineExceeded.Error())
}

func TestRefreshWithoutInput(t *testing.T) {
	auth := &failingAuthority{}
	agg := NewAggregator(auth, func() (Input, bool) { return Input{}, false }, time.Hour, time.Minute, slog.Default())
	require.NoError(t, agg.Refresh(context.Background()))
	assert.Zero(t, auth.calls.Load())
}

func TestResetDropsInFlightResponses(t *testing.T) {
	auth := newGatedAuthority()
	agg := NewAggregator(auth, fixedInput(), time.Hour, time.Minute, slog.Default())

	done := make(chan struct{})
	go func() { _ = agg.Refresh(context.Background()); close(done) }()
	<-auth.started
	agg.Reset()
	auth.release(1, 100)
	<-done

	assert.Nil(t, agg.State().Breakdown)
}

func TestOnAcceptReceivesRequest(t *testing.T) {
	auth := &failingAuthority{}
	agg := NewAggregator(auth, func() (Input, bool) {
		return Input{Location: domain.Location{ID: "loc-9"}, Support: Support{Tier: 1, Period: domain.PeriodAnnual}}, true
	}, time.Hour, time.Minute, slog.Default())

	var got pricing.Request
	var gotID string
	agg.OnAccept(func(req pricing.Request, b domain.EstimateBreakdown) {
		got = req
		gotID = b.LocationID
	})
	require.NoError(t, agg.Refresh(context.Background()))
	assert.Equal(t, 1, got.SupportTier)
	assert.Equal(t, domain.PeriodAnnual, got.SupportPeriod)
	assert.Equal(t, "loc-9", gotID)
}
