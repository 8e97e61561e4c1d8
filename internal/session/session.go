// Package session owns one editing session: the floor-plan model, hardware
// groups, undo history and the live estimate, plus optional persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/floorplan"
	"github.com/vbonduro/installquote/internal/groups"
	"github.com/vbonduro/installquote/internal/history"
	"github.com/vbonduro/installquote/internal/importer"
	"github.com/vbonduro/installquote/internal/pricing"
)

var (
	ErrNoLocation = errors.New("no active location")
	ErrNoEstimate = errors.New("no estimate available")
	ErrInvalid    = errors.New("invalid session setting")
)

const recordTimeout = 5 * time.Second

// locationRepository is the subset of store.LocationStore the session needs.
type locationRepository interface {
	SaveAll(ctx context.Context, locs []domain.Location) error
	List(ctx context.Context) ([]domain.Location, error)
	Delete(ctx context.Context, id string) error
}

// groupRepository is the subset of store.GroupStore the session needs.
type groupRepository interface {
	ReplaceAll(ctx context.Context, groups []domain.HardwareGroup) error
	List(ctx context.Context) ([]domain.HardwareGroup, error)
}

// quoteRecorder is the subset of store.QuoteStore the session needs.
type quoteRecorder interface {
	Record(ctx context.Context, req pricing.Request, b domain.EstimateBreakdown) (int64, error)
}

// Config tunes a session. Zero values fall back to package defaults.
type Config struct {
	Catalog         *catalog.Catalog
	Rates           *pricing.Rates
	Authority       estimate.CostAuthority
	HistoryDepth    int
	HistoryDelay    time.Duration
	EstimateDelay   time.Duration
	EstimateTimeout time.Duration
}

type Option func(*Session)

// WithStores enables Save, Load and quote recording.
func WithStores(locs locationRepository, grps groupRepository, quotes quoteRecorder) Option {
	return func(s *Session) {
		s.locations = locs
		s.groupStore = grps
		s.quotes = quotes
	}
}

// WithClock replaces time.Now for snapshot and document timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type Session struct {
	model    *floorplan.Model
	groups   *groups.Manager
	history  *history.Manager
	estimate *estimate.Aggregator
	importer *importer.Importer
	catalog  *catalog.Catalog
	rates    pricing.Rates

	locations  locationRepository
	groupStore groupRepository
	quotes     quoteRecorder
	now        func() time.Time
	logger     *slog.Logger

	mu      sync.RWMutex
	active  string
	support estimate.Support
}

func New(cfg Config, logger *slog.Logger, opts ...Option) *Session {
	c := cfg.Catalog
	if c == nil {
		c = catalog.Default()
	}
	rates := pricing.DefaultRates()
	if cfg.Rates != nil {
		rates = *cfg.Rates
	}
	authority := cfg.Authority
	if authority == nil {
		authority = estimate.NewEngineAuthority(pricing.NewEngine(rates, c))
	}
	historyDelay := cfg.HistoryDelay
	if historyDelay <= 0 {
		historyDelay = history.DefaultDelay
	}
	estimateDelay := cfg.EstimateDelay
	if estimateDelay <= 0 {
		estimateDelay = estimate.DefaultDelay
	}

	s := &Session{
		model:    floorplan.New(floorplan.WithCatalog(c)),
		groups:   groups.NewManager(c),
		importer: importer.New(c, logger),
		catalog:  c,
		rates:    rates,
		now:      time.Now,
		logger:   logger,
		support:  estimate.Support{Period: domain.PeriodMonthly},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = history.New(s.model, cfg.HistoryDepth, historyDelay, logger)
	s.estimate = estimate.NewAggregator(authority, s.input, estimateDelay, cfg.EstimateTimeout, logger)
	s.estimate.OnAccept(s.recordQuote)
	s.model.Subscribe(s.onChange)
	return s
}

func (s *Session) Model() *floorplan.Model   { return s.model }
func (s *Session) Groups() *groups.Manager   { return s.groups }
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
func (s *Session) Rates() pricing.Rates      { return s.rates }

// onChange feeds both debouncers. Restored changes come from undo, redo or
// load and must not create history entries of their own.
func (s *Session) onChange(c floorplan.Change) {
	if !c.Restored {
		s.history.Touch()
	}
	active, switched := s.resolveActive(c.LocationID)
	if switched {
		s.estimate.Reset()
	}
	if active != "" && (c.Restored || switched || c.LocationID == active) {
		s.estimate.Touch()
	}
}

// resolveActive keeps the active location pointing at an existing location,
// adopting hint or the first location when needed.
func (s *Session) resolveActive(hint string) (string, bool) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if active != "" {
		if _, err := s.model.Location(active); err == nil {
			return active, false
		}
	}

	next := ""
	if hint != "" {
		if _, err := s.model.Location(hint); err == nil {
			next = hint
		}
	}
	if next == "" {
		if locs := s.model.Snapshot(); len(locs) > 0 {
			next = locs[0].ID
		}
	}
	s.mu.Lock()
	s.active = next
	s.mu.Unlock()
	return next, next != active
}

func (s *Session) input() (estimate.Input, bool) {
	s.mu.RLock()
	active, support := s.active, s.support
	s.mu.RUnlock()
	if active == "" {
		return estimate.Input{}, false
	}
	loc, err := s.model.Location(active)
	if err != nil {
		return estimate.Input{}, false
	}
	return estimate.Input{Location: loc, Support: support}, true
}

func (s *Session) recordQuote(req pricing.Request, b domain.EstimateBreakdown) {
	if s.quotes == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if _, err := s.quotes.Record(ctx, req, b); err != nil {
		s.logger.Error("failed to record quote", "location", b.LocationID, "error", err)
	}
}

func (s *Session) ActiveLocation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActiveLocation switches the priced location. The previous estimate is
// dropped and a refresh is scheduled.
func (s *Session) SetActiveLocation(id string) error {
	if _, err := s.model.Location(id); err != nil {
		return err
	}
	s.mu.Lock()
	changed := s.active != id
	s.active = id
	s.mu.Unlock()
	if changed {
		s.estimate.Reset()
	}
	s.estimate.Touch()
	return nil
}

func (s *Session) Support() estimate.Support {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.support
}

// SetSupport selects a support tier by index into the rate table.
func (s *Session) SetSupport(sup estimate.Support) error {
	if sup.Tier < 0 || sup.Tier >= len(s.rates.SupportTiers) {
		return fmt.Errorf("support tier %d: %w", sup.Tier, ErrInvalid)
	}
	switch sup.Period {
	case "":
		sup.Period = domain.PeriodMonthly
	case domain.PeriodMonthly, domain.PeriodAnnual:
	default:
		return fmt.Errorf("support period %q: %w", sup.Period, ErrInvalid)
	}
	s.mu.Lock()
	s.support = sup
	s.mu.Unlock()
	s.estimate.Touch()
	return nil
}

// SupportName returns the display name of the selected tier.
func (s *Session) SupportName() string {
	sup := s.Support()
	if sup.Tier < 0 || sup.Tier >= len(s.rates.SupportTiers) {
		return ""
	}
	return s.rates.SupportTiers[sup.Tier].Name
}

func (s *Session) Estimate() estimate.State {
	return s.estimate.State()
}

// RefreshEstimate prices the active location now instead of waiting for the
// debounce.
func (s *Session) RefreshEstimate(ctx context.Context) error {
	return s.estimate.Refresh(ctx)
}

// StampGroup copies a hardware group onto a station.
func (s *Session) StampGroup(locID, floorID, stationID, groupID string) (int, error) {
	return s.groups.Stamp(s.model, locID, floorID, stationID, groupID)
}
