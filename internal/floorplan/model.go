// Package floorplan holds the editable location/floor/station graph. Every
// mutation works on a deep copy of the owning location and swaps it in only
// when it succeeds, so snapshots handed out earlier are never modified.
package floorplan

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vbonduro/installquote/internal/cable"
	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/travel"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

// Change describes one committed mutation. Restored is set when the whole
// model was replaced from a stored snapshot (undo, redo, load).
type Change struct {
	LocationID string
	Restored   bool
}

type Model struct {
	mu        sync.RWMutex
	locations []domain.Location
	selection *Selection
	pending   *PendingCable
	observers []func(Change)
	newID     func() string
	catalog   *catalog.Catalog
}

type Option func(*Model)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

// WithCatalog makes hardware additions reject ids missing from c.
func WithCatalog(c *catalog.Catalog) Option {
	return func(m *Model) { m.catalog = c }
}

func New(opts ...Option) *Model {
	m := &Model{newID: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to be called after every committed change. Observers
// run on the mutating goroutine, after the model lock is released.
func (m *Model) Subscribe(fn func(Change)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Model) notify(c Change) {
	m.mu.RLock()
	obs := append([]func(Change){}, m.observers...)
	m.mu.RUnlock()
	for _, fn := range obs {
		fn(c)
	}
}

// Snapshot returns a deep copy of every location.
func (m *Model) Snapshot() []domain.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.CloneLocations(m.locations)
}

// Location returns a deep copy of one location.
func (m *Model) Location(id string) (domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return domain.Location{}, fmt.Errorf("location %q: %w", id, ErrNotFound)
	}
	return m.locations[idx].Clone(), nil
}

// Restore replaces the whole model with a stored snapshot. Floor scales are
// clamped and cable runs re-derived, since a loaded snapshot may carry stale
// or hand-edited values. Observers see a Change with Restored set.
func (m *Model) Restore(locs []domain.Location) {
	m.mu.Lock()
	m.locations = domain.CloneLocations(locs)
	for li := range m.locations {
		for fi := range m.locations[li].Floors {
			f := &m.locations[li].Floors[fi]
			f.ScalePxPerFt = cable.ClampScale(f.ScalePxPerFt)
			cable.ResolveFloor(f)
		}
	}
	m.reconcile()
	m.mu.Unlock()
	m.notify(Change{Restored: true})
}

func (m *Model) indexOf(locID string) int {
	for i := range m.locations {
		if m.locations[i].ID == locID {
			return i
		}
	}
	return -1
}

// mutate applies fn to a copy of the location and commits it on success.
func (m *Model) mutate(locID string, fn func(loc *domain.Location) error) error {
	m.mu.Lock()
	idx := m.indexOf(locID)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("location %q: %w", locID, ErrNotFound)
	}
	next := m.locations[idx].Clone()
	if err := fn(&next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.locations[idx] = next
	m.reconcile()
	m.mu.Unlock()
	m.notify(Change{LocationID: locID})
	return nil
}

type LocationPatch struct {
	Name                    *string                `json:"name,omitempty"`
	Address                 *string                `json:"address,omitempty"`
	SubscriptionDiscountPct *float64               `json:"subscriptionDiscountPct,omitempty"`
	GoLive                  *domain.GoLiveSettings `json:"goLive,omitempty"`
	ClearGoLive             bool                   `json:"clearGoLive,omitempty"`
}

// AddLocation creates a location and classifies its address.
func (m *Model) AddLocation(name, address string) (domain.Location, error) {
	loc := domain.Location{
		ID:      m.newID(),
		Name:    name,
		Address: address,
		Travel:  travel.ApplyAddress(domain.TravelSettings{}, address),
	}
	m.mu.Lock()
	m.locations = append(m.locations, loc)
	m.mu.Unlock()
	m.notify(Change{LocationID: loc.ID})
	return loc.Clone(), nil
}

func (m *Model) UpdateLocation(id string, p LocationPatch) error {
	if p.SubscriptionDiscountPct != nil && (*p.SubscriptionDiscountPct < 0 || *p.SubscriptionDiscountPct > 100) {
		return fmt.Errorf("subscription discount %v: %w", *p.SubscriptionDiscountPct, ErrInvalid)
	}
	if p.GoLive != nil && p.GoLive.Days < 0 {
		return fmt.Errorf("go-live days %d: %w", p.GoLive.Days, ErrInvalid)
	}
	return m.mutate(id, func(loc *domain.Location) error {
		if p.Name != nil {
			loc.Name = *p.Name
		}
		if p.Address != nil {
			loc.Address = *p.Address
			loc.Travel = travel.ApplyAddress(loc.Travel, loc.Address)
		}
		if p.SubscriptionDiscountPct != nil {
			loc.SubscriptionDiscountPct = *p.SubscriptionDiscountPct
		}
		if p.GoLive != nil {
			g := *p.GoLive
			loc.GoLive = &g
		}
		if p.ClearGoLive {
			loc.GoLive = nil
		}
		return nil
	})
}

func (m *Model) SetServiceMode(id string, mode domain.ServiceMode) error {
	if !mode.Valid() {
		return fmt.Errorf("service mode %q: %w", mode, ErrInvalid)
	}
	return m.mutate(id, func(loc *domain.Location) error {
		loc.Travel = travel.SetServiceMode(loc.Travel, mode)
		return nil
	})
}

// SetTravelZone overrides the classified zone and re-derives the discussion flag.
func (m *Model) SetTravelZone(id string, zone domain.TravelZone) error {
	if !zone.Valid() {
		return fmt.Errorf("travel zone %q: %w", zone, ErrInvalid)
	}
	return m.mutate(id, func(loc *domain.Location) error {
		loc.Travel.Zone = zone
		if zone != domain.ZoneIsland {
			loc.Travel.Island = domain.IslandOptions{}
		}
		loc.Travel = travel.SetServiceMode(loc.Travel, loc.Travel.ServiceMode)
		return nil
	})
}

// SetIslandOptions sets the ferry and lodging flags; they only apply in the
// island zone.
func (m *Model) SetIslandOptions(id string, opts domain.IslandOptions) error {
	return m.mutate(id, func(loc *domain.Location) error {
		if loc.Travel.Zone != domain.ZoneIsland {
			return fmt.Errorf("island options outside island zone: %w", ErrInvalid)
		}
		loc.Travel.Island = opts
		return nil
	})
}

// SetIntegration enables or disables one integration on the location.
func (m *Model) SetIntegration(id, integrationID string, enabled bool) error {
	if m.catalog != nil {
		if _, ok := m.catalog.Integration(integrationID); !ok {
			return fmt.Errorf("integration %q: %w", integrationID, ErrInvalid)
		}
	}
	return m.mutate(id, func(loc *domain.Location) error {
		set := make(map[string]bool, len(loc.IntegrationIDs)+1)
		for _, v := range loc.IntegrationIDs {
			set[v] = true
		}
		if enabled {
			set[integrationID] = true
		} else {
			delete(set, integrationID)
		}
		ids := make([]string, 0, len(set))
		for v := range set {
			ids = append(ids, v)
		}
		sort.Strings(ids)
		loc.IntegrationIDs = ids
		return nil
	})
}

func (m *Model) RemoveLocation(id string) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("location %q: %w", id, ErrNotFound)
	}
	locs := make([]domain.Location, 0, len(m.locations)-1)
	locs = append(locs, m.locations[:idx]...)
	m.locations = append(locs, m.locations[idx+1:]...)
	m.reconcile()
	m.mu.Unlock()
	m.notify(Change{LocationID: id})
	return nil
}

func findFloor(loc *domain.Location, floorID string) (*domain.Floor, error) {
	for i := range loc.Floors {
		if loc.Floors[i].ID == floorID {
			return &loc.Floors[i], nil
		}
	}
	return nil, fmt.Errorf("floor %q: %w", floorID, ErrNotFound)
}

// removeAt deletes s[i] into a fresh slice.
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
