// Package groups manages reusable hardware bundles. Stamping a group onto a
// station copies its ids into new associations; later edits to the group do
// not reach hardware that was already stamped.
package groups

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
)

var (
	ErrNotFound = errors.New("hardware group not found")
	ErrInvalid  = errors.New("invalid hardware group")
)

const defaultColor = "#6b7280"

// StationHardware is the floor-plan operation used for stamping.
type StationHardware interface {
	AddHardware(locID, floorID, stationID string, assocs ...domain.HardwareAssociation) error
}

type Manager struct {
	mu      sync.RWMutex
	groups  []domain.HardwareGroup
	newID   func() string
	catalog *catalog.Catalog
}

// NewManager returns an empty manager. A non-nil catalog makes group
// definitions reject unknown hardware ids.
func NewManager(c *catalog.Catalog) *Manager {
	return &Manager{newID: uuid.NewString, catalog: c}
}

func (m *Manager) List() []domain.HardwareGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.HardwareGroup, len(m.groups))
	for i, g := range m.groups {
		out[i] = g.Clone()
	}
	return out
}

func (m *Manager) Get(id string) (domain.HardwareGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return domain.HardwareGroup{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return m.groups[i].Clone(), nil
}

// Load replaces all group definitions, e.g. from storage.
func (m *Manager) Load(groups []domain.HardwareGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make([]domain.HardwareGroup, len(groups))
	for i, g := range groups {
		m.groups[i] = g.Clone()
	}
}

func (m *Manager) Create(name, color string, hardwareIDs []string) (domain.HardwareGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.HardwareGroup{}, fmt.Errorf("empty name: %w", ErrInvalid)
	}
	if err := m.checkIDs(hardwareIDs...); err != nil {
		return domain.HardwareGroup{}, err
	}
	if color == "" {
		color = defaultColor
	}
	g := domain.HardwareGroup{
		ID:          m.newID(),
		Name:        name,
		Color:       color,
		HardwareIDs: append([]string{}, hardwareIDs...),
	}
	m.mu.Lock()
	m.groups = append(m.groups, g)
	m.mu.Unlock()
	return g.Clone(), nil
}

func (m *Manager) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalid)
	}
	return m.update(id, func(g *domain.HardwareGroup) error {
		g.Name = name
		return nil
	})
}

func (m *Manager) SetColor(id, color string) error {
	return m.update(id, func(g *domain.HardwareGroup) error {
		g.Color = color
		return nil
	})
}

// SetCollapsed toggles the cosmetic collapsed flag.
func (m *Manager) SetCollapsed(id string, collapsed bool) error {
	return m.update(id, func(g *domain.HardwareGroup) error {
		g.Collapsed = collapsed
		return nil
	})
}

// Delete removes a group definition. Associations already stamped from it
// keep their group id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	m.groups = append(m.groups[:i:i], m.groups[i+1:]...)
	return nil
}

// AddItem appends a hardware id to the definition; only later stamps see it.
func (m *Manager) AddItem(id, hardwareID string) error {
	if err := m.checkIDs(hardwareID); err != nil {
		return err
	}
	return m.update(id, func(g *domain.HardwareGroup) error {
		g.HardwareIDs = append(g.HardwareIDs, hardwareID)
		return nil
	})
}

// RemoveItem drops the id at index from the definition.
func (m *Manager) RemoveItem(id string, index int) error {
	return m.update(id, func(g *domain.HardwareGroup) error {
		if index < 0 || index >= len(g.HardwareIDs) {
			return fmt.Errorf("item index %d: %w", index, ErrInvalid)
		}
		g.HardwareIDs = append(g.HardwareIDs[:index:index], g.HardwareIDs[index+1:]...)
		return nil
	})
}

// Stamp materializes one association per id of the group onto a station,
// each tagged with the group id, and returns how many were added.
func (m *Manager) Stamp(target StationHardware, locID, floorID, stationID, groupID string) (int, error) {
	g, err := m.Get(groupID)
	if err != nil {
		return 0, err
	}
	assocs := make([]domain.HardwareAssociation, len(g.HardwareIDs))
	for i, hid := range g.HardwareIDs {
		assocs[i] = domain.HardwareAssociation{HardwareID: hid, GroupID: g.ID}
	}
	if err := target.AddHardware(locID, floorID, stationID, assocs...); err != nil {
		return 0, fmt.Errorf("stamp group %q: %w", g.Name, err)
	}
	return len(assocs), nil
}

func (m *Manager) update(id string, fn func(g *domain.HardwareGroup) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	next := m.groups[i].Clone()
	if err := fn(&next); err != nil {
		return err
	}
	m.groups[i] = next
	return nil
}

func (m *Manager) indexOf(id string) int {
	for i := range m.groups {
		if m.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) checkIDs(ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("empty hardware id: %w", ErrInvalid)
		}
		if m.catalog == nil {
			continue
		}
		if _, ok := m.catalog.Hardware(id); !ok {
			return fmt.Errorf("hardware %q: %w", id, ErrInvalid)
		}
	}
	return nil
}
