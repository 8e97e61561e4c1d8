package floorplan

import (
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
)

type SelectionKind string

const (
	SelectFloor    SelectionKind = "floor"
	SelectLayer    SelectionKind = "layer"
	SelectStation  SelectionKind = "station"
	SelectObject   SelectionKind = "object"
	SelectLabel    SelectionKind = "label"
	SelectCableRun SelectionKind = "cableRun"
)

// Selection identifies the entity currently selected in the editor. LayerID
// is only used for cable runs.
type Selection struct {
	Kind       SelectionKind `json:"kind"`
	LocationID string        `json:"locationId"`
	FloorID    string        `json:"floorId"`
	LayerID    string        `json:"layerId,omitempty"`
	ID         string        `json:"id"`
}

// PendingCable is the first click of the two-click cable interaction.
// StationID is set when the start point landed on a station.
type PendingCable struct {
	LocationID string       `json:"locationId"`
	FloorID    string       `json:"floorId"`
	LayerID    string       `json:"layerId"`
	StationID  string       `json:"stationId,omitempty"`
	Start      domain.Point `json:"start"`
}

// Select sets the selection after checking the entity exists.
func (m *Model) Select(sel Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists(sel) {
		return fmt.Errorf("%s %q: %w", sel.Kind, sel.ID, ErrNotFound)
	}
	s := sel
	m.selection = &s
	return nil
}

func (m *Model) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = nil
}

// Selection returns the current selection or nil.
func (m *Model) Selection() *Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.selection == nil {
		return nil
	}
	s := *m.selection
	return &s
}

// PendingCable returns the recorded first cable click or nil.
func (m *Model) PendingCable() *PendingCable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pending == nil {
		return nil
	}
	p := *m.pending
	return &p
}

func (m *Model) CancelCable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// reconcile drops selection and pending cable state that no longer points at
// a live entity. Callers hold m.mu.
func (m *Model) reconcile() {
	if m.selection != nil && !m.exists(*m.selection) {
		m.selection = nil
	}
	if p := m.pending; p != nil {
		ok := m.exists(Selection{Kind: SelectLayer, LocationID: p.LocationID, FloorID: p.FloorID, ID: p.LayerID})
		if ok && p.StationID != "" {
			ok = m.exists(Selection{Kind: SelectStation, LocationID: p.LocationID, FloorID: p.FloorID, ID: p.StationID})
		}
		if !ok {
			m.pending = nil
		}
	}
}

func (m *Model) exists(sel Selection) bool {
	idx := m.indexOf(sel.LocationID)
	if idx < 0 {
		return false
	}
	floor, err := findFloor(&m.locations[idx], sel.FloorID)
	if err != nil {
		return false
	}
	switch sel.Kind {
	case SelectFloor:
		return floor.ID == sel.ID
	case SelectLayer:
		return indexByID(floor.Layers, sel.ID, layerKey) >= 0
	case SelectStation:
		return indexByID(floor.Stations, sel.ID, stationKey) >= 0
	case SelectObject:
		return indexByID(floor.Objects, sel.ID, objectKey) >= 0
	case SelectLabel:
		return indexByID(floor.Labels, sel.ID, labelKey) >= 0
	case SelectCableRun:
		li := indexByID(floor.Layers, sel.LayerID, layerKey)
		return li >= 0 && indexByID(floor.Layers[li].CableRuns, sel.ID, cableRunKey) >= 0
	}
	return false
}

func indexByID[T any](s []T, id string, key func(*T) string) int {
	for i := range s {
		if key(&s[i]) == id {
			return i
		}
	}
	return -1
}

func layerKey(l *domain.Layer) string        { return l.ID }
func stationKey(s *domain.Station) string    { return s.ID }
func objectKey(o *domain.FloorObject) string { return o.ID }
func labelKey(l *domain.FloorLabel) string   { return l.ID }
func cableRunKey(c *domain.CableRun) string  { return c.ID }
