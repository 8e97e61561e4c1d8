package floorplan

import (
	"fmt"

	"github.com/vbonduro/installquote/internal/cable"
	"github.com/vbonduro/installquote/internal/domain"
)

// AddCableRun plots a run on a network layer with derived length and time.
func (m *Model) AddCableRun(locID, floorID, layerID string, start, end domain.Point) (domain.CableRun, error) {
	run := domain.CableRun{ID: m.newID(), Start: start, End: end}
	err := m.mutate(locID, func(loc *domain.Location) error {
		f, l, err := findNetworkLayer(loc, floorID, layerID)
		if err != nil {
			return err
		}
		run = cable.ResolveRun(run, f.ScalePxPerFt)
		l.CableRuns = append(l.CableRuns, run)
		return nil
	})
	return run, err
}

// MoveCableRun changes a run's endpoints and recomputes it.
func (m *Model) MoveCableRun(locID, floorID, layerID, id string, start, end domain.Point) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, l, err := findNetworkLayer(loc, floorID, layerID)
		if err != nil {
			return err
		}
		i := indexByID(l.CableRuns, id, cableRunKey)
		if i < 0 {
			return fmt.Errorf("cable run %q: %w", id, ErrNotFound)
		}
		run := l.CableRuns[i]
		run.Start, run.End = start, end
		l.CableRuns[i] = cable.ResolveRun(run, f.ScalePxPerFt)
		return nil
	})
}

func (m *Model) RemoveCableRun(locID, floorID, layerID, id string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		l, err := findLayer(loc, floorID, layerID)
		if err != nil {
			return err
		}
		i := indexByID(l.CableRuns, id, cableRunKey)
		if i < 0 {
			return fmt.Errorf("cable run %q: %w", id, ErrNotFound)
		}
		l.CableRuns = removeAt(l.CableRuns, i)
		return nil
	})
}

// CableClick drives the two-click cable interaction. The first click on a
// layer records a pending start and returns nil. A second click on the same
// layer resolves and returns the run. A click on another layer restarts the
// interaction there.
func (m *Model) CableClick(locID, floorID, layerID string, p domain.Point) (*domain.CableRun, error) {
	m.mu.Lock()
	pending := m.pending
	sameLayer := pending != nil && pending.LocationID == locID && pending.FloorID == floorID && pending.LayerID == layerID
	if !sameLayer {
		idx := m.indexOf(locID)
		if idx < 0 {
			m.mu.Unlock()
			return nil, fmt.Errorf("location %q: %w", locID, ErrNotFound)
		}
		f, _, err := findNetworkLayer(&m.locations[idx], floorID, layerID)
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		m.pending = &PendingCable{
			LocationID: locID,
			FloorID:    floorID,
			LayerID:    layerID,
			StationID:  stationAt(f, p),
			Start:      p,
		}
		m.mu.Unlock()
		return nil, nil
	}
	start := pending.Start
	m.pending = nil
	m.mu.Unlock()

	run, err := m.AddCableRun(locID, floorID, layerID, start, p)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func findNetworkLayer(loc *domain.Location, floorID, layerID string) (*domain.Floor, *domain.Layer, error) {
	f, err := findFloor(loc, floorID)
	if err != nil {
		return nil, nil, err
	}
	i := indexByID(f.Layers, layerID, layerKey)
	if i < 0 {
		return nil, nil, fmt.Errorf("layer %q: %w", layerID, ErrNotFound)
	}
	l := &f.Layers[i]
	if l.Type != domain.LayerNetwork {
		return nil, nil, fmt.Errorf("cable runs need a network layer, %q is %s: %w", layerID, l.Type, ErrInvalid)
	}
	return f, l, nil
}
