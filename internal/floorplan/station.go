package floorplan

import (
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
)

const (
	defaultStationW = 120
	defaultStationH = 80
)

type StationPatch struct {
	Name       *string              `json:"name,omitempty"`
	Type       *string              `json:"type,omitempty"`
	Color      *string              `json:"color,omitempty"`
	Department *string              `json:"department,omitempty"`
	X          *float64             `json:"x,omitempty"`
	Y          *float64             `json:"y,omitempty"`
	W          *float64             `json:"w,omitempty"`
	H          *float64             `json:"h,omitempty"`
	Flags      *domain.StationFlags `json:"flags,omitempty"`
}

type HardwarePatch struct {
	Nickname *string `json:"nickname,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Existing *bool   `json:"existing,omitempty"`
	Replace  *bool   `json:"replace,omitempty"`
}

// AddStation places s on a floor under a fresh id. Zero sizes get defaults.
func (m *Model) AddStation(locID, floorID string, s domain.Station) (domain.Station, error) {
	if err := m.checkHardware(s.Hardware); err != nil {
		return domain.Station{}, err
	}
	s = s.Clone()
	s.ID = m.newID()
	if s.W <= 0 {
		s.W = defaultStationW
	}
	if s.H <= 0 {
		s.H = defaultStationH
	}
	err := m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		f.Stations = append(f.Stations, s)
		return nil
	})
	return s.Clone(), err
}

func (m *Model) UpdateStation(locID, floorID, id string, p StationPatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		s, err := findStation(loc, floorID, id)
		if err != nil {
			return err
		}
		setIf(&s.Name, p.Name)
		setIf(&s.Type, p.Type)
		setIf(&s.Color, p.Color)
		setIf(&s.Department, p.Department)
		setIf(&s.X, p.X)
		setIf(&s.Y, p.Y)
		if p.W != nil && *p.W > 0 {
			s.W = *p.W
		}
		if p.H != nil && *p.H > 0 {
			s.H = *p.H
		}
		setIf(&s.Flags, p.Flags)
		return nil
	})
}

// RemoveStation deletes a station; a selection or pending cable start on it
// is cleared.
func (m *Model) RemoveStation(locID, floorID, id string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Stations, id, stationKey)
		if i < 0 {
			return fmt.Errorf("station %q: %w", id, ErrNotFound)
		}
		f.Stations = removeAt(f.Stations, i)
		return nil
	})
}

// AddHardware appends associations to a station in the given order.
func (m *Model) AddHardware(locID, floorID, stationID string, assocs ...domain.HardwareAssociation) error {
	if len(assocs) == 0 {
		return nil
	}
	if err := m.checkHardware(assocs); err != nil {
		return err
	}
	return m.mutate(locID, func(loc *domain.Location) error {
		s, err := findStation(loc, floorID, stationID)
		if err != nil {
			return err
		}
		s.Hardware = append(s.Hardware, assocs...)
		return nil
	})
}

// UpdateHardware patches the association at index. Indexes are used rather
// than ids because one station may hold the same hardware id several times.
func (m *Model) UpdateHardware(locID, floorID, stationID string, index int, p HardwarePatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		s, err := findStation(loc, floorID, stationID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(s.Hardware) {
			return fmt.Errorf("hardware index %d: %w", index, ErrNotFound)
		}
		h := &s.Hardware[index]
		setIf(&h.Nickname, p.Nickname)
		setIf(&h.Notes, p.Notes)
		setIf(&h.Existing, p.Existing)
		setIf(&h.Replace, p.Replace)
		return nil
	})
}

func (m *Model) RemoveHardware(locID, floorID, stationID string, index int) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		s, err := findStation(loc, floorID, stationID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(s.Hardware) {
			return fmt.Errorf("hardware index %d: %w", index, ErrNotFound)
		}
		s.Hardware = removeAt(s.Hardware, index)
		return nil
	})
}

func (m *Model) checkHardware(assocs []domain.HardwareAssociation) error {
	for _, a := range assocs {
		if a.HardwareID == "" {
			return fmt.Errorf("empty hardware id: %w", ErrInvalid)
		}
		if m.catalog == nil {
			continue
		}
		if _, ok := m.catalog.Hardware(a.HardwareID); !ok {
			return fmt.Errorf("hardware %q: %w", a.HardwareID, ErrInvalid)
		}
	}
	return nil
}

func findStation(loc *domain.Location, floorID, id string) (*domain.Station, error) {
	f, err := findFloor(loc, floorID)
	if err != nil {
		return nil, err
	}
	i := indexByID(f.Stations, id, stationKey)
	if i < 0 {
		return nil, fmt.Errorf("station %q: %w", id, ErrNotFound)
	}
	return &f.Stations[i], nil
}

// stationAt returns the id of the topmost station containing p, or "".
func stationAt(f *domain.Floor, p domain.Point) string {
	for i := len(f.Stations) - 1; i >= 0; i-- {
		s := &f.Stations[i]
		if p.X >= s.X && p.X <= s.X+s.W && p.Y >= s.Y && p.Y <= s.Y+s.H {
			return s.ID
		}
	}
	return ""
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
