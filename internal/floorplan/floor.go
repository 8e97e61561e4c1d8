package floorplan

import (
	"fmt"

	"github.com/vbonduro/installquote/internal/cable"
	"github.com/vbonduro/installquote/internal/domain"
)

type FloorPatch struct {
	Name         *string  `json:"name,omitempty"`
	ScalePxPerFt *float64 `json:"scalePxPerFt,omitempty"`
}

type LayerPatch struct {
	Name    *string `json:"name,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

// AddFloor appends a floor with the default scale, a base layer and a
// network layer.
func (m *Model) AddFloor(locID, name string) (domain.Floor, error) {
	floor := domain.Floor{
		ID:           m.newID(),
		Name:         name,
		ScalePxPerFt: domain.DefaultScalePxPerFt,
		Layers: []domain.Layer{
			{ID: m.newID(), Name: "Base", Type: domain.LayerBase, Visible: true},
			{ID: m.newID(), Name: "Network", Type: domain.LayerNetwork, Visible: true},
		},
	}
	err := m.mutate(locID, func(loc *domain.Location) error {
		loc.Floors = append(loc.Floors, floor)
		return nil
	})
	return floor.Clone(), err
}

// UpdateFloor renames or rescales a floor. A new scale is clamped to the
// minimum and every cable run on the floor is recomputed.
func (m *Model) UpdateFloor(locID, floorID string, p FloorPatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		if p.Name != nil {
			f.Name = *p.Name
		}
		if p.ScalePxPerFt != nil {
			f.ScalePxPerFt = cable.ClampScale(*p.ScalePxPerFt)
			cable.ResolveFloor(f)
		}
		return nil
	})
}

// RemoveFloor deletes a floor with everything on it.
func (m *Model) RemoveFloor(locID, floorID string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		for i := range loc.Floors {
			if loc.Floors[i].ID == floorID {
				loc.Floors = removeAt(loc.Floors, i)
				return nil
			}
		}
		return fmt.Errorf("floor %q: %w", floorID, ErrNotFound)
	})
}

func (m *Model) AddLayer(locID, floorID, name string, typ domain.LayerType) (domain.Layer, error) {
	switch typ {
	case domain.LayerBase, domain.LayerNetwork, domain.LayerGeneric:
	case "":
		typ = domain.LayerGeneric
	default:
		return domain.Layer{}, fmt.Errorf("layer type %q: %w", typ, ErrInvalid)
	}
	layer := domain.Layer{ID: m.newID(), Name: name, Type: typ, Visible: true}
	err := m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		f.Layers = append(f.Layers, layer)
		return nil
	})
	return layer, err
}

func (m *Model) UpdateLayer(locID, floorID, id string, p LayerPatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		l, err := findLayer(loc, floorID, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			l.Name = *p.Name
		}
		if p.Visible != nil {
			l.Visible = *p.Visible
		}
		return nil
	})
}

// RemoveLayer deletes a layer and its cable runs.
func (m *Model) RemoveLayer(locID, floorID, id string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Layers, id, layerKey)
		if i < 0 {
			return fmt.Errorf("layer %q: %w", id, ErrNotFound)
		}
		f.Layers = removeAt(f.Layers, i)
		return nil
	})
}

func findLayer(loc *domain.Location, floorID, id string) (*domain.Layer, error) {
	f, err := findFloor(loc, floorID)
	if err != nil {
		return nil, err
	}
	i := indexByID(f.Layers, id, layerKey)
	if i < 0 {
		return nil, fmt.Errorf("layer %q: %w", id, ErrNotFound)
	}
	return &f.Layers[i], nil
}
