package floorplan

import (
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
)

type ObjectPatch struct {
	Kind     *string  `json:"kind,omitempty"`
	Color    *string  `json:"color,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	W        *float64 `json:"w,omitempty"`
	H        *float64 `json:"h,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
}

type LabelPatch struct {
	Text     *string  `json:"text,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	W        *float64 `json:"w,omitempty"`
	H        *float64 `json:"h,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
}

func (m *Model) AddObject(locID, floorID string, o domain.FloorObject) (domain.FloorObject, error) {
	o.ID = m.newID()
	err := m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		f.Objects = append(f.Objects, o)
		return nil
	})
	return o, err
}

func (m *Model) UpdateObject(locID, floorID, id string, p ObjectPatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Objects, id, objectKey)
		if i < 0 {
			return fmt.Errorf("object %q: %w", id, ErrNotFound)
		}
		o := &f.Objects[i]
		setIf(&o.Kind, p.Kind)
		setIf(&o.Color, p.Color)
		setIf(&o.X, p.X)
		setIf(&o.Y, p.Y)
		setIf(&o.W, p.W)
		setIf(&o.H, p.H)
		setIf(&o.Rotation, p.Rotation)
		return nil
	})
}

func (m *Model) RemoveObject(locID, floorID, id string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Objects, id, objectKey)
		if i < 0 {
			return fmt.Errorf("object %q: %w", id, ErrNotFound)
		}
		f.Objects = removeAt(f.Objects, i)
		return nil
	})
}

func (m *Model) AddLabel(locID, floorID string, l domain.FloorLabel) (domain.FloorLabel, error) {
	l.ID = m.newID()
	err := m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		f.Labels = append(f.Labels, l)
		return nil
	})
	return l, err
}

func (m *Model) UpdateLabel(locID, floorID, id string, p LabelPatch) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Labels, id, labelKey)
		if i < 0 {
			return fmt.Errorf("label %q: %w", id, ErrNotFound)
		}
		l := &f.Labels[i]
		setIf(&l.Text, p.Text)
		setIf(&l.X, p.X)
		setIf(&l.Y, p.Y)
		setIf(&l.W, p.W)
		setIf(&l.H, p.H)
		setIf(&l.FontSize, p.FontSize)
		setIf(&l.Rotation, p.Rotation)
		return nil
	})
}

func (m *Model) RemoveLabel(locID, floorID, id string) error {
	return m.mutate(locID, func(loc *domain.Location) error {
		f, err := findFloor(loc, floorID)
		if err != nil {
			return err
		}
		i := indexByID(f.Labels, id, labelKey)
		if i < 0 {
			return fmt.Errorf("label %q: %w", id, ErrNotFound)
		}
		f.Labels = removeAt(f.Labels, i)
		return nil
	})
}
