package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
)

func networkLayer(t *testing.T, f domain.Floor) domain.Layer {
	t.Helper()
	for _, l := range f.Layers {
		if l.Type == domain.LayerNetwork {
			return l
		}
	}
	t.Fatal("floor has no network layer")
	return domain.Layer{}
}

func TestAddFloorDefaults(t *testing.T) {
	_, _, floor := newFixture(t)
	assert.Equal(t, domain.DefaultScalePxPerFt, floor.ScalePxPerFt)
	require.Len(t, floor.Layers, 2)
	assert.Equal(t, domain.LayerBase, floor.Layers[0].Type)
	assert.Equal(t, domain.LayerNetwork, floor.Layers[1].Type)
}

func TestUpdateFloorScaleClampsAndRecomputesRuns(t *testing.T) {
	m, loc, floor := newFixture(t)
	net := networkLayer(t, floor)
	run, err := m.AddCableRun(loc.ID, floor.ID, net.ID, domain.Point{}, domain.Point{X: 480})
	require.NoError(t, err)
	assert.Equal(t, 30.0, run.LengthFt)
	assert.Equal(t, 32, run.TTIMin)

	scale := 8.0
	require.NoError(t, m.UpdateFloor(loc.ID, floor.ID, FloorPatch{ScalePxPerFt: &scale}))
	got, _ := m.Location(loc.ID)
	r := got.Floors[0].Layers[1].CableRuns[0]
	assert.Equal(t, 60.0, r.LengthFt)
	assert.Equal(t, 44, r.TTIMin)

	tiny := 1.0
	require.NoError(t, m.UpdateFloor(loc.ID, floor.ID, FloorPatch{ScalePxPerFt: &tiny}))
	got, _ = m.Location(loc.ID)
	assert.Equal(t, domain.MinScalePxPerFt, got.Floors[0].ScalePxPerFt)
	assert.Equal(t, 120.0, got.Floors[0].Layers[1].CableRuns[0].LengthFt)
}

func TestRemoveFloorCascades(t *testing.T) {
	m, loc, floor := newFixture(t)
	st, err := m.AddStation(loc.ID, floor.ID, domain.Station{Name: "Bar"})
	require.NoError(t, err)
	_, err = m.AddObject(loc.ID, floor.ID, domain.FloorObject{Kind: "wall"})
	require.NoError(t, err)
	net := networkLayer(t, floor)
	_, err = m.CableClick(loc.ID, floor.ID, net.ID, domain.Point{X: 1, Y: 1})
	require.NoError(t, err)
	require.NoError(t, m.Select(Selection{Kind: SelectStation, LocationID: loc.ID, FloorID: floor.ID, ID: st.ID}))

	require.NoError(t, m.RemoveFloor(loc.ID, floor.ID))
	got, _ := m.Location(loc.ID)
	assert.Empty(t, got.Floors)
	assert.Nil(t, m.Selection())
	assert.Nil(t, m.PendingCable())
	assert.ErrorIs(t, m.RemoveFloor(loc.ID, floor.ID), ErrNotFound)
}

func TestLayerCRUD(t *testing.T) {
	m, loc, floor := newFixture(t)
	l, err := m.AddLayer(loc.ID, floor.ID, "Power", "")
	require.NoError(t, err)
	assert.Equal(t, domain.LayerGeneric, l.Type)

	_, err = m.AddLayer(loc.ID, floor.ID, "Bad", "plumbing")
	assert.ErrorIs(t, err, ErrInvalid)

	hidden := false
	name := "Electrical"
	require.NoError(t, m.UpdateLayer(loc.ID, floor.ID, l.ID, LayerPatch{Name: &name, Visible: &hidden}))
	got, _ := m.Location(loc.ID)
	assert.Equal(t, "Electrical", got.Floors[0].Layers[2].Name)
	assert.False(t, got.Floors[0].Layers[2].Visible)

	require.NoError(t, m.RemoveLayer(loc.ID, floor.ID, l.ID))
	got, _ = m.Location(loc.ID)
	assert.Len(t, got.Floors[0].Layers, 2)
}

func TestStationHardwareOrderAndDuplicates(t *testing.T) {
	m, loc, floor := newFixture(t, WithCatalog(catalog.Default()))
	st, err := m.AddStation(loc.ID, floor.ID, domain.Station{Name: "Front Counter"})
	require.NoError(t, err)
	assert.Equal(t, float64(defaultStationW), st.W)

	require.NoError(t, m.AddHardware(loc.ID, floor.ID, st.ID,
		domain.HardwareAssociation{HardwareID: "pos-terminal"},
		domain.HardwareAssociation{HardwareID: "receipt-printer"},
		domain.HardwareAssociation{HardwareID: "pos-terminal", Nickname: "spare"},
	))

	// Removing by index drops only the first of the duplicate terminals.
	require.NoError(t, m.RemoveHardware(loc.ID, floor.ID, st.ID, 0))
	got, _ := m.Location(loc.ID)
	hw := got.Floors[0].Stations[0].Hardware
	require.Len(t, hw, 2)
	assert.Equal(t, "receipt-printer", hw[0].HardwareID)
	assert.Equal(t, "spare", hw[1].Nickname)

	assert.ErrorIs(t, m.RemoveHardware(loc.ID, floor.ID, st.ID, 5), ErrNotFound)
	assert.ErrorIs(t, m.AddHardware(loc.ID, floor.ID, st.ID, domain.HardwareAssociation{HardwareID: "toaster"}), ErrInvalid)
}

func TestUpdateHardwareFlags(t *testing.T) {
	m, loc, floor := newFixture(t)
	st, err := m.AddStation(loc.ID, floor.ID, domain.Station{
		Name:     "Bar",
		Hardware: []domain.HardwareAssociation{{HardwareID: "pos-terminal"}},
	})
	require.NoError(t, err)

	yes := true
	notes := "mounted under counter"
	require.NoError(t, m.UpdateHardware(loc.ID, floor.ID, st.ID, 0, HardwarePatch{Existing: &yes, Notes: &notes}))
	got, _ := m.Location(loc.ID)
	h := got.Floors[0].Stations[0].Hardware[0]
	assert.True(t, h.Existing)
	assert.False(t, h.Replace)
	assert.Equal(t, notes, h.Notes)

	assert.ErrorIs(t, m.UpdateHardware(loc.ID, floor.ID, st.ID, -1, HardwarePatch{}), ErrNotFound)
}

func TestUpdateStationPatch(t *testing.T) {
	m, loc, floor := newFixture(t)
	st, err := m.AddStation(loc.ID, floor.ID, domain.Station{Name: "Bar", X: 10, Y: 10})
	require.NoError(t, err)

	x, zero := 200.0, 0.0
	flags := domain.StationFlags{Existing: true}
	require.NoError(t, m.UpdateStation(loc.ID, floor.ID, st.ID, StationPatch{X: &x, W: &zero, Flags: &flags}))

	got, _ := m.Location(loc.ID)
	s := got.Floors[0].Stations[0]
	assert.Equal(t, 200.0, s.X)
	assert.Equal(t, 10.0, s.Y)
	assert.Equal(t, float64(defaultStationW), s.W, "non-positive sizes are ignored")
	assert.True(t, s.Flags.Existing)
}

func TestObjectsAndLabels(t *testing.T) {
	m, loc, floor := newFixture(t)
	o, err := m.AddObject(loc.ID, floor.ID, domain.FloorObject{Kind: "table", W: 40, H: 40})
	require.NoError(t, err)
	lb, err := m.AddLabel(loc.ID, floor.ID, domain.FloorLabel{Text: "Patio", FontSize: 14})
	require.NoError(t, err)

	rot := 90.0
	require.NoError(t, m.UpdateObject(loc.ID, floor.ID, o.ID, ObjectPatch{Rotation: &rot}))
	text := "Back Patio"
	require.NoError(t, m.UpdateLabel(loc.ID, floor.ID, lb.ID, LabelPatch{Text: &text}))

	got, _ := m.Location(loc.ID)
	assert.Equal(t, 90.0, got.Floors[0].Objects[0].Rotation)
	assert.Equal(t, "Back Patio", got.Floors[0].Labels[0].Text)

	require.NoError(t, m.Select(Selection{Kind: SelectLabel, LocationID: loc.ID, FloorID: floor.ID, ID: lb.ID}))
	require.NoError(t, m.RemoveLabel(loc.ID, floor.ID, lb.ID))
	assert.Nil(t, m.Selection())
	require.NoError(t, m.RemoveObject(loc.ID, floor.ID, o.ID))

	got, _ = m.Location(loc.ID)
	assert.Empty(t, got.Floors[0].Objects)
	assert.Empty(t, got.Floors[0].Labels)
	assert.ErrorIs(t, m.RemoveObject(loc.ID, floor.ID, o.ID), ErrNotFound)
}
