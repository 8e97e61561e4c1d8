package importer

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/extract"
	"github.com/vbonduro/installquote/internal/floorplan"
)

func newTarget(t *testing.T, name, address string) (*floorplan.Model, string, string) {
	t.Helper()
	m := floorplan.New(floorplan.WithCatalog(catalog.Default()))
	loc, err := m.AddLocation(name, address)
	require.NoError(t, err)
	floor, err := m.AddFloor(loc.ID, "Main")
	require.NoError(t, err)
	return m, loc.ID, floor.ID
}

func orderSheet() *extract.Result {
	return &extract.Result{
		StationGroups: []extract.StationGroup{
			{Name: "Bar", Quantity: 2, Items: []extract.Item{
				{ProductName: "Toast Flex Terminal", Quantity: 1, MappedHardwareIDs: []string{"pos-terminal"}},
				{ProductName: "Epson Receipt Printer", Quantity: 1},
			}},
			{Name: "", Quantity: 1, Items: []extract.Item{
				{ProductName: "Mystery Widget", Quantity: 1},
			}},
		},
		UngroupedItems: []extract.Item{
			{ProductName: "Cash Drawer", Quantity: 2, MappedHardwareIDs: []string{"bogus"}},
		},
		ClientInfo: &extract.ClientInfo{Name: "Harbor Grill LLC", Address: "12 Main St, Hyannis, MA"},
		Software: []extract.Software{
			{Name: "Toast Online Ordering"},
			{ID: "xyz", Name: "Crypto Rewards"},
		},
	}
}

func TestApplyBuildsStations(t *testing.T) {
	m, locID, floorID := newTarget(t, "Harbor Grill", "")
	im := New(catalog.Default(), slog.Default())

	sum, err := im.Apply(m, locID, floorID, orderSheet())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.StationsAdded)
	assert.Equal(t, 6, sum.HardwareAdded)
	assert.Equal(t, []string{"online-ordering"}, sum.IntegrationsEnabled)
	assert.Equal(t, []string{"Mystery Widget", "Crypto Rewards"}, sum.Unmapped)

	loc, err := m.Location(locID)
	require.NoError(t, err)
	st := loc.Floors[0].Stations
	require.Len(t, st, 4)

	names := make([]string, len(st))
	for i, s := range st {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Bar 1", "Bar 2", "Station", UngroupedStationName}, names)

	for _, s := range st[:2] {
		require.Len(t, s.Hardware, 2)
		assert.Equal(t, "pos-terminal", s.Hardware[0].HardwareID)
		assert.Equal(t, "receipt-printer", s.Hardware[1].HardwareID)
	}
	assert.Empty(t, st[2].Hardware)
	require.Len(t, st[3].Hardware, 2)
	assert.Equal(t, "cash-drawer", st[3].Hardware[1].HardwareID)

	assert.Equal(t, 40.0, st[0].X)
	assert.Equal(t, 200.0, st[1].X)
	assert.Equal(t, 520.0, st[3].X)
	assert.Equal(t, 40.0, st[3].Y)

	assert.Equal(t, "Harbor Grill", loc.Name, "existing name is kept")
	assert.Equal(t, "12 Main St, Hyannis, MA", loc.Address)
	assert.Equal(t, domain.ZoneCape, loc.Travel.Zone)
	assert.Equal(t, []string{"online-ordering"}, loc.IntegrationIDs)
}

func TestApplyContinuesGridAfterExistingStations(t *testing.T) {
	m, locID, floorID := newTarget(t, "Harbor Grill", "Boston, MA")
	im := New(nil, slog.Default())

	_, err := im.Apply(m, locID, floorID, orderSheet())
	require.NoError(t, err)
	_, err = im.Apply(m, locID, floorID, &extract.Result{
		StationGroups: []extract.StationGroup{{Name: "Patio", Quantity: 1}},
	})
	require.NoError(t, err)

	loc, _ := m.Location(locID)
	st := loc.Floors[0].Stations
	require.Len(t, st, 5)
	assert.Equal(t, "Patio", st[4].Name)
	assert.Equal(t, 40.0, st[4].X)
	assert.Equal(t, 160.0, st[4].Y)
	assert.Equal(t, "Boston, MA", loc.Address)
}

func TestApplyUnknownFloor(t *testing.T) {
	m, locID, _ := newTarget(t, "Harbor Grill", "")
	im := New(nil, slog.Default())

	_, err := im.Apply(m, locID, "ghost", orderSheet())
	assert.ErrorIs(t, err, floorplan.ErrNotFound)

	_, err = im.Apply(m, "ghost", "ghost", orderSheet())
	assert.ErrorIs(t, err, floorplan.ErrNotFound)
}

func TestApplyZeroQuantityCountsAsOne(t *testing.T) {
	m, locID, floorID := newTarget(t, "", "")
	im := New(nil, slog.Default())

	sum, err := im.Apply(m, locID, floorID, &extract.Result{
		UngroupedItems: []extract.Item{{ProductName: "KDS", Quantity: 0}},
		ClientInfo:     &extract.ClientInfo{Name: "Dockside Tacos"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.StationsAdded)
	assert.Equal(t, 1, sum.HardwareAdded)

	loc, _ := m.Location(locID)
	assert.Equal(t, "Dockside Tacos", loc.Name)
	assert.Equal(t, "kds-screen", loc.Floors[0].Stations[0].Hardware[0].HardwareID)
}

// flakyTarget fails the nth AddHardware call.
type flakyTarget struct {
	*floorplan.Model
	failOn int
	calls  int
}

func (f *flakyTarget) AddHardware(locID, floorID, stationID string, assocs ...domain.HardwareAssociation) error {
	f.calls++
	if f.calls == f.failOn {
		return errors.New("disk full")
	}
	return f.Model.AddHardware(locID, floorID, stationID, assocs...)
}

func TestApplyFailureRestoresTarget(t *testing.T) {
	m, locID, floorID := newTarget(t, "Harbor Grill", "")
	before := m.Snapshot()
	im := New(nil, slog.Default())

	sum, err := im.Apply(&flakyTarget{Model: m, failOn: 2}, locID, floorID, orderSheet())
	require.Error(t, err)
	assert.Zero(t, sum)

	assert.Equal(t, before, m.Snapshot())
	loc, err := m.Location(locID)
	require.NoError(t, err)
	assert.Empty(t, loc.Address)
	assert.Empty(t, loc.Floors[0].Stations)
}
