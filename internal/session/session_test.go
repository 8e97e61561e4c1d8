package session

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/db"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/extract"
	"github.com/vbonduro/installquote/internal/floorplan"
	"github.com/vbonduro/installquote/internal/store"
)

// Long delays keep the debouncers from firing on their own; tests drive
// commits and refreshes explicitly.
func newSession(opts ...Option) *Session {
	return New(Config{HistoryDelay: time.Hour, EstimateDelay: time.Hour}, slog.Default(), opts...)
}

func openTestDB(t *testing.T) *sql.DB {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func withTestStores(d *sql.DB) Option {
	return WithStores(store.NewLocationStore(d), store.NewGroupStore(d), store.NewQuoteStore(d))
}

// bar adds a location with one floor and a bar station holding a terminal.
func bar(t *testing.T, s *Session) (domain.Location, domain.Floor) {
	t.Helper()
	m := s.Model()
	loc, err := m.AddLocation("Harbor Grill", "1 Long Wharf, Boston, MA")
	require.NoError(t, err)
	floor, err := m.AddFloor(loc.ID, "Main")
	require.NoError(t, err)
	_, err = m.AddStation(loc.ID, floor.ID, domain.Station{
		Name:     "Bar",
		Hardware: []domain.HardwareAssociation{{HardwareID: "pos-terminal"}},
	})
	require.NoError(t, err)
	return loc, floor
}

func TestActiveLocationFollowsModel(t *testing.T) {
	s := newSession()
	assert.Empty(t, s.ActiveLocation())

	first, err := s.Model().AddLocation("Harbor Grill", "Boston, MA")
	require.NoError(t, err)
	assert.Equal(t, first.ID, s.ActiveLocation())

	second, err := s.Model().AddLocation("Dockside Tacos", "Hyannis, MA")
	require.NoError(t, err)
	assert.Equal(t, first.ID, s.ActiveLocation())

	require.NoError(t, s.SetActiveLocation(second.ID))
	assert.Equal(t, second.ID, s.ActiveLocation())
	assert.ErrorIs(t, s.SetActiveLocation("ghost"), floorplan.ErrNotFound)

	require.NoError(t, s.Model().RemoveLocation(second.ID))
	assert.Equal(t, first.ID, s.ActiveLocation())

	require.NoError(t, s.Model().RemoveLocation(first.ID))
	assert.Empty(t, s.ActiveLocation())
}

func TestUndoRedo(t *testing.T) {
	s := newSession()
	m := s.Model()
	loc, err := m.AddLocation("Harbor Grill", "Boston, MA")
	require.NoError(t, err)
	floor, err := m.AddFloor(loc.ID, "Main")
	require.NoError(t, err)
	s.Checkpoint()

	_, err = m.AddStation(loc.ID, floor.ID, domain.Station{Name: "Bar"})
	require.NoError(t, err)
	s.Checkpoint()
	assert.Equal(t, HistoryState{Cursor: 2, Entries: 3, CanUndo: true}, s.HistoryState())

	require.True(t, s.Undo())
	got, err := m.Location(loc.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Floors[0].Stations)
	assert.False(t, s.history.Pending(), "restoring must not schedule a commit")
	assert.True(t, s.Estimate().Loading, "restoring still refreshes the estimate")

	require.True(t, s.Redo())
	got, _ = m.Location(loc.ID)
	assert.Len(t, got.Floors[0].Stations, 1)
	assert.False(t, s.Redo())

	assert.True(t, s.Undo())
	assert.True(t, s.Undo())
	assert.False(t, s.Undo())
	assert.Empty(t, m.Snapshot())
}

func TestRefreshEstimate(t *testing.T) {
	s := newSession()
	loc, _ := bar(t, s)

	require.NoError(t, s.RefreshEstimate(context.Background()))
	st := s.Estimate()
	require.NotNil(t, st.Breakdown)
	assert.Equal(t, loc.ID, st.Breakdown.LocationID)
	assert.Equal(t, 1199.0, st.Breakdown.Summary.HardwareCost)
	assert.Equal(t, 300.0, st.Breakdown.Summary.TravelCost)
	assert.False(t, st.Stale)
}

func TestSetSupport(t *testing.T) {
	s := newSession()
	assert.ErrorIs(t, s.SetSupport(estimate.Support{Tier: 9}), ErrInvalid)
	assert.ErrorIs(t, s.SetSupport(estimate.Support{Tier: -1}), ErrInvalid)
	assert.ErrorIs(t, s.SetSupport(estimate.Support{Tier: 1, Period: "weekly"}), ErrInvalid)

	require.NoError(t, s.SetSupport(estimate.Support{Tier: 2}))
	assert.Equal(t, estimate.Support{Tier: 2, Period: domain.PeriodMonthly}, s.Support())
	assert.Equal(t, "Priority", s.SupportName())
}

func TestSaveAndLoad(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	s := newSession(withTestStores(d))
	loc, _ := bar(t, s)
	_, err := s.Groups().Create("Bar Kit", "", []string{"pos-terminal", "cash-drawer"})
	require.NoError(t, err)
	extra, err := s.Model().AddLocation("Closed Site", "")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.Model().RemoveLocation(extra.ID))
	require.NoError(t, s.Save(ctx))

	loaded := newSession(withTestStores(d))
	require.NoError(t, loaded.Load(ctx))
	assert.Equal(t, s.Model().Snapshot(), loaded.Model().Snapshot())
	assert.Equal(t, s.Groups().List(), loaded.Groups().List())
	assert.Equal(t, loc.ID, loaded.ActiveLocation())
	assert.Equal(t, HistoryState{Cursor: 0, Entries: 1}, loaded.HistoryState())
}

func TestSaveWithoutStore(t *testing.T) {
	s := newSession()
	assert.ErrorIs(t, s.Save(context.Background()), ErrNoStore)
	assert.ErrorIs(t, s.Load(context.Background()), ErrNoStore)
}

func TestAcceptedEstimateIsRecorded(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	s := newSession(withTestStores(d))
	loc, _ := bar(t, s)

	require.NoError(t, s.RefreshEstimate(ctx))
	require.NoError(t, s.RefreshEstimate(ctx))

	quotes := store.NewQuoteStore(d)
	recs, err := quotes.ListByLocation(ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1, "identical requests are recorded once")
	assert.Equal(t, s.Estimate().Breakdown.Summary.TotalFirst, recs[0].TotalFirst)
}

func TestSnapshotRoundTrip(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newSession(WithClock(func() time.Time { return at }))
	loc, _ := bar(t, s)
	require.NoError(t, s.SetSupport(estimate.Support{Tier: 1, Period: domain.PeriodAnnual}))
	require.NoError(t, s.RefreshEstimate(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, at, snap.ExportedAt)
	assert.Equal(t, loc.ID, snap.ActiveLocationID)
	assert.NotEmpty(t, snap.Hardware)
	assert.NotEmpty(t, snap.Integrations)
	require.NotNil(t, snap.Estimate)
	assert.Equal(t, domain.PeriodAnnual, snap.Estimate.Summary.SupportPeriod)

	other := newSession()
	require.NoError(t, other.LoadSnapshot(snap))
	assert.Equal(t, s.Model().Snapshot(), other.Model().Snapshot())
	assert.Equal(t, loc.ID, other.ActiveLocation())
	assert.Equal(t, snap.Support, other.Support())
	assert.False(t, other.HistoryState().CanUndo)
}

func TestApplyImportAndQuoteDocument(t *testing.T) {
	s := newSession()
	_, err := s.QuoteDocument(context.Background())
	assert.ErrorIs(t, err, ErrNoLocation)

	loc, err := s.Model().AddLocation("Harbor Grill", "Boston, MA")
	require.NoError(t, err)
	floor, err := s.Model().AddFloor(loc.ID, "Main")
	require.NoError(t, err)

	sum, err := s.ApplyImport(loc.ID, floor.ID, &extract.Result{
		StationGroups: []extract.StationGroup{{Name: "Host Stand", Quantity: 1, Items: []extract.Item{
			{ProductName: "Self-Order Kiosk", Quantity: 1},
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.StationsAdded)

	doc, err := s.QuoteDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Harbor Grill", doc.Title)
	assert.Equal(t, loc.ID, doc.Breakdown.LocationID)
	assert.Equal(t, 2499.0, doc.Breakdown.Summary.HardwareCost)
	assert.Equal(t, "None", doc.Support)
}

func TestLoadSnapshotNormalizesFloors(t *testing.T) {
	s := newSession()
	loc, _ := bar(t, s)
	snap := s.Snapshot()
	f := &snap.Locations[0].Floors[0]
	f.ScalePxPerFt = 1
	f.Layers[1].CableRuns = append(f.Layers[1].CableRuns, domain.CableRun{
		ID:       "stale",
		End:      domain.Point{X: 480},
		LengthFt: 999,
		TTIMin:   7,
	})

	other := newSession()
	require.NoError(t, other.LoadSnapshot(snap))
	got, err := other.Model().Location(loc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MinScalePxPerFt, got.Floors[0].ScalePxPerFt)
	runs := got.Floors[0].Layers[1].CableRuns
	require.Len(t, runs, 1)
	assert.Equal(t, 120.0, runs[0].LengthFt)
	assert.Equal(t, 68, runs[0].TTIMin)
}
