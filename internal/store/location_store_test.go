package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/domain"
)

func TestLocationStoreRoundTrip(t *testing.T) {
	s := NewLocationStore(openTestDB(t))
	ctx := context.Background()

	loc := sampleLocation("loc-1", "Harbor Grill")
	require.NoError(t, s.Save(ctx, loc))

	got, err := s.GetByID(ctx, "loc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, loc, *got)
}

func TestLocationStoreSaveUpserts(t *testing.T) {
	s := NewLocationStore(openTestDB(t))
	ctx := context.Background()

	loc := sampleLocation("loc-1", "Harbor Grill")
	require.NoError(t, s.Save(ctx, loc))
	loc.Name = "Harbor Grill & Bar"
	loc.Floors[0].Stations[0].Hardware = loc.Floors[0].Stations[0].Hardware[:1]
	require.NoError(t, s.Save(ctx, loc))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Harbor Grill & Bar", all[0].Name)
	assert.Len(t, all[0].Floors[0].Stations[0].Hardware, 1)
}

func TestLocationStoreListOrdersByName(t *testing.T) {
	s := NewLocationStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.SaveAll(ctx, []domain.Location{
		sampleLocation("b", "Wharf Tavern"),
		sampleLocation("a", "Anchor Cafe"),
	}))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anchor Cafe", all[0].Name)
	assert.Equal(t, "Wharf Tavern", all[1].Name)
}

func TestLocationStoreGetMissing(t *testing.T) {
	s := NewLocationStore(openTestDB(t))
	got, err := s.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLocationStoreDelete(t *testing.T) {
	d := openTestDB(t)
	s := NewLocationStore(d)
	quotes := NewQuoteStore(d)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleLocation("loc-1", "Harbor Grill")))
	_, err := quotes.Record(ctx, sampleRequest(), domain.EstimateBreakdown{LocationID: "loc-1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "loc-1"))
	got, err := s.GetByID(ctx, "loc-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	recs, err := quotes.ListByLocation(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, s.Delete(ctx, "loc-1"), ErrNotFound)
}
