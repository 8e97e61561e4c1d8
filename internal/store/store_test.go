package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/db"
	"github.com/vbonduro/installquote/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func sampleLocation(id, name string) domain.Location {
	return domain.Location{
		ID:             id,
		Name:           name,
		Address:        "12 Water St, Nantucket",
		IntegrationIDs: []string{"loyalty", "payroll"},
		Travel:         domain.TravelSettings{Zone: domain.ZoneIsland, ServiceMode: domain.ModeHybrid},
		Floors: []domain.Floor{{
			ID:           "f1",
			Name:         "Main",
			ScalePxPerFt: 16,
			Stations: []domain.Station{{
				ID:   "s1",
				Name: "Bar",
				Hardware: []domain.HardwareAssociation{
					{HardwareID: "receipt-printer"},
					{HardwareID: "pos-terminal", Nickname: "Bar 1"},
					{HardwareID: "receipt-printer", Existing: true, Replace: true},
				},
			}},
			Layers: []domain.Layer{{ID: "l1", Type: domain.LayerNetwork, Visible: true, CableRuns: []domain.CableRun{
				{ID: "c1", End: domain.Point{X: 480}, LengthFt: 30, TTIMin: 32},
			}}},
		}},
		GoLive: &domain.GoLiveSettings{Enabled: true, Days: 1},
	}
}
