// Package importer applies an extraction result to a floor through the same
// mutation operations a user's manual edits go through.
package importer

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/extract"
	"github.com/vbonduro/installquote/internal/floorplan"
)

// UngroupedStationName names the station that collects items not tied to a
// station group.
const UngroupedStationName = "Imported Hardware"

const (
	gridColumns = 4
	gridMargin  = 40.0
	gridGap     = 40.0
	stationW    = 120.0
	stationH    = 80.0
)

// Target is the part of the floor-plan model an import drives.
type Target interface {
	Snapshot() []domain.Location
	Restore(locs []domain.Location)
	Location(id string) (domain.Location, error)
	UpdateLocation(id string, p floorplan.LocationPatch) error
	AddStation(locID, floorID string, s domain.Station) (domain.Station, error)
	AddHardware(locID, floorID, stationID string, assocs ...domain.HardwareAssociation) error
	SetIntegration(id, integrationID string, enabled bool) error
}

// Summary reports what an import changed.
type Summary struct {
	StationsAdded       int      `json:"stationsAdded"`
	HardwareAdded       int      `json:"hardwareAdded"`
	IntegrationsEnabled []string `json:"integrationsEnabled"`
	Unmapped            []string `json:"unmapped"`
}

type Importer struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func New(c *catalog.Catalog, logger *slog.Logger) *Importer {
	if c == nil {
		c = catalog.Default()
	}
	return &Importer{catalog: c, logger: logger}
}

// Apply materializes res on the given floor. Each station group becomes
// quantity stations laid out on a grid after any existing stations. The
// import is all or nothing: when a step fails the target is restored to its
// state before the call.
func (im *Importer) Apply(t Target, locID, floorID string, res *extract.Result) (Summary, error) {
	before := t.Snapshot()
	sum, err := im.apply(t, locID, floorID, res)
	if err != nil {
		if !reflect.DeepEqual(before, t.Snapshot()) {
			t.Restore(before)
			im.logger.Warn("import rolled back", "location", locID, "error", err)
		}
		return Summary{}, err
	}
	im.logger.Info("import applied",
		"location", locID,
		"stations", sum.StationsAdded,
		"hardware", sum.HardwareAdded,
		"integrations", len(sum.IntegrationsEnabled),
		"unmapped", len(sum.Unmapped))
	return sum, nil
}

func (im *Importer) apply(t Target, locID, floorID string, res *extract.Result) (Summary, error) {
	var sum Summary
	loc, err := t.Location(locID)
	if err != nil {
		return sum, err
	}
	placed := -1
	for _, f := range loc.Floors {
		if f.ID == floorID {
			placed = len(f.Stations)
		}
	}
	if placed < 0 {
		return sum, fmt.Errorf("floor %q: %w", floorID, floorplan.ErrNotFound)
	}

	if err := im.applyClientInfo(t, loc, res.ClientInfo); err != nil {
		return sum, err
	}

	for _, g := range res.StationGroups {
		assocs := im.associations(g.Items, &sum)
		name := g.Name
		if name == "" {
			name = "Station"
		}
		qty := max(g.Quantity, 1)
		for n := 1; n <= qty; n++ {
			stName := name
			if qty > 1 {
				stName = fmt.Sprintf("%s %d", name, n)
			}
			if err := im.addStation(t, locID, floorID, stName, placed, assocs, &sum); err != nil {
				return sum, err
			}
			placed++
		}
	}

	if assocs := im.associations(res.UngroupedItems, &sum); len(assocs) > 0 {
		if err := im.addStation(t, locID, floorID, UngroupedStationName, placed, assocs, &sum); err != nil {
			return sum, err
		}
	}

	for _, sw := range res.Software {
		id, ok := im.catalog.MatchIntegration(sw.ID)
		if !ok {
			id, ok = im.catalog.MatchIntegration(sw.Name)
		}
		if !ok {
			sum.Unmapped = append(sum.Unmapped, sw.Name)
			continue
		}
		if err := t.SetIntegration(locID, id, true); err != nil {
			return sum, fmt.Errorf("enable integration %s: %w", id, err)
		}
		sum.IntegrationsEnabled = append(sum.IntegrationsEnabled, id)
	}
	return sum, nil
}

// applyClientInfo fills an empty location name or address.
func (im *Importer) applyClientInfo(t Target, loc domain.Location, ci *extract.ClientInfo) error {
	if ci == nil {
		return nil
	}
	var p floorplan.LocationPatch
	if strings.TrimSpace(loc.Name) == "" && ci.Name != "" {
		p.Name = &ci.Name
	}
	if strings.TrimSpace(loc.Address) == "" && ci.Address != "" {
		p.Address = &ci.Address
	}
	if p.Name == nil && p.Address == nil {
		return nil
	}
	if err := t.UpdateLocation(loc.ID, p); err != nil {
		return fmt.Errorf("apply client info: %w", err)
	}
	return nil
}

func (im *Importer) addStation(t Target, locID, floorID, name string, slot int, assocs []domain.HardwareAssociation, sum *Summary) error {
	col, row := slot%gridColumns, slot/gridColumns
	st, err := t.AddStation(locID, floorID, domain.Station{
		Name: name,
		Type: "pos",
		X:    gridMargin + float64(col)*(stationW+gridGap),
		Y:    gridMargin + float64(row)*(stationH+gridGap),
		W:    stationW,
		H:    stationH,
	})
	if err != nil {
		return fmt.Errorf("add station %s: %w", name, err)
	}
	sum.StationsAdded++
	if len(assocs) == 0 {
		return nil
	}
	if err := t.AddHardware(locID, floorID, st.ID, assocs...); err != nil {
		return fmt.Errorf("add hardware to %s: %w", name, err)
	}
	sum.HardwareAdded += len(assocs)
	return nil
}

// associations expands items into one association per unit. Items without
// usable mapped ids fall back to keyword matching on the product name.
func (im *Importer) associations(items []extract.Item, sum *Summary) []domain.HardwareAssociation {
	var out []domain.HardwareAssociation
	for _, it := range items {
		ids := im.mappedIDs(it)
		if len(ids) == 0 {
			sum.Unmapped = append(sum.Unmapped, it.ProductName)
			continue
		}
		for n := 0; n < max(it.Quantity, 1); n++ {
			for _, id := range ids {
				out = append(out, domain.HardwareAssociation{HardwareID: id, Notes: it.ProductName})
			}
		}
	}
	return out
}

func (im *Importer) mappedIDs(it extract.Item) []string {
	var ids []string
	for _, id := range it.MappedHardwareIDs {
		if _, ok := im.catalog.Hardware(id); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	if id, ok := im.catalog.MatchHardware(it.ProductName); ok {
		return []string{id}
	}
	return nil
}
