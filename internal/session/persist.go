package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/export"
)

var ErrNoStore = errors.New("session has no store")

// Save writes every location and group definition. Stored locations that
// no longer exist in the session are deleted.
func (s *Session) Save(ctx context.Context) error {
	if s.locations == nil || s.groupStore == nil {
		return ErrNoStore
	}
	locs := s.model.Snapshot()
	if err := s.locations.SaveAll(ctx, locs); err != nil {
		return err
	}

	keep := make(map[string]bool, len(locs))
	for _, l := range locs {
		keep[l.ID] = true
	}
	stored, err := s.locations.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range stored {
		if keep[l.ID] {
			continue
		}
		if err := s.locations.Delete(ctx, l.ID); err != nil {
			return fmt.Errorf("failed to prune location %s: %w", l.ID, err)
		}
	}

	grps := s.groups.List()
	if err := s.groupStore.ReplaceAll(ctx, grps); err != nil {
		return err
	}
	s.logger.Info("session saved", "locations", len(locs), "groups", len(grps))
	return nil
}

// Load replaces the session contents with what is stored. History starts
// over from the loaded state.
func (s *Session) Load(ctx context.Context) error {
	if s.locations == nil || s.groupStore == nil {
		return ErrNoStore
	}
	locs, err := s.locations.List(ctx)
	if err != nil {
		return err
	}
	grps, err := s.groupStore.List(ctx)
	if err != nil {
		return err
	}
	s.restore(locs, grps, "")
	s.logger.Info("session loaded", "locations", len(locs), "groups", len(grps))
	return nil
}

// Snapshot captures the session for export.
func (s *Session) Snapshot() export.Snapshot {
	locs := s.model.Snapshot()
	if locs == nil {
		locs = []domain.Location{}
	}
	return export.Snapshot{
		Version:          export.SnapshotVersion,
		ExportedAt:       s.now().UTC(),
		ActiveLocationID: s.ActiveLocation(),
		Locations:        locs,
		Hardware:         s.catalog.HardwareItems(),
		Integrations:     s.catalog.Integrations(),
		Rates:            s.rates,
		Groups:           s.groups.List(),
		Support:          s.Support(),
		Estimate:         s.estimate.State().Breakdown,
	}
}

// LoadSnapshot replaces the session contents with an exported snapshot.
// Catalogs and rates in the snapshot are informational and not applied.
func (s *Session) LoadSnapshot(snap export.Snapshot) error {
	if err := s.SetSupport(snap.Support); err != nil {
		return err
	}
	s.restore(snap.Locations, snap.Groups, snap.ActiveLocationID)
	return nil
}

func (s *Session) restore(locs []domain.Location, grps []domain.HardwareGroup, active string) {
	s.groups.Load(grps)
	s.mu.Lock()
	s.active = ""
	s.mu.Unlock()
	s.estimate.Reset()
	s.model.Restore(locs)
	if active != "" {
		if err := s.SetActiveLocation(active); err != nil {
			s.logger.Warn("snapshot active location missing", "location", active)
		}
	}
	s.history.Reset()
}
