// Package export renders the editing session for offline sharing: a JSON
// snapshot that can be read back, and quote documents as spreadsheet or PDF.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/pricing"
)

// SnapshotVersion is bumped whenever the snapshot layout changes incompatibly.
const SnapshotVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot mirrors the in-memory session.
type Snapshot struct {
	Version          int                       `json:"version"`
	ExportedAt       time.Time                 `json:"exportedAt"`
	ActiveLocationID string                    `json:"activeLocationId,omitempty"`
	Locations        []domain.Location         `json:"locations"`
	Hardware         []domain.HardwareItem     `json:"hardwareCatalog"`
	Integrations     []domain.IntegrationItem  `json:"integrationCatalog"`
	Rates            pricing.Rates             `json:"rates"`
	Groups           []domain.HardwareGroup    `json:"hardwareGroups"`
	Support          estimate.Support          `json:"support"`
	Estimate         *domain.EstimateBreakdown `json:"estimate,omitempty"`
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, s Snapshot) error {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by WriteJSON. Nil collections come back
// as empty slices.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Locations == nil {
		s.Locations = []domain.Location{}
	}
	if s.Groups == nil {
		s.Groups = []domain.HardwareGroup{}
	}
	return s, nil
}
