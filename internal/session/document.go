package session

import (
	"context"

	"github.com/vbonduro/installquote/internal/export"
	"github.com/vbonduro/installquote/internal/extract"
	"github.com/vbonduro/installquote/internal/importer"
)

// ApplyImport materializes an extraction result on a floor through the
// regular model operations, so the import is one undoable edit burst. A
// failed import leaves the model as it was.
func (s *Session) ApplyImport(locID, floorID string, res *extract.Result) (importer.Summary, error) {
	return s.importer.Apply(s.model, locID, floorID, res)
}

// QuoteDocument builds the printable quote for the active location. A
// missing, stale or pending estimate is refreshed first.
func (s *Session) QuoteDocument(ctx context.Context) (export.QuoteDocument, error) {
	id := s.ActiveLocation()
	if id == "" {
		return export.QuoteDocument{}, ErrNoLocation
	}
	loc, err := s.model.Location(id)
	if err != nil {
		return export.QuoteDocument{}, err
	}

	st := s.estimate.State()
	if st.Breakdown == nil || st.Loading || st.Stale {
		if err := s.estimate.Refresh(ctx); err != nil && st.Breakdown == nil {
			return export.QuoteDocument{}, err
		}
		st = s.estimate.State()
	}
	if st.Breakdown == nil || st.Breakdown.LocationID != id {
		return export.QuoteDocument{}, ErrNoEstimate
	}
	return export.NewQuoteDocument(loc, *st.Breakdown, s.SupportName(), s.now()), nil
}
