package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vbonduro/installquote/internal/docstore"
	"github.com/vbonduro/installquote/internal/export"
	"github.com/vbonduro/installquote/internal/extract"
	"github.com/vbonduro/installquote/internal/importer"
)

var (
	ErrNoExtractor = errors.New("document extraction is not configured")
	ErrFormat      = errors.New("unsupported export format")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// editor is the subset of session.Session that QuoteService requires.
type editor interface {
	ActiveLocation() string
	ApplyImport(locID, floorID string, res *extract.Result) (importer.Summary, error)
	QuoteDocument(ctx context.Context) (export.QuoteDocument, error)
	Snapshot() export.Snapshot
	LoadSnapshot(snap export.Snapshot) error
}

// QuoteService moves documents in and out of an editing session: extraction
// imports on the way in, rendered quotes and snapshots on the way out.
type QuoteService struct {
	editor    editor
	extractor extract.Extractor
	docs      docstore.DocumentStore
	logger    *slog.Logger
}

// NewQuoteService wires the service. extractor may be nil when no model
// backend is configured.
func NewQuoteService(ed editor, extractor extract.Extractor, docs docstore.DocumentStore, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		editor:    ed,
		extractor: extractor,
		docs:      docs,
		logger:    logger,
	}
}

type ImportResult struct {
	SourceKey  string           `json:"sourceKey"`
	Summary    importer.Summary `json:"summary"`
	Extraction *extract.Result  `json:"extraction"`
}

// Artifact is a rendered document and where it was stored.
type Artifact struct {
	Key      string `json:"key"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// ImportDocument extracts stations and hardware from a quote or order
// document, keeps the source, and applies the result to a floor.
func (s *QuoteService) ImportDocument(ctx context.Context, locID, floorID string, data []byte, mimeType string) (*ImportResult, error) {
	if s.extractor == nil {
		return nil, ErrNoExtractor
	}
	s.logger.Info("document import started", "location", locID, "floor", floorID, "mime_type", mimeType, "bytes", len(data))

	res, err := s.extractor.Extract(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	s.logger.Info("extraction complete", "location", locID,
		"station_groups", len(res.StationGroups), "ungrouped_items", len(res.UngroupedItems))

	key, err := s.docs.Save(ctx, "import_"+locID, mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save import source: %w", err)
	}

	sum, err := s.editor.ApplyImport(locID, floorID, res)
	if err != nil {
		if delErr := s.docs.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to roll back import source", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to apply import: %w", err)
	}

	s.logger.Info("document import complete", "location", locID, "stations", sum.StationsAdded, "unmapped", len(sum.Unmapped))
	return &ImportResult{SourceKey: key, Summary: sum, Extraction: res}, nil
}

// Export renders the active quote (xlsx, pdf) or the whole session (json)
// and stores the result.
func (s *QuoteService) Export(ctx context.Context, format Format) (*Artifact, error) {
	var (
		data []byte
		mime string
	)
	prefix := "quote_" + s.editor.ActiveLocation()

	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, s.editor.Snapshot()); err != nil {
			return nil, err
		}
		data, mime, prefix = buf.Bytes(), docstore.MimeJSON, "snapshot"
	case FormatXLSX, FormatPDF:
		doc, err := s.editor.QuoteDocument(ctx)
		if err != nil {
			return nil, err
		}
		if format == FormatXLSX {
			data, err = export.Spreadsheet(doc)
			mime = docstore.MimeXLSX
		} else {
			data, err = export.PDF(doc)
			mime = docstore.MimePDF
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}

	key, err := s.docs.Save(ctx, prefix, mime, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save export: %w", err)
	}
	s.logger.Info("export stored", "format", format, "key", key, "bytes", len(data))
	return &Artifact{Key: key, MimeType: mime, Data: data}, nil
}

// RestoreSnapshot replaces the session with a previously exported snapshot.
func (s *QuoteService) RestoreSnapshot(ctx context.Context, r io.Reader) error {
	snap, err := export.ReadJSON(r)
	if err != nil {
		return err
	}
	if err := s.editor.LoadSnapshot(snap); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	s.logger.Info("snapshot restored", "locations", len(snap.Locations), "exported_at", snap.ExportedAt)
	return nil
}

// Document opens a stored document by key.
func (s *QuoteService) Document(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.docs.Get(ctx, key)
}

func (s *QuoteService) DeleteDocument(ctx context.Context, key string) error {
	return s.docs.Delete(ctx, key)
}
