// Package docstore stores generated quote documents and uploaded import
// sources by opaque key.
package docstore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("document not found")

const (
	MimeJSON = "application/json"
	MimePDF  = "application/pdf"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeText = "text/plain"
)

type DocumentStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (key string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
