package web

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/vbonduro/installquote/internal/docstore"
	"github.com/vbonduro/installquote/internal/service"
)

const maxDocumentSize = 10 << 20

// allowedDocumentMIME reports whether data looks like a text document the
// extractor can read. Binary uploads such as PDFs or images are rejected;
// callers are expected to paste or export the text first.
func allowedDocumentMIME(data []byte) (string, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", false
	}
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "text/plain") {
		return docstore.MimeText, true
	}
	return "", false
}

// readDocument accepts either a multipart form with a "document" file or a
// raw request body.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var src io.Reader
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse form"})
			return nil, false
		}
		file, _, err := r.FormFile("document")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document file required"})
			return nil, false
		}
		defer closeWithLog(file, "upload file", s.logger)
		src = file
	} else {
		src = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read document"})
		return nil, false
	}
	return data, true
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	locID, floorID := r.PathValue("loc"), r.PathValue("floor")
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	mimeType, ok := allowedDocumentMIME(data)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported document format"})
		return
	}

	res, err := s.service.ImportDocument(r.Context(), locID, floorID, data, mimeType)
	if err != nil {
		s.writeError(w, "import document", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var exportExtensions = map[string]string{
	docstore.MimeJSON: "json",
	docstore.MimeXLSX: "xlsx",
	docstore.MimePDF:  "pdf",
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.Export(r.Context(), service.Format(r.PathValue("format")))
	if err != nil {
		s.writeError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", art.MimeType)
	name := art.Key
	if path.Ext(name) == "" {
		name += "." + exportExtensions[art.MimeType]
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Document-Key", art.Key)
	if _, err := w.Write(art.Data); err != nil {
		s.logger.Error("write export failed", "key", art.Key, "error", err)
	}
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := s.service.RestoreSnapshot(r.Context(), body); err != nil {
		s.writeError(w, "restore snapshot", err)
		return
	}
	s.handleSessionState(w, r)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	reader, mimeType, err := s.service.Document(r.Context(), key)
	if err != nil {
		s.writeError(w, "get document", err)
		return
	}
	defer closeWithLog(reader, "document reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write document failed", "key", key, "error", err)
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Save(r.Context()); err != nil {
		s.writeError(w, "save", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Load(r.Context()); err != nil {
		s.writeError(w, "load", err)
		return
	}
	s.handleSessionState(w, r)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
