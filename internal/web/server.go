// Package web exposes the editing session as a JSON API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/installquote/internal/docstore"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/export"
	"github.com/vbonduro/installquote/internal/floorplan"
	"github.com/vbonduro/installquote/internal/groups"
	"github.com/vbonduro/installquote/internal/pricing"
	"github.com/vbonduro/installquote/internal/service"
	"github.com/vbonduro/installquote/internal/session"
)

const maxJSONBody = 8 << 20

type Server struct {
	session   *session.Session
	service   *service.QuoteService
	authority estimate.CostAuthority
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer builds the API. authority answers POST /api/quote and is
// normally the in-process engine.
func NewServer(sess *session.Session, svc *service.QuoteService, authority estimate.CostAuthority, logger *slog.Logger) *Server {
	s := &Server{
		session:   sess,
		service:   svc,
		authority: authority,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	const (
		loc     = "/api/locations/{loc}"
		floor   = loc + "/floors/{floor}"
		layer   = floor + "/layers/{layer}"
		station = floor + "/stations/{station}"
	)

	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/rates", s.handleRates)
	s.mux.HandleFunc("GET /api/session", s.handleSessionState)
	s.mux.HandleFunc("PUT /api/active", s.handleSetActive)
	s.mux.HandleFunc("PUT /api/support", s.handleSetSupport)
	s.mux.HandleFunc("PUT /api/selection", s.handleSelect)
	s.mux.HandleFunc("DELETE /api/selection", s.handleClearSelection)
	s.mux.HandleFunc("DELETE /api/cable-pending", s.handleCancelCable)

	s.mux.HandleFunc("GET /api/locations", s.handleListLocations)
	s.mux.HandleFunc("POST /api/locations", s.handleCreateLocation)
	s.mux.HandleFunc("GET "+loc, s.handleGetLocation)
	s.mux.HandleFunc("PATCH "+loc, s.handleUpdateLocation)
	s.mux.HandleFunc("DELETE "+loc, s.handleDeleteLocation)
	s.mux.HandleFunc("PUT "+loc+"/service-mode", s.handleSetServiceMode)
	s.mux.HandleFunc("PUT "+loc+"/travel-zone", s.handleSetTravelZone)
	s.mux.HandleFunc("PUT "+loc+"/island", s.handleSetIslandOptions)
	s.mux.HandleFunc("PUT "+loc+"/integrations/{integration}", s.handleSetIntegration)

	s.mux.HandleFunc("POST "+loc+"/floors", s.handleCreateFloor)
	s.mux.HandleFunc("PATCH "+floor, s.handleUpdateFloor)
	s.mux.HandleFunc("DELETE "+floor, s.handleDeleteFloor)
	s.mux.HandleFunc("POST "+floor+"/import", s.handleImport)

	s.mux.HandleFunc("POST "+floor+"/layers", s.handleCreateLayer)
	s.mux.HandleFunc("PATCH "+layer, s.handleUpdateLayer)
	s.mux.HandleFunc("DELETE "+layer, s.handleDeleteLayer)
	s.mux.HandleFunc("POST "+layer+"/cable-clicks", s.handleCableClick)
	s.mux.HandleFunc("POST "+layer+"/cable-runs", s.handleCreateCableRun)
	s.mux.HandleFunc("PUT "+layer+"/cable-runs/{run}", s.handleMoveCableRun)
	s.mux.HandleFunc("DELETE "+layer+"/cable-runs/{run}", s.handleDeleteCableRun)

	s.mux.HandleFunc("POST "+floor+"/stations", s.handleCreateStation)
	s.mux.HandleFunc("PATCH "+station, s.handleUpdateStation)
	s.mux.HandleFunc("DELETE "+station, s.handleDeleteStation)
	s.mux.HandleFunc("POST "+station+"/hardware", s.handleAddHardware)
	s.mux.HandleFunc("PATCH "+station+"/hardware/{index}", s.handleUpdateHardware)
	s.mux.HandleFunc("DELETE "+station+"/hardware/{index}", s.handleDeleteHardware)
	s.mux.HandleFunc("POST "+station+"/stamp/{group}", s.handleStampGroup)

	s.mux.HandleFunc("POST "+floor+"/objects", s.handleCreateObject)
	s.mux.HandleFunc("PATCH "+floor+"/objects/{id}", s.handleUpdateObject)
	s.mux.HandleFunc("DELETE "+floor+"/objects/{id}", s.handleDeleteObject)
	s.mux.HandleFunc("POST "+floor+"/labels", s.handleCreateLabel)
	s.mux.HandleFunc("PATCH "+floor+"/labels/{id}", s.handleUpdateLabel)
	s.mux.HandleFunc("DELETE "+floor+"/labels/{id}", s.handleDeleteLabel)

	s.mux.HandleFunc("GET /api/groups", s.handleListGroups)
	s.mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	s.mux.HandleFunc("PATCH /api/groups/{group}", s.handleUpdateGroup)
	s.mux.HandleFunc("DELETE /api/groups/{group}", s.handleDeleteGroup)
	s.mux.HandleFunc("POST /api/groups/{group}/items", s.handleAddGroupItem)
	s.mux.HandleFunc("DELETE /api/groups/{group}/items/{index}", s.handleDeleteGroupItem)

	s.mux.HandleFunc("POST /api/undo", s.handleUndo)
	s.mux.HandleFunc("POST /api/redo", s.handleRedo)
	s.mux.HandleFunc("GET /api/estimate", s.handleEstimate)
	s.mux.HandleFunc("POST /api/estimate/refresh", s.handleRefreshEstimate)
	s.mux.HandleFunc("POST /api/quote", s.handleQuote)

	s.mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	s.mux.HandleFunc("POST /api/snapshot", s.handleRestoreSnapshot)
	s.mux.HandleFunc("GET /api/documents/{key}", s.handleGetDocument)
	s.mux.HandleFunc("POST /api/save", s.handleSave)
	s.mux.HandleFunc("POST /api/load", s.handleLoad)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readJSON decodes the request body into v, answering 400 on failure.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
		msg = op + " failed"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, floorplan.ErrNotFound),
		errors.Is(err, groups.ErrNotFound),
		errors.Is(err, docstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, floorplan.ErrInvalid),
		errors.Is(err, groups.ErrInvalid),
		errors.Is(err, session.ErrInvalid),
		errors.Is(err, pricing.ErrInvalidRequest),
		errors.Is(err, service.ErrFormat),
		errors.Is(err, export.ErrUnsupportedVersion):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoLocation),
		errors.Is(err, session.ErrNoEstimate):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoExtractor),
		errors.Is(err, session.ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, estimate.ErrAuthority):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
