package web

import (
	"net/http"

	"github.com/vbonduro/installquote/internal/pricing"
)

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.session.Undo()
	writeJSON(w, http.StatusOK, s.session.HistoryState())
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.session.Redo()
	writeJSON(w, http.StatusOK, s.session.HistoryState())
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Estimate())
}

// handleRefreshEstimate prices the active location immediately. A failed
// refresh still answers 200 with the stale state.
func (s *Server) handleRefreshEstimate(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RefreshEstimate(r.Context()); err != nil {
		s.logger.Warn("estimate refresh failed", "error", err)
	}
	writeJSON(w, http.StatusOK, s.session.Estimate())
}

// handleQuote is the cost-authority endpoint: a request in, a priced quote
// or a rejection out.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req pricing.Request
	if !readJSON(w, r, &req) {
		return
	}
	resp, err := s.authority.Quote(r.Context(), req)
	if err != nil {
		s.logger.Error("quote failed", "error", err)
		writeJSON(w, http.StatusBadGateway, pricing.Response{Error: "quote failed"})
		return
	}
	if !resp.Success {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
