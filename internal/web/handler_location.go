package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/estimate"
	"github.com/vbonduro/installquote/internal/floorplan"
	"github.com/vbonduro/installquote/internal/session"
)

const maxNameLen = 200

type sessionState struct {
	ActiveLocationID string                  `json:"activeLocationId"`
	Support          estimate.Support        `json:"support"`
	SupportName      string                  `json:"supportName"`
	History          session.HistoryState    `json:"history"`
	Selection        *floorplan.Selection    `json:"selection"`
	PendingCable     *floorplan.PendingCable `json:"pendingCable"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.session.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"hardware":     c.HardwareItems(),
		"integrations": c.Integrations(),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Rates())
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	m := s.session.Model()
	writeJSON(w, http.StatusOK, sessionState{
		ActiveLocationID: s.session.ActiveLocation(),
		Support:          s.session.Support(),
		SupportName:      s.session.SupportName(),
		History:          s.session.HistoryState(),
		Selection:        m.Selection(),
		PendingCable:     m.PendingCable(),
	})
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LocationID string `json:"locationId"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if err := s.session.SetActiveLocation(body.LocationID); err != nil {
		s.writeError(w, "set active location", err)
		return
	}
	s.handleSessionState(w, r)
}

func (s *Server) handleSetSupport(w http.ResponseWriter, r *http.Request) {
	var body estimate.Support
	if !readJSON(w, r, &body) {
		return
	}
	if err := s.session.SetSupport(body); err != nil {
		s.writeError(w, "set support", err)
		return
	}
	s.handleSessionState(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var sel floorplan.Selection
	if !readJSON(w, r, &sel) {
		return
	}
	if err := s.session.Model().Select(sel); err != nil {
		s.writeError(w, "select", err)
		return
	}
	s.handleSessionState(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.session.Model().ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelCable(w http.ResponseWriter, r *http.Request) {
	s.session.Model().CancelCable()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locs := s.session.Model().Snapshot()
	if locs == nil {
		locs = []domain.Location{}
	}
	writeJSON(w, http.StatusOK, locs)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location name required"})
		return
	}
	if len(name) > maxNameLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location name too long"})
		return
	}
	loc, err := s.session.Model().AddLocation(name, body.Address)
	if err != nil {
		s.writeError(w, "create location", err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	s.respondLocation(w, r.PathValue("loc"), http.StatusOK)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var p floorplan.LocationPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update location", func(id string) error {
		return s.session.Model().UpdateLocation(id, p)
	})
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Model().RemoveLocation(r.PathValue("loc")); err != nil {
		s.writeError(w, "delete location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetServiceMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode domain.ServiceMode `json:"mode"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	s.mutateLocation(w, r, "set service mode", func(id string) error {
		return s.session.Model().SetServiceMode(id, body.Mode)
	})
}

func (s *Server) handleSetTravelZone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Zone domain.TravelZone `json:"zone"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	s.mutateLocation(w, r, "set travel zone", func(id string) error {
		return s.session.Model().SetTravelZone(id, body.Zone)
	})
}

func (s *Server) handleSetIslandOptions(w http.ResponseWriter, r *http.Request) {
	var opts domain.IslandOptions
	if !readJSON(w, r, &opts) {
		return
	}
	s.mutateLocation(w, r, "set island options", func(id string) error {
		return s.session.Model().SetIslandOptions(id, opts)
	})
}

func (s *Server) handleSetIntegration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	s.mutateLocation(w, r, "set integration", func(id string) error {
		return s.session.Model().SetIntegration(id, r.PathValue("integration"), body.Enabled)
	})
}

// mutateLocation runs fn against the location named in the path and answers
// with its new state.
func (s *Server) mutateLocation(w http.ResponseWriter, r *http.Request, op string, fn func(id string) error) {
	id := r.PathValue("loc")
	if err := fn(id); err != nil {
		s.writeError(w, op, err)
		return
	}
	s.respondLocation(w, id, http.StatusOK)
}

func (s *Server) respondLocation(w http.ResponseWriter, id string, status int) {
	loc, err := s.session.Model().Location(id)
	if err != nil {
		s.writeError(w, "get location", err)
		return
	}
	writeJSON(w, status, loc)
}
