package web

import (
	"net/http"

	"github.com/vbonduro/installquote/internal/domain"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	list := s.session.Groups().List()
	if list == nil {
		list = []domain.HardwareGroup{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string   `json:"name"`
		Color       string   `json:"color"`
		HardwareIDs []string `json:"hardwareIds"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	g, err := s.session.Groups().Create(body.Name, body.Color, body.HardwareIDs)
	if err != nil {
		s.writeError(w, "create group", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      *string `json:"name"`
		Color     *string `json:"color"`
		Collapsed *bool   `json:"collapsed"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	id := r.PathValue("group")
	g := s.session.Groups()
	if body.Name != nil {
		if err := g.Rename(id, *body.Name); err != nil {
			s.writeError(w, "rename group", err)
			return
		}
	}
	if body.Color != nil {
		if err := g.SetColor(id, *body.Color); err != nil {
			s.writeError(w, "set group color", err)
			return
		}
	}
	if body.Collapsed != nil {
		if err := g.SetCollapsed(id, *body.Collapsed); err != nil {
			s.writeError(w, "collapse group", err)
			return
		}
	}
	s.respondGroup(w, id)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Groups().Delete(r.PathValue("group")); err != nil {
		s.writeError(w, "delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddGroupItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HardwareID string `json:"hardwareId"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	id := r.PathValue("group")
	if err := s.session.Groups().AddItem(id, body.HardwareID); err != nil {
		s.writeError(w, "add group item", err)
		return
	}
	s.respondGroup(w, id)
}

func (s *Server) handleDeleteGroupItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	id := r.PathValue("group")
	if err := s.session.Groups().RemoveItem(id, index); err != nil {
		s.writeError(w, "remove group item", err)
		return
	}
	s.respondGroup(w, id)
}

func (s *Server) respondGroup(w http.ResponseWriter, id string) {
	g, err := s.session.Groups().Get(id)
	if err != nil {
		s.writeError(w, "get group", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
