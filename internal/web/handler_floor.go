package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/floorplan"
)

// pathIndex parses the {index} path segment, answering 400 when it is not
// a number.
func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
		return 0, false
	}
	return i, true
}

func (s *Server) handleCreateFloor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	f, err := s.session.Model().AddFloor(r.PathValue("loc"), body.Name)
	if err != nil {
		s.writeError(w, "create floor", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleUpdateFloor(w http.ResponseWriter, r *http.Request) {
	var p floorplan.FloorPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update floor", func(id string) error {
		return s.session.Model().UpdateFloor(id, r.PathValue("floor"), p)
	})
}

func (s *Server) handleDeleteFloor(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete floor", func(id string) error {
		return s.session.Model().RemoveFloor(id, r.PathValue("floor"))
	})
}

func (s *Server) handleCreateLayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string           `json:"name"`
		Type domain.LayerType `json:"type"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	l, err := s.session.Model().AddLayer(r.PathValue("loc"), r.PathValue("floor"), body.Name, body.Type)
	if err != nil {
		s.writeError(w, "create layer", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateLayer(w http.ResponseWriter, r *http.Request) {
	var p floorplan.LayerPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update layer", func(id string) error {
		return s.session.Model().UpdateLayer(id, r.PathValue("floor"), r.PathValue("layer"), p)
	})
}

func (s *Server) handleDeleteLayer(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete layer", func(id string) error {
		return s.session.Model().RemoveLayer(id, r.PathValue("floor"), r.PathValue("layer"))
	})
}

// handleCableClick feeds one click of the two-click cable tool. The second
// click on the same layer answers with the created run.
func (s *Server) handleCableClick(w http.ResponseWriter, r *http.Request) {
	var p domain.Point
	if !readJSON(w, r, &p) {
		return
	}
	m := s.session.Model()
	run, err := m.CableClick(r.PathValue("loc"), r.PathValue("floor"), r.PathValue("layer"), p)
	if err != nil {
		s.writeError(w, "cable click", err)
		return
	}
	status := http.StatusOK
	if run != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"run":     run,
		"pending": m.PendingCable(),
	})
}

type cableRunBody struct {
	Start domain.Point `json:"start"`
	End   domain.Point `json:"end"`
}

func (s *Server) handleCreateCableRun(w http.ResponseWriter, r *http.Request) {
	var body cableRunBody
	if !readJSON(w, r, &body) {
		return
	}
	run, err := s.session.Model().AddCableRun(r.PathValue("loc"), r.PathValue("floor"), r.PathValue("layer"), body.Start, body.End)
	if err != nil {
		s.writeError(w, "create cable run", err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleMoveCableRun(w http.ResponseWriter, r *http.Request) {
	var body cableRunBody
	if !readJSON(w, r, &body) {
		return
	}
	s.mutateLocation(w, r, "move cable run", func(id string) error {
		return s.session.Model().MoveCableRun(id, r.PathValue("floor"), r.PathValue("layer"), r.PathValue("run"), body.Start, body.End)
	})
}

func (s *Server) handleDeleteCableRun(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete cable run", func(id string) error {
		return s.session.Model().RemoveCableRun(id, r.PathValue("floor"), r.PathValue("layer"), r.PathValue("run"))
	})
}

func (s *Server) handleCreateStation(w http.ResponseWriter, r *http.Request) {
	var st domain.Station
	if !readJSON(w, r, &st) {
		return
	}
	created, err := s.session.Model().AddStation(r.PathValue("loc"), r.PathValue("floor"), st)
	if err != nil {
		s.writeError(w, "create station", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	var p floorplan.StationPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update station", func(id string) error {
		return s.session.Model().UpdateStation(id, r.PathValue("floor"), r.PathValue("station"), p)
	})
}

func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete station", func(id string) error {
		return s.session.Model().RemoveStation(id, r.PathValue("floor"), r.PathValue("station"))
	})
}

func (s *Server) handleAddHardware(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []domain.HardwareAssociation `json:"items"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	s.mutateLocation(w, r, "add hardware", func(id string) error {
		return s.session.Model().AddHardware(id, r.PathValue("floor"), r.PathValue("station"), body.Items...)
	})
}

func (s *Server) handleUpdateHardware(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var p floorplan.HardwarePatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update hardware", func(id string) error {
		return s.session.Model().UpdateHardware(id, r.PathValue("floor"), r.PathValue("station"), index, p)
	})
}

func (s *Server) handleDeleteHardware(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	s.mutateLocation(w, r, "delete hardware", func(id string) error {
		return s.session.Model().RemoveHardware(id, r.PathValue("floor"), r.PathValue("station"), index)
	})
}

func (s *Server) handleStampGroup(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "stamp group", func(id string) error {
		_, err := s.session.StampGroup(id, r.PathValue("floor"), r.PathValue("station"), r.PathValue("group"))
		return err
	})
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var o domain.FloorObject
	if !readJSON(w, r, &o) {
		return
	}
	created, err := s.session.Model().AddObject(r.PathValue("loc"), r.PathValue("floor"), o)
	if err != nil {
		s.writeError(w, "create object", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateObject(w http.ResponseWriter, r *http.Request) {
	var p floorplan.ObjectPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update object", func(id string) error {
		return s.session.Model().UpdateObject(id, r.PathValue("floor"), r.PathValue("id"), p)
	})
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete object", func(id string) error {
		return s.session.Model().RemoveObject(id, r.PathValue("floor"), r.PathValue("id"))
	})
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var l domain.FloorLabel
	if !readJSON(w, r, &l) {
		return
	}
	created, err := s.session.Model().AddLabel(r.PathValue("loc"), r.PathValue("floor"), l)
	if err != nil {
		s.writeError(w, "create label", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLabel(w http.ResponseWriter, r *http.Request) {
	var p floorplan.LabelPatch
	if !readJSON(w, r, &p) {
		return
	}
	s.mutateLocation(w, r, "update label", func(id string) error {
		return s.session.Model().UpdateLabel(id, r.PathValue("floor"), r.PathValue("id"), p)
	})
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	s.mutateLocation(w, r, "delete label", func(id string) error {
		return s.session.Model().RemoveLabel(id, r.PathValue("floor"), r.PathValue("id"))
	})
}
