package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sanonone/roadgrid/pkg/core"
)

// maxBodyBytes bounds request bodies; every request here is a few fields.
const maxBodyBytes = 1 << 16

// registerHTTPHandlers sets up the REST API routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /intersections", s.handleIntersectionCreate)
	mux.HandleFunc("GET /intersections/{id}", s.handleIntersectionGet)

	mux.HandleFunc("POST /roads", s.handleRoadCreate)
	mux.HandleFunc("GET /roads/{from}/{to}", s.handleRoadGet)

	mux.HandleFunc("POST /traffic/add", s.handleTrafficAdd)
	mux.HandleFunc("POST /traffic/remove", s.handleTrafficRemove)

	mux.HandleFunc("GET /signals", s.handleSignalList)
	mux.HandleFunc("POST /signals", s.handleSignalCreate)
	mux.HandleFunc("POST /signals/{id}/toggle", s.handleSignalToggle)
	mux.HandleFunc("POST /signals/{id}/automatic", s.handleSignalAutomaticStart)
	mux.HandleFunc("DELETE /signals/{id}/automatic", s.handleSignalAutomaticStop)

	mux.HandleFunc("GET /path", s.handlePath)

	mux.HandleFunc("GET /network", s.handleNetworkSnapshot)
	mux.HandleFunc("GET /network/stats", s.handleNetworkStats)
}

// --- Intersections ---

func (s *Server) handleIntersectionCreate(w http.ResponseWriter, r *http.Request) {
	var req IntersectionCreateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.ID == nil {
		s.writeHTTPError(w, http.StatusBadRequest, "id is required")
		return
	}
	if err := s.Engine.AddIntersection(*req.ID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	info, err := s.Engine.Intersection(*req.ID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, info)
}

func (s *Server) handleIntersectionGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	info, err := s.Engine.Intersection(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

// --- Roads ---

func (s *Server) handleRoadCreate(w http.ResponseWriter, r *http.Request) {
	var req RoadCreateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.AddRoad(req); err != nil {
		s.writeEngineError(w, err)
		return
	}
	info, err := s.Engine.Road(req.From, req.To)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, info)
}

func (s *Server) handleRoadGet(w http.ResponseWriter, r *http.Request) {
	from, ok := s.pathInt(w, r, "from")
	if !ok {
		return
	}
	to, ok := s.pathInt(w, r, "to")
	if !ok {
		return
	}
	info, err := s.Engine.Road(from, to)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

// --- Traffic ---

func (s *Server) handleTrafficAdd(w http.ResponseWriter, r *http.Request) {
	var req TrafficRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	info, err := s.Engine.AddVehicles(req.From, req.To, req.Count)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

func (s *Server) handleTrafficRemove(w http.ResponseWriter, r *http.Request) {
	var req TrafficRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	info, err := s.Engine.RemoveVehicles(req.From, req.To, req.Count)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

// --- Signals ---

func (s *Server) handleSignalList(w http.ResponseWriter, r *http.Request) {
	signals := s.Engine.SignalList()
	if signals == nil {
		signals = []core.SignalInfo{}
	}
	s.writeHTTPResponse(w, http.StatusOK, SignalListResponse{Signals: signals})
}

func (s *Server) handleSignalCreate(w http.ResponseWriter, r *http.Request) {
	var req SignalCreateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Intersection == nil {
		s.writeHTTPError(w, http.StatusBadRequest, "intersection is required")
		return
	}
	sig, err := s.Engine.AddSignal(*req.Intersection)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, sig)
}

func (s *Server) handleSignalToggle(w http.ResponseWriter, r *http.Request) {
	s.signalAction(w, r, s.Engine.ToggleSignal)
}

func (s *Server) handleSignalAutomaticStart(w http.ResponseWriter, r *http.Request) {
	s.signalAction(w, r, s.Engine.StartAutomaticControl)
}

func (s *Server) handleSignalAutomaticStop(w http.ResponseWriter, r *http.Request) {
	s.signalAction(w, r, s.Engine.StopAutomaticControl)
}

func (s *Server) signalAction(w http.ResponseWriter, r *http.Request, action func(int) (core.SignalInfo, error)) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	sig, err := action(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, sig)
}

// --- Path & network ---

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := strconv.Atoi(q.Get("from"))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "query parameter 'from' must be an integer")
		return
	}
	to, err := strconv.Atoi(q.Get("to"))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "query parameter 'to' must be an integer")
		return
	}

	res, err := s.Engine.ShortestPath(from, to)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleNetworkSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Snapshot())
}

func (s *Server) handleNetworkStats(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Stats())
}

// --- Helpers ---

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "path parameter '"+name+"' must be an integer")
		return 0, false
	}
	return v, true
}

// statusFor maps the core error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrState):
		return http.StatusConflict
	case errors.Is(err, core.ErrCapacity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("Unexpected engine error", "error", err)
	}
	s.writeHTTPError(w, code, err.Error())
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
