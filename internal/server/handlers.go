package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/evdash/pkg/errors"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func (s *Server) writeBytes(w http.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(b); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ctl.State())
}

func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctl.ToggleFilter(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctl.ToggleAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	b, err := s.ctl.Markers()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBytes(w, "application/geo+json", b)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	d, err := s.ctl.Distribution()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDistributionSVG(w http.ResponseWriter, r *http.Request) {
	b, err := s.ctl.DistributionSVG()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBytes(w, "image/svg+xml", b)
}

func (s *Server) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	b, err := s.ctl.TreeSVG()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBytes(w, "image/svg+xml", b)
}

func (s *Server) handleTreeFrame(w http.ResponseWriter, r *http.Request) {
	f, err := s.ctl.TreeFrame()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleToggleNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", chi.URLParam(r, "id")))
		return
	}
	f, err := s.ctl.ClickNode(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	f, err := s.ctl.RevealModel(r.Context(), r.URL.Query().Get("model"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}
