package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/core"
	"github.com/poiesic/searchbox/search"
	"github.com/poiesic/searchbox/snapshot"
)

type errorResponse struct {
	Error string `json:"error"`
}

// rulesPayload is the wire form of the four rule configuration fields,
// keyed by their stable store names.
type rulesPayload struct {
	CustomTypes string `json:"custom_post_type"`
	Excluded    string `json:"exclude_from_search_result"`
	Highest     string `json:"highest_priority"`
	Lowest      string `json:"lowest_priority"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	mode, err := search.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	result, err := s.executor.Query(r.Context(), term, mode)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	dataset, err := s.executor.Dataset(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, dataset)
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rules.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rulesPayload{
		CustomTypes: settings.CustomTypes,
		Excluded:    settings.Excluded,
		Highest:     settings.Highest,
		Lowest:      settings.Lowest,
	})
}

// handlePutRules saves all four fields as one unit; partial updates are
// not offered so a concurrent reader never sees mixed rule text.
func (s *Server) handlePutRules(w http.ResponseWriter, r *http.Request) {
	var payload rulesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	settings := config.Settings{
		CustomTypes: payload.CustomTypes,
		Excluded:    payload.Excluded,
		Highest:     payload.Highest,
		Lowest:      payload.Lowest,
	}
	if err := s.rules.Save(r.Context(), settings); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSnapshotMeta(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.writeError(w, http.StatusServiceUnavailable, search.ErrSnapshotsNotConfigured)
		return
	}
	meta, err := s.snapshots.Meta(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleSnapshotDocument(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.writeError(w, http.StatusServiceUnavailable, search.ErrSnapshotsNotConfigured)
		return
	}
	document, _, err := s.snapshots.DocumentBytes(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

func (s *Server) handleSnapshotBuild(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.writeError(w, http.StatusServiceUnavailable, search.ErrSnapshotsNotConfigured)
		return
	}
	meta, err := s.snapshots.Rebuild(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrTermTooShort), errors.Is(err, core.ErrInvalidMode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, search.ErrProviderUnavailable),
		errors.Is(err, search.ErrSnapshotsNotConfigured),
		errors.Is(err, snapshot.ErrSnapshotUnavailable),
		errors.Is(err, snapshot.ErrSnapshotMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
