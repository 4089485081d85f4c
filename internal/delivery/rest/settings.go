package rest

import (
	"net/http"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

type settingsRequest struct {
	RequiredCorrect *int `json:"required_correct"`
	BufferSize      *int `json:"buffer_size"`
	MaxTrials       *int `json:"max_trials"`
}

type activeSoundRequest struct {
	ID int64 `json:"id"`
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// updateSettings applies the fields present in the body; values below their
// minimum are raised to it.
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.RequiredCorrect != nil {
		settings.RequiredCorrect = *req.RequiredCorrect
	}
	if req.BufferSize != nil {
		settings.BufferSize = *req.BufferSize
	}
	if req.MaxTrials != nil {
		settings.MaxTrials = *req.MaxTrials
	}

	settings, err = s.settings.Update(r.Context(), settings)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) listSounds(w http.ResponseWriter, r *http.Request) {
	sounds, err := s.sounds.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if sounds == nil {
		sounds = []*entities.Sound{}
	}
	respondJSON(w, http.StatusOK, sounds)
}

// setActiveSound selects a custom sound; id 0 selects the default sound.
func (s *Server) setActiveSound(w http.ResponseWriter, r *http.Request) {
	var req activeSoundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.sounds.SetActive(r.Context(), req.ID); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
