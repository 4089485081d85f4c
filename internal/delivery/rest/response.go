package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/repository"
	"github.com/aliskhannn/langalarm/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// statusFor maps domain errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrDeckNotFound),
		errors.Is(err, repository.ErrWordNotFound),
		errors.Is(err, repository.ErrAlarmNotFound),
		errors.Is(err, repository.ErrSoundNotFound),
		errors.Is(err, repository.ErrNoActiveDeck),
		errors.Is(err, service.ErrNoActiveSession):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownSetting),
		errors.Is(err, service.ErrInvalidPolicy),
		errors.Is(err, deckio.ErrUnsupportedFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, service.ErrNotRinging):
		return http.StatusConflict, "NOT_RINGING"
	case errors.Is(err, service.ErrAlarmQuizActive),
		errors.Is(err, service.ErrCannotExitAlarmQuiz),
		errors.Is(err, service.ErrSessionCompleted):
		return http.StatusConflict, "QUIZ_CONFLICT"
	case errors.Is(err, service.ErrNoWordsAvailable):
		return http.StatusUnprocessableEntity, "NO_WORDS"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

// handleError writes err as a JSON error body. Unmapped errors are logged and hidden.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal server error"
	}

	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: msg}})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s has invalid format", errBadRequest, name)
	}
	return id, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", errBadRequest, name)
	}
	return id, nil
}
