package rest

import (
	"net/http"
	"time"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

type alarmResponse struct {
	*entities.Alarm
	NextTrigger *time.Time `json:"next_trigger,omitempty"`
}

func (s *Server) alarmView(a *entities.Alarm) alarmResponse {
	resp := alarmResponse{Alarm: a}
	if a.IsEnabled {
		next := s.alarms.NextTrigger(a)
		resp.NextTrigger = &next
	}
	return resp
}

func (s *Server) listAlarms(w http.ResponseWriter, r *http.Request) {
	alarms, err := s.alarms.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := make([]alarmResponse, 0, len(alarms))
	for _, a := range alarms {
		resp = append(resp, s.alarmView(a))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) getAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alarm_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	alarm, err := s.alarms.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.alarmView(alarm))
}

func (s *Server) createAlarm(w http.ResponseWriter, r *http.Request) {
	var req service.AlarmInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	alarm, err := s.alarms.Create(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.alarmView(alarm))
}

func (s *Server) updateAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alarm_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req service.AlarmInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	alarm, err := s.alarms.Update(r.Context(), id, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.alarmView(alarm))
}

func (s *Server) deleteAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alarm_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.alarms.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "alarm_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	alarm, err := s.alarms.Toggle(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.alarmView(alarm))
}

type ringingResponse struct {
	Ringing bool            `json:"ringing"`
	Alarm   *entities.Alarm `json:"alarm,omitempty"`
}

func (s *Server) ringing(w http.ResponseWriter, r *http.Request) {
	alarm, ok := s.ringer.Ringing()
	respondJSON(w, http.StatusOK, ringingResponse{Ringing: ok, Alarm: alarm})
}

func (s *Server) stopRinging(w http.ResponseWriter, r *http.Request) {
	alarm, err := s.ringer.ForceStop(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ringingResponse{Ringing: false, Alarm: alarm})
}
