package handlers

import (
	"net/http"

	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/AlexTLDR/yuruly/internal/i18n"
	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/rs/zerolog/log"
)

// Admin handlers run behind the admin token middleware, so the event id in
// the path has already been checked.

type adminViewResponse struct {
	Event     eventView             `json:"event"`
	Responses []poll.Response       `json:"responses"`
	Tallies   map[string]poll.Tally `json:"tallies"`
}

// HandleAdminView returns the event with every response for management
func HandleAdminView(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, responses, err := loadEventData(r.Context(), s.GetDB(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, adminViewResponse{
			Event:     newEventView(s.GetConfig(), event, i18n.GetLanguageFromRequest(r)),
			Responses: responses,
			Tallies:   poll.Aggregate(event.Dates, responses),
		})
	}
}

// HandleAdminAddDate adds a candidate date to the event
func HandleAdminAddDate(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")

		var in database.NewDate
		if !decodeJSON(w, r, &in) {
			return
		}

		date, err := s.GetDB().AddEventDate(r.Context(), eventID, in)
		if err != nil {
			writeError(w, err)
			return
		}

		log.Info().Str("event_id", eventID).Str("date_id", date.ID).Msg("Candidate date added")
		writeJSON(w, http.StatusCreated, dateView{
			CandidateDate: *date,
			Label:         i18n.TimeLabel(date.TimeSlot, i18n.GetLanguageFromRequest(r)),
		})
	}
}

// HandleAdminDeleteDate removes a candidate date and its answers
func HandleAdminDeleteDate(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, dateID := r.PathValue("id"), r.PathValue("dateID")

		if err := s.GetDB().DeleteEventDate(r.Context(), eventID, dateID); err != nil {
			writeError(w, err)
			return
		}

		log.Info().Str("event_id", eventID).Str("date_id", dateID).Msg("Candidate date deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAdminDeleteEvent deletes the event with all its dates and responses
func HandleAdminDeleteEvent(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")

		if err := s.GetDB().DeleteEvent(r.Context(), eventID); err != nil {
			writeError(w, err)
			return
		}

		log.Info().Str("event_id", eventID).Msg("Event deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}
