package handlers

import (
	"errors"
	"net/http"

	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/rs/zerolog/log"
)

// ResponseServer extends Server with the session that remembers which
// response this browser submitted. It is a convenience, not an identity.
type ResponseServer interface {
	Server
	RememberResponse(w http.ResponseWriter, r *http.Request, eventID, responseID string) error
	RememberedResponse(r *http.Request, eventID string) string
	ForgetResponse(w http.ResponseWriter, r *http.Request, eventID string) error
}

// remember stores the response id in the session, logging but not failing
func remember(s ResponseServer, w http.ResponseWriter, r *http.Request, eventID, responseID string) {
	if err := s.RememberResponse(w, r, eventID, responseID); err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("Failed to remember response")
	}
}

// HandleSubmitResponse stores a new response for the event
func HandleSubmitResponse(s ResponseServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")

		var in database.ResponseInput
		if !decodeJSON(w, r, &in) {
			return
		}

		resp, err := s.GetDB().CreateResponse(r.Context(), eventID, in)
		if err != nil {
			writeError(w, err)
			return
		}

		remember(s, w, r, eventID, resp.ID)
		writeJSON(w, http.StatusCreated, resp)
	}
}

// HandleUpdateResponse replaces a response. Whoever holds the response id may
// update it.
func HandleUpdateResponse(s ResponseServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")

		var in database.ResponseInput
		if !decodeJSON(w, r, &in) {
			return
		}

		resp, err := s.GetDB().UpdateResponse(r.Context(), eventID, r.PathValue("responseID"), in)
		if err != nil {
			writeError(w, err)
			return
		}

		remember(s, w, r, eventID, resp.ID)
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleMyResponse returns the response remembered for this browser so the
// form can be prefilled. A remembered id that no longer exists is forgotten.
func HandleMyResponse(s ResponseServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")

		responseID := s.RememberedResponse(r, eventID)
		if responseID == "" {
			writeError(w, database.ErrNotFound)
			return
		}

		resp, err := s.GetDB().GetResponse(r.Context(), eventID, responseID)
		if errors.Is(err, database.ErrNotFound) {
			if err := s.ForgetResponse(w, r, eventID); err != nil {
				log.Warn().Err(err).Str("event_id", eventID).Msg("Failed to forget response")
			}
		}
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
