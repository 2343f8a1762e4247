package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/rs/zerolog/log"
)

// requireAdmin is a middleware that checks the admin token in the path
// against the event's stored hash
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("id")
		token := r.PathValue("token")

		err := s.db.VerifyAdminToken(r.Context(), eventID, token)
		switch {
		case err == nil:
			next(w, r)
		case errors.Is(err, database.ErrNotFound):
			http.Error(w, "Event not found", http.StatusNotFound)
		case errors.Is(err, database.ErrInvalidToken):
			log.Warn().Str("event_id", eventID).Msg("Rejected admin token")
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Error().Err(err).Str("event_id", eventID).Msg("Failed to verify admin token")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// logRequests logs one line per request
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", redactToken(r.URL.Path)).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// redactToken replaces the path segment after /admin/ so admin tokens stay out
// of the logs, whether or not the request matched a route
func redactToken(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "admin" && segments[i+1] != "" {
			segments[i+1] = "{token}"
		}
	}
	return strings.Join(segments, "/")
}
