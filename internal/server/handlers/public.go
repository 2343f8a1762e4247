package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AlexTLDR/yuruly/internal/config"
	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/AlexTLDR/yuruly/internal/i18n"
	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Server interface defines the methods needed by handlers
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
}

// dateView is a candidate date with its display label
type dateView struct {
	poll.CandidateDate
	Label string `json:"label"`
}

type eventView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   string     `json:"created_at"`
	Dates       []dateView `json:"dates"`
	URL         string     `json:"url"`
	ResultsURL  string     `json:"results_url"`
}

func newEventView(cfg *config.Config, event *database.Event, lang i18n.Language) eventView {
	v := eventView{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
		Dates:       make([]dateView, 0, len(event.Dates)),
		URL:         cfg.EventURL(event.ID),
		ResultsURL:  cfg.ResultsURL(event.ID),
	}
	for _, d := range event.Dates {
		v.Dates = append(v.Dates, dateView{CandidateDate: d, Label: i18n.TimeLabel(d.TimeSlot, lang)})
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

// writeError maps database errors to HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, database.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, database.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, database.ErrInvalidToken):
		status, message = http.StatusForbidden, "Forbidden"
	default:
		log.Error().Err(err).Msg("Request failed")
	}

	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses a JSON body, writing a 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

// loadEventData loads an event and its responses concurrently
func loadEventData(ctx context.Context, db *database.DB, eventID string) (*database.Event, []poll.Response, error) {
	var (
		event     *database.Event
		responses []poll.Response
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = db.GetEvent(ctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = db.ListResponses(ctx, eventID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return event, responses, nil
}

// HandleHealth reports liveness and database reachability
func HandleHealth(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().PingContext(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type createEventResponse struct {
	Event    eventView `json:"event"`
	AdminURL string    `json:"admin_url"`
	Token    string    `json:"admin_token"`
}

// HandleCreateEvent creates an event and returns its share and admin links
func HandleCreateEvent(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in database.NewEvent
		if !decodeJSON(w, r, &in) {
			return
		}

		created, err := s.GetDB().CreateEvent(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		cfg := s.GetConfig()
		log.Info().Str("event_id", created.Event.ID).Int("dates", len(created.Event.Dates)).Msg("Event created")

		writeJSON(w, http.StatusCreated, createEventResponse{
			Event:    newEventView(cfg, created.Event, i18n.GetLanguageFromRequest(r)),
			AdminURL: cfg.AdminURL(created.Event.ID, created.AdminToken),
			Token:    created.AdminToken,
		})
	}
}

// HandleGetEvent returns an event and its candidate dates
func HandleGetEvent(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := s.GetDB().GetEvent(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEventView(s.GetConfig(), event, i18n.GetLanguageFromRequest(r)))
	}
}
