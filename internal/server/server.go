package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/AlexTLDR/yuruly/internal/config"
	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/AlexTLDR/yuruly/internal/server/handlers"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const responseSessionName = "yuruly-responses"

type Server struct {
	config       *config.Config
	db           *database.DB
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
}

// GetDB implements handlers.Server interface
func (s *Server) GetDB() *database.DB {
	return s.db
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// RememberResponse implements handlers.ResponseServer interface
func (s *Server) RememberResponse(w http.ResponseWriter, r *http.Request, eventID, responseID string) error {
	session, _ := s.sessionStore.Get(r, responseSessionName)
	session.Values[eventID] = responseID
	return session.Save(r, w)
}

// RememberedResponse implements handlers.ResponseServer interface
func (s *Server) RememberedResponse(r *http.Request, eventID string) string {
	session, _ := s.sessionStore.Get(r, responseSessionName)
	id, _ := session.Values[eventID].(string)
	return id
}

// ForgetResponse implements handlers.ResponseServer interface
func (s *Server) ForgetResponse(w http.ResponseWriter, r *http.Request, eventID string) error {
	session, _ := s.sessionStore.Get(r, responseSessionName)
	delete(session.Values, eventID)
	return session.Save(r, w)
}

func New(cfg *config.Config, db *database.DB) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		db:           db,
		sessionStore: store,
		router:       http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /healthz", handlers.HandleHealth(s))

	// Public routes
	s.router.HandleFunc("POST /api/events", handlers.HandleCreateEvent(s))
	s.router.HandleFunc("GET /api/events/{id}", handlers.HandleGetEvent(s))
	s.router.HandleFunc("GET /api/events/{id}/results", handlers.HandleResults(s))
	s.router.HandleFunc("POST /api/events/{id}/responses", handlers.HandleSubmitResponse(s))
	s.router.HandleFunc("GET /api/events/{id}/responses/mine", handlers.HandleMyResponse(s))
	s.router.HandleFunc("PUT /api/events/{id}/responses/{responseID}", handlers.HandleUpdateResponse(s))

	// Admin routes (protected by the admin token in the path)
	s.router.HandleFunc("GET /api/events/{id}/admin/{token}", s.requireAdmin(handlers.HandleAdminView(s)))
	s.router.HandleFunc("DELETE /api/events/{id}/admin/{token}", s.requireAdmin(handlers.HandleAdminDeleteEvent(s)))
	s.router.HandleFunc("POST /api/events/{id}/admin/{token}/dates", s.requireAdmin(handlers.HandleAdminAddDate(s)))
	s.router.HandleFunc("DELETE /api/events/{id}/admin/{token}/dates/{dateID}", s.requireAdmin(handlers.HandleAdminDeleteDate(s)))
	s.router.HandleFunc("GET /api/events/{id}/admin/{token}/export.csv", s.requireAdmin(handlers.HandleAdminDownloadCSV(s)))
}

// Handler returns the router wrapped with CORS and request logging.
// Credentialed CORS (the session cookie) is only enabled for explicit
// origins; browsers reject credentials with a wildcard origin.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Accept-Language"},
		AllowCredentials: !slices.Contains(s.config.AllowedOrigins, "*"),
	})
	return logRequests(c.Handler(s.router))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
