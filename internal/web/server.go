// Package web serves the CampusBot chat widget and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"campusbot/internal/assistant"
	"campusbot/internal/knowledge"
	"campusbot/internal/session"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	sessionCookie   = "campusbot_session"
	shutdownTimeout = 5 * time.Second
)

// Knowledge is the view of the knowledge store the server needs.
type Knowledge interface {
	Current() (*knowledge.Base, error)
	Path() string
}

// Options carries the server's tunables.
type Options struct {
	LogoFile    string
	ModelName   string
	SessionIdle time.Duration
}

// Server is the HTTP front end.
type Server struct {
	exchange  *assistant.Exchange
	knowledge Knowledge
	sessions  *session.Store
	opts      Options
	templates *template.Template
	markdown  *markdown
	logger    *log.Logger
	router    *mux.Router
}

// NewServer creates a new HTTP server.
func NewServer(ex *assistant.Exchange, kb Knowledge, sessions *session.Store, opts Options, logger *log.Logger) (*Server, error) {
	s := &Server{
		exchange:  ex,
		knowledge: kb,
		sessions:  sessions,
		opts:      opts,
		markdown:  newMarkdown(),
		logger:    logger,
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown": s.markdown.HTML,
		"isUser":   isUser,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(recoverMiddleware(s.logger), loggingMiddleware(s.logger))

	// UI
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/chat", s.handleChatForm).Methods(http.MethodPost)
	r.HandleFunc("/nav/{page}", s.handleNav).Methods(http.MethodGet)
	r.HandleFunc("/logo", s.handleLogo).Methods(http.MethodGet)

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", s.handleChatAPI).Methods(http.MethodPost)
	api.HandleFunc("/transcript", s.handleTranscript).Methods(http.MethodGet)
	api.HandleFunc("/schema", s.handleSchema).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	if s.opts.SessionIdle > 0 {
		go s.sweepSessions(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown did not complete cleanly", "err", err)
		}
	}()

	s.logger.Info("CampusBot server starting", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	interval := s.opts.SessionIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(s.opts.SessionIdle); n > 0 {
				s.logger.Debug("expired idle sessions", "count", n, "live", s.sessions.Len())
			}
		}
	}
}

// session resolves the visitor's session from the cookie, starting a new one
// when the cookie is missing or stale.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}
