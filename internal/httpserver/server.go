// Package httpserver is the browser-facing view of the coach.
package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/coach"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

// Server serves the coach page and its form actions.
type Server struct {
	cfg     *config.Config
	router  *mux.Router
	server  *http.Server
	store   session.Store
	coach   coach.Coach
	ingress audio.Ingress
	journal journal.Journal
	logger  logger.Logger

	pages    *template.Template
	markdown goldmark.Markdown
}

// New wires the routes. cfg must already be validated.
func New(
	cfg *config.Config,
	store session.Store,
	c coach.Coach,
	ingress audio.Ingress,
	j journal.Journal,
	log logger.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		router:   mux.NewRouter(),
		store:    store,
		coach:    c,
		ingress:  ingress,
		journal:  j,
		logger:   log,
		pages:    parsePages(),
		markdown: goldmark.New(),
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/journal", s.handleJournal).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/topic", s.handleTopic).Methods(http.MethodPost)
	s.router.HandleFunc("/audio/record", s.handleRecord).Methods(http.MethodPost)
	s.router.HandleFunc("/audio/upload", s.handleUpload).Methods(http.MethodPost)
	s.router.HandleFunc("/audio", s.handleAudio).Methods(http.MethodGet)
	s.router.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/summarize", s.handleSummarize).Methods(http.MethodPost)
	s.router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	s.router.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	s.router.HandleFunc("/session/end", s.handleEnd).Methods(http.MethodPost)
	s.router.HandleFunc("/report.md", s.handleReportMarkdown).Methods(http.MethodGet)
	s.router.HandleFunc("/report.docx", s.handleReportDocx).Methods(http.MethodGet)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "HTTP server listening on %s", s.cfg.Server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SweepSessions expires idle sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Session.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context) int {
	expired := s.store.Sweep(s.cfg.Session.IdleTimeout)
	for _, sess := range expired {
		s.coach.End(logger.WithSessionID(ctx, sess.ID), sess)
	}
	if len(expired) > 0 {
		s.logger.Info(ctx, "Expired %d idle sessions", len(expired))
	}
	return len(expired)
}
