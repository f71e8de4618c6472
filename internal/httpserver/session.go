package httpserver

import (
	"context"
	"net/http"

	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

// sessionID returns the caller's live session id, creating a session (and
// cookie) when the cookie is missing or points at an expired session.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil && c.Value != "" {
		if _, err := s.store.Snapshot(c.Value); err == nil {
			return c.Value
		}
	}

	variant := s.cfg.Coach.Variant
	if v := r.URL.Query().Get("variant"); v != "" {
		if _, ok := s.cfg.Variant(v); ok {
			variant = v
		}
	}

	sess := s.store.Create(variant)
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info(logger.WithSessionID(r.Context(), sess.ID), "Session created (variant: %s)", variant)
	return sess.ID
}

func (s *Server) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// withSession runs fn as the session's single in-flight event.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sess *session.Session) error) error {
	id := s.sessionID(w, r)
	ctx := logger.WithSessionID(r.Context(), id)
	return s.store.Do(id, func(sess *session.Session) error {
		return fn(ctx, sess)
	})
}
