package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/coach"
	"github.com/nguyentantai21042004/jam-coach/internal/conversation"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/internal/report"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error(r.Context(), "Failed to read journal: %v", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var data pageData
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		if v := r.URL.Query().Get("variant"); v != "" {
			if _, ok := s.cfg.Variant(v); ok {
				sess.Variant = v
			}
		}
		data = s.buildPage(sess)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		_, err := s.coach.GenerateTopic(ctx, sess)
		return err
	})
	s.finish(w, r, err)
}

// handleRecord stores the in-page recorder's output, sent as the raw request
// body. The body is read before the session is locked.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	data, readErr := io.ReadAll(r.Body)

	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		if readErr != nil {
			sess.Notice = fmt.Sprintf("Error handling recorded audio: %v", readErr)
			return nil
		}
		a, err := s.ingress.SaveRecording(ctx, data, r.Header.Get("Content-Type"))
		if err != nil {
			s.logger.Warn(ctx, "Failed to save recording: %v", err)
			sess.Notice = fmt.Sprintf("Error handling recorded audio: %v", err)
			return nil
		}
		s.coach.SetAudio(ctx, sess, a)
		return nil
	})
	s.finish(w, r, err)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	filename, data, readErr := readUpload(r)

	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		if readErr != nil {
			sess.Notice = fmt.Sprintf("Error handling uploaded audio: %v", readErr)
			return nil
		}
		allowed := s.coach.VariantFor(sess).UploadExtensions
		a, err := s.ingress.SaveUpload(ctx, data, filename, allowed)
		if err != nil {
			s.logger.Warn(ctx, "Failed to save upload %q: %v", filename, err)
			sess.Notice = fmt.Sprintf("Error handling uploaded audio: %v", err)
			return nil
		}
		s.coach.SetAudio(ctx, sess, a)
		return nil
	})
	s.finish(w, r, err)
}

// readUpload returns the name and bytes of the multipart "file" field.
func readUpload(r *http.Request) (string, []byte, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// handleAudio plays back the current clip.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	var clip *audio.Artifact
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		if sess.Audio != nil {
			a := *sess.Audio
			clip = &a
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if clip == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", clip.MIMEType)
	http.ServeFile(w, r, clip.Path)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		_, err := s.coach.Analyze(ctx, sess)
		return s.noticeOnMissingAudio(sess, err)
	})
	s.finish(w, r, err)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		_, err := s.coach.Summarize(ctx, sess)
		return s.noticeOnMissingAudio(sess, err)
	})
	s.finish(w, r, err)
}

func (s *Server) noticeOnMissingAudio(sess *session.Session, err error) error {
	if errors.Is(err, coach.ErrNoAudio) {
		sess.Notice = "Record or upload audio first."
		return nil
	}
	return err
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		_, err := s.coach.Chat(ctx, sess, r.FormValue("message"))
		if errors.Is(err, conversation.ErrEmptyMessage) {
			return nil
		}
		return err
	})
	s.finish(w, r, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		s.coach.Reset(ctx, sess)
		return nil
	})
	s.finish(w, r, err)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil && c.Value != "" {
		if sess, err := s.store.Destroy(c.Value); err == nil {
			s.coach.End(logger.WithSessionID(r.Context(), sess.ID), sess)
		}
	}
	s.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentReport snapshots the session as a report. ok is false, with a 404
// already written, when there is nothing to export yet.
func (s *Server) currentReport(w http.ResponseWriter, r *http.Request) (rep report.Report, ok bool) {
	err := s.withSession(w, r, func(ctx context.Context, sess *session.Session) error {
		rep = report.FromSession(s.coach.VariantFor(sess).Title, sess.Clone(), time.Now())
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return report.Report{}, false
	}
	if rep.IsEmpty() {
		http.Error(w, "nothing to export yet", http.StatusNotFound)
		return report.Report{}, false
	}
	return rep, true
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.currentReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jam-report.md"`)
	_, _ = io.WriteString(w, report.Markdown(rep))
}

func (s *Server) handleReportDocx(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.currentReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.EncodeDocx(rep, &buf); err != nil {
		s.fail(w, r, fmt.Errorf("write report: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="jam-report.docx"`)
	_, _ = buf.WriteTo(w)
}

// finish redirects back to the page, or shows the failure page.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "%s %s failed: %v", r.Method, r.URL.Path, err)
	s.render(w, r, http.StatusBadGateway, "error.html", errorData{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
