package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/report"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type turnView struct {
	Speaker string
	Body    template.HTML
}

type pageData struct {
	Title    string
	Tagline  string
	Variants []variantLink
	Notice   string

	HasTopic    bool
	Topic       string
	HasAudio    bool
	AudioSource string
	AudioMIME   string
	Accept      string

	Analysis template.HTML
	Summary  template.HTML

	Conversation    []turnView
	ChatPlaceholder string
	CanExport       bool
}

type variantLink struct {
	Name    string
	Title   string
	Current bool
}

type errorData struct {
	Message string
}

func parsePages() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// buildPage snapshots what the page needs. It consumes the pending notice.
func (s *Server) buildPage(sess *session.Session) pageData {
	v := s.coach.VariantFor(sess)

	data := pageData{
		Title:           v.Title,
		Tagline:         v.Tagline,
		Notice:          sess.TakeNotice(),
		HasTopic:        sess.HasTopic(),
		Topic:           sess.Topic,
		Analysis:        s.renderMarkdown(sess.AnalysisReport),
		Summary:         s.renderMarkdown(sess.Summary),
		ChatPlaceholder: v.ChatPlaceholder,
		CanExport:       !report.FromSession(v.Title, sess.Clone(), time.Now()).IsEmpty(),
	}

	for _, cv := range s.cfg.Variants {
		data.Variants = append(data.Variants, variantLink{
			Name:    cv.Name,
			Title:   cv.Title,
			Current: cv.Name == v.Name,
		})
	}

	exts := make([]string, 0, len(v.UploadExtensions))
	for _, ext := range v.UploadExtensions {
		exts = append(exts, "."+ext)
	}
	data.Accept = strings.Join(exts, ",")

	if sess.Audio != nil {
		data.HasAudio = true
		data.AudioMIME = sess.Audio.MIMEType
		data.AudioSource = "Recorded"
		if sess.Audio.Source == audio.SourceUploaded {
			data.AudioSource = "Uploaded"
		}
	}

	for _, t := range sess.Conversation {
		label := "You"
		if t.Speaker == session.SpeakerAssistant {
			label = "Coach"
		}
		data.Conversation = append(data.Conversation, turnView{
			Speaker: label,
			Body:    s.renderMarkdown(t.Text),
		})
	}

	return data
}

// renderMarkdown turns model output into HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func (s *Server) renderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error(r.Context(), "Failed to render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
