// Package report renders a practice session as markdown or a .docx file.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

// Report is everything a user can take away from one practice session.
type Report struct {
	Title        string
	Topic        string
	Analysis     string
	Summary      string
	Conversation []session.Turn
	GeneratedAt  time.Time
}

// FromSession builds a Report from a session snapshot.
func FromSession(title string, s session.Session, now time.Time) Report {
	return Report{
		Title:        title,
		Topic:        s.Topic,
		Analysis:     s.AnalysisReport,
		Summary:      s.Summary,
		Conversation: s.Conversation,
		GeneratedAt:  now,
	}
}

// IsEmpty reports whether there is nothing worth exporting.
func (r Report) IsEmpty() bool {
	return r.Topic == "" && r.Analysis == "" && r.Summary == "" && len(r.Conversation) == 0
}

// Markdown renders the report. Empty sections are omitted.
func Markdown(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n_%s_\n", r.Title, r.GeneratedAt.Format("2006-01-02 15:04"))

	section := func(heading, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", heading, body)
	}

	section("Topic", r.Topic)
	section("Analysis", r.Analysis)
	section("Summary", r.Summary)

	if len(r.Conversation) > 0 {
		b.WriteString("\n## Conversation\n")
		for _, t := range r.Conversation {
			fmt.Fprintf(&b, "\n**%s:** %s\n", speakerLabel(t.Speaker), strings.TrimSpace(t.Text))
		}
	}

	return b.String()
}

func speakerLabel(s session.Speaker) string {
	if s == session.SpeakerAssistant {
		return "Coach"
	}
	return "You"
}
