// Package session holds per-browser-session coaching state.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrTurnOrder = errors.New("turn out of order")
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message in the follow-up conversation.
type Turn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Session is the explicit state object handed to every view action.
type Session struct {
	ID      string
	Variant string

	Topic          string
	AnalysisReport string
	Summary        string
	Conversation   []Turn

	// Audio is the clip captured during the current cycle, if any.
	Audio *audio.Artifact
	// Notice is a user-facing message shown once on the next render.
	Notice string

	CreatedAt time.Time
	LastSeen  time.Time
}

func newSession(id, variant string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Variant:      variant,
		Conversation: []Turn{},
		CreatedAt:    now,
		LastSeen:     now,
	}
}

func (s *Session) HasTopic() bool { return s.Topic != "" }

func (s *Session) SetTopic(topic string)           { s.Topic = topic }
func (s *Session) SetAnalysisReport(report string) { s.AnalysisReport = report }
func (s *Session) SetSummary(summary string)       { s.Summary = summary }

// AppendTurn adds t to the conversation. The conversation must start with the
// user and alternate strictly.
func (s *Session) AppendTurn(t Turn) error {
	want := SpeakerUser
	if n := len(s.Conversation); n > 0 && s.Conversation[n-1].Speaker == SpeakerUser {
		want = SpeakerAssistant
	}
	if t.Speaker != want {
		return fmt.Errorf("%w: got %s, want %s", ErrTurnOrder, t.Speaker, want)
	}
	if t.At.IsZero() {
		t.At = time.Now()
	}
	s.Conversation = append(s.Conversation, t)
	return nil
}

// TruncateConversation drops turns past n. Used to undo a user turn whose reply never came.
func (s *Session) TruncateConversation(n int) {
	if n >= 0 && n < len(s.Conversation) {
		s.Conversation = s.Conversation[:n]
	}
}

// Reset clears the analysis, summary and conversation. The topic is kept.
func (s *Session) Reset() {
	s.AnalysisReport = ""
	s.Summary = ""
	s.Conversation = []Turn{}
}

// TakeNotice returns and clears the pending notice.
func (s *Session) TakeNotice() string {
	n := s.Notice
	s.Notice = ""
	return n
}

// Clone returns a copy that shares no slices with s.
func (s *Session) Clone() Session {
	c := *s
	c.Conversation = append([]Turn(nil), s.Conversation...)
	if s.Audio != nil {
		a := *s.Audio
		c.Audio = &a
	}
	return c
}
