package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

func (c *implConversation) Send(ctx context.Context, sess *session.Session, text string) (session.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return session.Turn{}, ErrEmptyMessage
	}

	mark := len(sess.Conversation)
	if err := sess.AppendTurn(session.Turn{Speaker: session.SpeakerUser, Text: text, At: time.Now()}); err != nil {
		return session.Turn{}, err
	}

	reply, err := c.model.Chat(ctx, History(sess.Conversation))
	if err != nil {
		sess.TruncateConversation(mark)
		return session.Turn{}, fmt.Errorf("send chat message: %w", err)
	}

	turn := session.Turn{Speaker: session.SpeakerAssistant, Text: reply, At: time.Now()}
	if err := sess.AppendTurn(turn); err != nil {
		sess.TruncateConversation(mark)
		return session.Turn{}, err
	}

	c.logger.Debug(ctx, "Chat turn %d answered (%d chars)", len(sess.Conversation)/2, len(reply))
	return turn, nil
}

// History maps session turns to model messages.
func History(turns []session.Turn) []gemini.Message {
	out := make([]gemini.Message, 0, len(turns))
	for _, t := range turns {
		role := gemini.RoleUser
		if t.Speaker == session.SpeakerAssistant {
			role = gemini.RoleModel
		}
		out = append(out, gemini.Message{Role: role, Text: t.Text})
	}
	return out
}
