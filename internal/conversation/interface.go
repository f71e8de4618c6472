package conversation

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

var ErrEmptyMessage = errors.New("empty chat message")

// Conversation runs the follow-up chat stored in a session.
type Conversation interface {
	// Send appends a user turn, asks the model with the full history and
	// appends the assistant's reply. On failure the session is left unchanged.
	Send(ctx context.Context, sess *session.Session, text string) (session.Turn, error)
}
