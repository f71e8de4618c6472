package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

func TestSendAlternates(t *testing.T) {
	mock := &gemini.MockClient{
		ChatFunc: func(ctx context.Context, history []gemini.Message) (string, error) {
			return fmt.Sprintf("reply %d", len(history)), nil
		},
	}
	conv := New(mock, logger.NewNop())
	sess := session.NewStore().Create("jam")

	for k := 1; k <= 4; k++ {
		turn, err := conv.Send(context.Background(), sess, fmt.Sprintf("question %d", k))
		require.NoError(t, err)
		assert.Equal(t, session.SpeakerAssistant, turn.Speaker)
		assert.Equal(t, fmt.Sprintf("reply %d", 2*k-1), turn.Text)
		require.Len(t, sess.Conversation, 2*k)
	}

	for i, turn := range sess.Conversation {
		want := session.SpeakerUser
		if i%2 == 1 {
			want = session.SpeakerAssistant
		}
		assert.Equal(t, want, turn.Speaker, "turn %d", i)
	}
}

func TestSendPassesFullHistory(t *testing.T) {
	var seen []gemini.Message
	mock := &gemini.MockClient{
		ChatFunc: func(ctx context.Context, history []gemini.Message) (string, error) {
			seen = history
			return "ok", nil
		},
	}
	conv := New(mock, logger.NewNop())
	sess := session.NewStore().Create("jam")

	_, err := conv.Send(context.Background(), sess, "first")
	require.NoError(t, err)
	_, err = conv.Send(context.Background(), sess, "second")
	require.NoError(t, err)

	want := []gemini.Message{
		{Role: gemini.RoleUser, Text: "first"},
		{Role: gemini.RoleModel, Text: "ok"},
		{Role: gemini.RoleUser, Text: "second"},
	}
	assert.Equal(t, want, seen)
}

func TestSendRollsBackOnError(t *testing.T) {
	fail := errors.New("remote down")
	mock := &gemini.MockClient{
		ChatFunc: func(ctx context.Context, history []gemini.Message) (string, error) {
			return "", fail
		},
	}
	conv := New(mock, logger.NewNop())
	sess := session.NewStore().Create("jam")

	_, err := conv.Send(context.Background(), sess, "hello")
	assert.ErrorIs(t, err, fail)
	assert.Empty(t, sess.Conversation)
}

func TestSendEmptyMessage(t *testing.T) {
	mock := gemini.NewMockClient("X")
	conv := New(mock, logger.NewNop())
	sess := session.NewStore().Create("jam")

	_, err := conv.Send(context.Background(), sess, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, mock.CallCount("Chat"))
}

func TestHistory(t *testing.T) {
	got := History([]session.Turn{
		{Speaker: session.SpeakerUser, Text: "q"},
		{Speaker: session.SpeakerAssistant, Text: "a"},
	})
	assert.Equal(t, []gemini.Message{
		{Role: gemini.RoleUser, Text: "q"},
		{Role: gemini.RoleModel, Text: "a"},
	}, got)
}
