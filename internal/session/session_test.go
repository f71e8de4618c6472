package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
)

func TestNewSessionDefaultsEmpty(t *testing.T) {
	s := NewStore().Create("jam")

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "jam", s.Variant)
	assert.Empty(t, s.Topic)
	assert.Empty(t, s.AnalysisReport)
	assert.Empty(t, s.Summary)
	assert.NotNil(t, s.Conversation)
	assert.Empty(t, s.Conversation)
	assert.Nil(t, s.Audio)
	assert.False(t, s.HasTopic())
}

func TestAppendTurnAlternation(t *testing.T) {
	tests := []struct {
		name    string
		turns   []Speaker
		wantErr bool
	}{
		{"user first", []Speaker{SpeakerUser}, false},
		{"alternating", []Speaker{SpeakerUser, SpeakerAssistant, SpeakerUser, SpeakerAssistant}, false},
		{"assistant first", []Speaker{SpeakerAssistant}, true},
		{"two users", []Speaker{SpeakerUser, SpeakerUser}, true},
		{"two assistants", []Speaker{SpeakerUser, SpeakerAssistant, SpeakerAssistant}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("id", "jam", time.Now())
			var err error
			for _, sp := range tt.turns {
				if err = s.AppendTurn(Turn{Speaker: sp, Text: "x"}); err != nil {
					break
				}
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("AppendTurn() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrTurnOrder) {
				t.Errorf("AppendTurn() error = %v, want ErrTurnOrder", err)
			}
		})
	}
}

func TestAppendTurnStampsTime(t *testing.T) {
	s := newSession("id", "jam", time.Now())
	require.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerUser, Text: "hi"}))
	assert.False(t, s.Conversation[0].At.IsZero())
}

func TestResetKeepsTopic(t *testing.T) {
	s := newSession("id", "jam", time.Now())
	s.SetTopic("Why cats rule")
	s.SetAnalysisReport("report")
	s.SetSummary("summary")
	require.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerUser, Text: "q"}))
	require.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerAssistant, Text: "a"}))

	s.Reset()

	assert.Equal(t, "Why cats rule", s.Topic)
	assert.Empty(t, s.AnalysisReport)
	assert.Empty(t, s.Summary)
	assert.Empty(t, s.Conversation)

	// conversation starts over with a user turn
	assert.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerUser, Text: "again"}))
}

func TestTruncateConversation(t *testing.T) {
	s := newSession("id", "jam", time.Now())
	require.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerUser, Text: "q"}))

	s.TruncateConversation(0)
	assert.Empty(t, s.Conversation)

	s.TruncateConversation(5)
	assert.Empty(t, s.Conversation)
}

func TestTakeNotice(t *testing.T) {
	s := newSession("id", "jam", time.Now())
	s.Notice = "could not save"
	assert.Equal(t, "could not save", s.TakeNotice())
	assert.Empty(t, s.TakeNotice())
}

func TestCloneIsIndependent(t *testing.T) {
	s := newSession("id", "jam", time.Now())
	s.Audio = &audio.Artifact{Path: "/tmp/a.wav"}
	require.NoError(t, s.AppendTurn(Turn{Speaker: SpeakerUser, Text: "q"}))

	c := s.Clone()
	c.Conversation[0].Text = "changed"
	c.Audio.Path = "/tmp/b.wav"

	assert.Equal(t, "q", s.Conversation[0].Text)
	assert.Equal(t, "/tmp/a.wav", s.Audio.Path)
}

func TestStoreDo(t *testing.T) {
	store := NewStore()
	s := store.Create("jam")

	err := store.Do(s.ID, func(sess *Session) error {
		sess.SetTopic("topic")
		return nil
	})
	require.NoError(t, err)

	snap, err := store.Snapshot(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "topic", snap.Topic)

	wantErr := errors.New("boom")
	assert.Equal(t, wantErr, store.Do(s.ID, func(*Session) error { return wantErr }))

	assert.ErrorIs(t, store.Do("missing", func(*Session) error { return nil }), ErrNotFound)
	_, err = store.Snapshot("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDoSerializesEvents(t *testing.T) {
	store := NewStore()
	s := store.Create("jam")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Do(s.ID, func(sess *Session) error {
				if err := sess.AppendTurn(Turn{Speaker: SpeakerUser, Text: "q"}); err != nil {
					return err
				}
				return sess.AppendTurn(Turn{Speaker: SpeakerAssistant, Text: "a"})
			})
		}()
	}
	wg.Wait()

	snap, err := store.Snapshot(s.ID)
	require.NoError(t, err)
	require.Len(t, snap.Conversation, 100)
	for i, turn := range snap.Conversation {
		want := SpeakerUser
		if i%2 == 1 {
			want = SpeakerAssistant
		}
		assert.Equal(t, want, turn.Speaker)
	}
}

func TestStoreDestroy(t *testing.T) {
	store := NewStore()
	s := store.Create("jam")
	assert.Equal(t, 1, store.Len())

	got, err := store.Destroy(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 0, store.Len())

	_, err = store.Destroy(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Do(s.ID, func(*Session) error { return nil }), ErrNotFound)
}

func TestStoreSweep(t *testing.T) {
	store := NewStore().(*implStore)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	old := store.Create("jam")
	now = now.Add(90 * time.Minute)
	fresh := store.Create("jam")

	expired := store.Sweep(time.Hour)
	require.Len(t, expired, 1)
	assert.Equal(t, old.ID, expired[0].ID)
	assert.Equal(t, 1, store.Len())

	_, err := store.Snapshot(fresh.ID)
	assert.NoError(t, err)
	_, err = store.Snapshot(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
