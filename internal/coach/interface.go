package coach

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

var ErrNoAudio = errors.New("no audio recorded or uploaded yet")

// Coach runs the practice actions against one session. Every method expects
// the caller to hold the session exclusively (see session.Store.Do).
type Coach interface {
	VariantFor(sess *session.Session) config.Variant

	GenerateTopic(ctx context.Context, sess *session.Session) (string, error)
	SetAudio(ctx context.Context, sess *session.Session, a audio.Artifact)
	Analyze(ctx context.Context, sess *session.Session) (string, error)
	Summarize(ctx context.Context, sess *session.Session) (string, error)
	Chat(ctx context.Context, sess *session.Session, text string) (session.Turn, error)
	Reset(ctx context.Context, sess *session.Session)
	// End releases resources held by a session that is going away.
	End(ctx context.Context, sess *session.Session)
}
