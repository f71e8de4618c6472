package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

// VariantFor returns the session's variant, or the configured default.
func (c *implCoach) VariantFor(sess *session.Session) config.Variant {
	if v, ok := c.cfg.Variant(sess.Variant); ok {
		return v
	}
	v, _ := c.cfg.Variant(c.cfg.Coach.Variant)
	return v
}

// GenerateTopic asks the model for a new JAM topic and stores it.
func (c *implCoach) GenerateTopic(ctx context.Context, sess *session.Session) (string, error) {
	v := c.VariantFor(sess)

	topic, err := c.client.GenerateText(ctx, v.TopicPrompt)
	if err != nil {
		return "", fmt.Errorf("generate topic: %w", err)
	}
	topic = strings.TrimSpace(topic)

	sess.SetTopic(topic)
	c.record(ctx, sess, journal.KindTopic, topic)

	c.logger.Info(ctx, "New topic generated (%d chars)", len(topic))
	return topic, nil
}

// SetAudio makes a the session's current clip and drops the previous file.
func (c *implCoach) SetAudio(ctx context.Context, sess *session.Session, a audio.Artifact) {
	if sess.Audio != nil && sess.Audio.Path != a.Path {
		c.ingress.Remove(ctx, *sess.Audio)
	}
	sess.Audio = &a
}

// Analyze sends the current clip with the variant's analysis prompt, stores
// the report and seeds the conversation with it.
func (c *implCoach) Analyze(ctx context.Context, sess *session.Session) (string, error) {
	v := c.VariantFor(sess)

	clip, err := c.prepareAudio(ctx, sess)
	if err != nil {
		return "", err
	}

	c.logger.Info(ctx, "Analyzing %s audio: %s", clip.Source, clip.Path)

	report, err := c.client.GenerateFromAudio(ctx, clip.Path, clip.MIMEType, v.AnalysisPrompt)
	if err != nil {
		return "", fmt.Errorf("analyse audio: %w", err)
	}

	sess.SetAnalysisReport(report)
	c.record(ctx, sess, journal.KindAnalysis, report)

	seed := v.Seed(clip.Source == audio.SourceUploaded, report)
	if _, err := c.conversation.Send(ctx, sess, seed); err != nil {
		c.logger.Warn(ctx, "Failed to seed conversation with analysis: %v", err)
	}

	return report, nil
}

// Summarize sends the current clip with the variant's summary prompt and stores the result.
func (c *implCoach) Summarize(ctx context.Context, sess *session.Session) (string, error) {
	v := c.VariantFor(sess)

	clip, err := c.prepareAudio(ctx, sess)
	if err != nil {
		return "", err
	}

	c.logger.Info(ctx, "Summarizing %s audio: %s", clip.Source, clip.Path)

	summary, err := c.client.GenerateFromAudio(ctx, clip.Path, clip.MIMEType, v.SummaryPrompt)
	if err != nil {
		return "", fmt.Errorf("summarize audio: %w", err)
	}

	sess.SetSummary(summary)
	c.record(ctx, sess, journal.KindSummary, summary)
	return summary, nil
}

func (c *implCoach) Chat(ctx context.Context, sess *session.Session, text string) (session.Turn, error) {
	return c.conversation.Send(ctx, sess, text)
}

// Reset clears analysis, summary and conversation. Topic and audio stay.
func (c *implCoach) Reset(ctx context.Context, sess *session.Session) {
	sess.Reset()
	c.logger.Info(ctx, "Session reset")
}

func (c *implCoach) End(ctx context.Context, sess *session.Session) {
	if sess.Audio != nil {
		c.ingress.Remove(ctx, *sess.Audio)
		sess.Audio = nil
	}
	c.logger.Info(ctx, "Session ended after %d turns", len(sess.Conversation))
}

// prepareAudio converts the current clip into a format the model accepts,
// once, and keeps the converted artifact on the session.
func (c *implCoach) prepareAudio(ctx context.Context, sess *session.Session) (audio.Artifact, error) {
	if sess.Audio == nil {
		return audio.Artifact{}, ErrNoAudio
	}
	clip := *sess.Audio

	if c.transcoder == nil || !c.transcoder.NeedsTranscode(clip) {
		return clip, nil
	}

	converted, err := c.transcoder.Transcode(ctx, clip)
	if err != nil {
		return audio.Artifact{}, fmt.Errorf("prepare audio: %w", err)
	}
	sess.Audio = &converted
	return converted, nil
}

// record writes to the journal. Failures never fail the user action.
func (c *implCoach) record(ctx context.Context, sess *session.Session, kind journal.Kind, text string) {
	if c.journal == nil || text == "" {
		return
	}
	err := c.journal.Record(ctx, journal.Entry{
		SessionID: sess.ID,
		Variant:   c.VariantFor(sess).Name,
		Kind:      kind,
		Topic:     sess.Topic,
		Text:      text,
	})
	if err != nil {
		c.logger.Warn(ctx, "Failed to record %s in journal: %v", kind, err)
	}
}
