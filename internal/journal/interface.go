// Package journal keeps an optional on-disk log of practice results.
package journal

import (
	"context"
	"time"
)

type Kind string

const (
	KindTopic    Kind = "topic"
	KindAnalysis Kind = "analysis"
	KindSummary  Kind = "summary"
)

// Entry is one recorded result.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Variant   string    `json:"variant"`
	Kind      Kind      `json:"kind"`
	Topic     string    `json:"topic,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal records practice results and lists the most recent ones.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	BySession(ctx context.Context, sessionID string) ([]Entry, error)
	Close() error
}
