package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record inserts e, filling ID and CreatedAt when unset.
func (j *sqliteJournal) Record(ctx context.Context, e Entry) error {
	if e.Text == "" {
		return fmt.Errorf("journal entry has no text")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, session_id, variant, kind, topic, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Variant, string(e.Kind), e.Topic, e.Text, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	j.logger.Debug(ctx, "Journal entry %s recorded (%s)", e.ID, e.Kind)
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *sqliteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session_id, variant, kind, topic, text, created_at
		FROM journal_entries
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	return scanEntries(rows)
}

// BySession returns the entries of one session in the order they were recorded.
func (j *sqliteJournal) BySession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session_id, variant, kind, topic, text, created_at
		FROM journal_entries
		WHERE session_id = ?
		ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Variant, &kind, &e.Topic, &e.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.CreatedAt = time.Unix(0, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *sqliteJournal) Close() error {
	if j.db == nil {
		return nil
	}
	j.logger.Info(context.Background(), "Closing journal: %s", j.path)
	return j.db.Close()
}
