package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

//go:embed schema.sql
var schemaFiles embed.FS

type sqliteJournal struct {
	db     *sql.DB
	path   string
	logger logger.Logger
}

// Open opens (or creates) the SQLite journal at path and applies the schema.
// An empty path yields a journal that drops every entry.
func Open(ctx context.Context, path string, log logger.Logger) (Journal, error) {
	if path == "" {
		return nopJournal{}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under parallel sessions
	db.SetMaxOpenConns(1)

	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	schemaSQL, err := schemaFiles.ReadFile("schema.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	log.Info(ctx, "Journal opened: %s", path)
	return &sqliteJournal{db: db, path: path, logger: log}, nil
}

func configure(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute pragma %q: %w", pragma, err)
		}
	}
	return nil
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, Entry) error                { return nil }
func (nopJournal) Recent(context.Context, int) ([]Entry, error)       { return nil, nil }
func (nopJournal) BySession(context.Context, string) ([]Entry, error) { return nil, nil }
func (nopJournal) Close() error                                       { return nil }
