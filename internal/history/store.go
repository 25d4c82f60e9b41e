package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Kind is the store call that was logged
type Kind string

const (
	KindFind      Kind = "find"
	KindAggregate Kind = "aggregate"
)

// Entry is one logged store call. Filter state is never restored from it.
type Entry struct {
	ID           string
	Kind         Kind
	Connection   string
	Namespace    string
	Query        string // Extended JSON of the filter or pipeline
	ExecutedAt   time.Time
	Duration     time.Duration
	Rows         int64
	Success      bool
	ErrorMessage string
}

// Store persists the query log in SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the log at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add logs a call and returns its id
func (s *Store) Add(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_log
		(id, kind, connection, namespace, query, executed_at, duration_ms, rows_returned, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		string(e.Kind),
		e.Connection,
		e.Namespace,
		e.Query,
		e.ExecutedAt.UnixMilli(),
		e.Duration.Milliseconds(),
		e.Rows,
		e.Success,
		e.ErrorMessage,
	)
	if err != nil {
		return "", fmt.Errorf("failed to add history entry: %w", err)
	}
	return e.ID, nil
}

const selectColumns = `
	SELECT id, kind, connection, namespace, query, executed_at,
	       duration_ms, rows_returned, success, error_message
	FROM query_log`

// GetRecent returns the most recent entries, newest first
func (s *Store) GetRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		ORDER BY executed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return scanEntries(rows)
}

// Search returns entries whose query or namespace contains text
func (s *Store) Search(ctx context.Context, text string, limit int) ([]Entry, error) {
	pattern := "%" + text + "%"
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE query LIKE ? OR namespace LIKE ?
		ORDER BY executed_at DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return scanEntries(rows)
}

// Prune keeps the newest max entries and returns how many were deleted
func (s *Store) Prune(ctx context.Context, max int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM query_log
		WHERE id NOT IN (
			SELECT id FROM query_log ORDER BY executed_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			kind       string
			executedAt int64
			durationMs int64
		)
		if err := rows.Scan(
			&e.ID,
			&kind,
			&e.Connection,
			&e.Namespace,
			&e.Query,
			&executedAt,
			&durationMs,
			&e.Rows,
			&e.Success,
			&e.ErrorMessage,
		); err != nil {
			return nil, err
		}

		e.Kind = Kind(kind)
		e.ExecutedAt = time.UnixMilli(executedAt)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
