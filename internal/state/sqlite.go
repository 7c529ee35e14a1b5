package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // sqlite driver
)

// ErrNotOpen is returned when the store is used before Open.
var ErrNotOpen = errors.New("database not opened")

// ErrQueryNotFound is returned by GetQuery for an unknown id.
var ErrQueryNotFound = errors.New("query not found")

// SQLiteStore keeps query history in SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
// If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path, creating its directory, and applies
// pending migrations. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(ctx context.Context, path string) error {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		q.Add("_pragma", "journal_mode(WAL)")
	}

	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return err
	}
	s.logger.Debug("opened state store", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// RecordQuery stores a query run. A missing ID is generated and a zero
// StartedAt is set to the current time.
func (s *SQLiteStore) RecordQuery(ctx context.Context, run *QueryRun) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if run.ID == "" {
		run.ID = generateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}

	s.logger.Debug("recording query", slog.String("id", run.ID), slog.String("status", string(run.Status)))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_runs (id, sql_text, dialect, page_window, shards, row_count, status, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SQL, run.Dialect, run.Window, run.Shards, run.Rows, string(run.Status), errMsg,
		run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

const queryRunColumns = `id, sql_text, dialect, page_window, shards, row_count, status, error, started_at, duration_ms`

// GetQuery retrieves a query run by ID.
func (s *SQLiteStore) GetQuery(ctx context.Context, id string) (*QueryRun, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+queryRunColumns+` FROM query_runs WHERE id = ?`, id)
	run, err := scanQueryRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get query: %w", err)
	}
	return run, nil
}

// ListQueries retrieves the most recent query runs, newest first.
func (s *SQLiteStore) ListQueries(ctx context.Context, limit int) ([]*QueryRun, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+queryRunColumns+` FROM query_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*QueryRun
	for rows.Next() {
		run, err := scanQueryRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queries: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQueryRun(sc scanner) (*QueryRun, error) {
	var (
		run        QueryRun
		status     string
		errMsg     sql.NullString
		startedAt  int64
		durationMS int64
	)
	if err := sc.Scan(&run.ID, &run.SQL, &run.Dialect, &run.Window, &run.Shards, &run.Rows,
		&status, &errMsg, &startedAt, &durationMS); err != nil {
		return nil, err
	}
	run.Status = QueryStatus(status)
	run.Error = errMsg.String
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
