package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS compile_runs (
    id          TEXT PRIMARY KEY,
    source      TEXT NOT NULL,
    team_name   TEXT NOT NULL DEFAULT '',
    players     INTEGER NOT NULL DEFAULT 0,
    juniors     INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    error_code  TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_compile_runs_created_at ON compile_runs (created_at DESC);
`

// SQLStore keeps runs in a database/sql handle using ? placeholders.
// Timestamps are stored as unix milliseconds.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) a SQLite database at dsn and
// applies the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return NewSQLStore(db), nil
}

// NewSQLStore wraps an open handle whose schema already exists.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compile_runs
			(id, source, team_name, players, juniors, status, error_code, duration_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.TeamName, run.Players, run.Juniors,
		run.Status, run.ErrorCode, run.Duration, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert compile run: %w", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, team_name, players, juniors, status, error_code, duration_ms, created_at
			FROM compile_runs ORDER BY created_at DESC, id LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list compile runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r  Run
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.TeamName, &r.Players, &r.Juniors,
			&r.Status, &r.ErrorCode, &r.Duration, &ms); err != nil {
			return nil, fmt.Errorf("scan compile run: %w", err)
		}
		r.CreatedAt = time.UnixMilli(ms).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compile runs: %w", err)
	}
	return runs, nil
}

func (s *SQLStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM compile_runs WHERE created_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune compile runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
