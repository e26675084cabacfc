// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ryanadelino-stack/compiler-api/internal/config"
)

// Prepared statement names.
const (
	StmtHealthCheck = "health_check"
	StmtInsertRun   = "insert_compile_run"
	StmtListRuns    = "list_compile_runs"
	StmtPruneRuns   = "prune_compile_runs"
)

// Schema creates the compile history table.
const Schema = `
CREATE TABLE IF NOT EXISTS compile_runs (
    id          UUID PRIMARY KEY,
    source      TEXT NOT NULL,
    team_name   TEXT NOT NULL DEFAULT '',
    players     INTEGER NOT NULL DEFAULT 0,
    juniors     INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    error_code  TEXT NOT NULL DEFAULT '',
    duration_ms BIGINT NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_compile_runs_created_at ON compile_runs (created_at DESC);
`

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The history table is
// created before statements are prepared on each connection.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.HistoryDSN)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if err := migrate(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

// migrate applies Schema over a single connection so the pool's
// AfterConnect hook can prepare statements against the table.
func migrate(ctx context.Context, cc *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, cc)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		StmtHealthCheck: "SELECT 1",

		StmtInsertRun: `INSERT INTO compile_runs
			(id, source, team_name, players, juniors, status, error_code, duration_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,

		StmtListRuns: `SELECT id::text, source, team_name, players, juniors, status, error_code, duration_ms, created_at
			FROM compile_runs ORDER BY created_at DESC, id LIMIT $1`,

		StmtPruneRuns: "DELETE FROM compile_runs WHERE created_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
