package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanadelino-stack/compiler-api/internal/db"
)

// PGStore keeps runs in Postgres through the shared pool's prepared
// statements.
type PGStore struct {
	pool *db.Pool
}

// NewPGStore wraps a pool created by db.New.
func NewPGStore(pool *db.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Record(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx, db.StmtInsertRun,
		run.ID, run.Source, run.TeamName, run.Players, run.Juniors,
		run.Status, run.ErrorCode, run.Duration, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert compile run: %w", err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, db.StmtListRuns, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list compile runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.TeamName, &r.Players, &r.Juniors,
			&r.Status, &r.ErrorCode, &r.Duration, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan compile run: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compile runs: %w", err)
	}
	return runs, nil
}

func (s *PGStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, db.StmtPruneRuns, before)
	if err != nil {
		return 0, fmt.Errorf("prune compile runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
