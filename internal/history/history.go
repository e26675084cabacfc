// Package history records one row per compile so operators can see what
// was built, from where, and whether it failed.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit bounds List when the caller passes a non-positive limit.
const DefaultLimit = 50

// MaxLimit is the largest page List returns.
const MaxLimit = 500

// Run is one recorded compile.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	TeamName  string    `json:"teamName"`
	Players   int       `json:"players"`
	Juniors   int       `json:"juniors"`
	Status    string    `json:"status"`
	ErrorCode string    `json:"errorCode,omitempty"`
	Duration  int64     `json:"durationMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRun stamps a fresh run with a random id and the current time.
func NewRun(source string) Run {
	return Run{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	// Prune deletes runs created before the cutoff and returns the count.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// Nop discards runs. It backs the service when no history driver is set.
type Nop struct{}

func (Nop) Record(context.Context, Run) error               { return nil }
func (Nop) List(context.Context, int) ([]Run, error)        { return []Run{}, nil }
func (Nop) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (Nop) Ping(context.Context) error                      { return nil }
func (Nop) Close() error                                    { return nil }
