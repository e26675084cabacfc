package history

import (
	"context"

	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/db"
)

// Open returns the store selected by HISTORY_DRIVER, or Nop when unset.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.HistoryDriver {
	case config.HistoryPostgres:
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPGStore(pool), nil
	case config.HistorySQLite:
		return OpenSQLite(ctx, cfg.HistoryDSN)
	default:
		return Nop{}, nil
	}
}
