// Package maintenance runs periodic background tasks as Go tickers: compile
// history retention and output cache eviction.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PruneInterval time.Duration // Compile history retention
	EvictInterval time.Duration // Expired cache entries
	Retention     time.Duration // Age after which runs are deleted; zero keeps all
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PruneInterval: 30 * time.Minute,
		EvictInterval: 5 * time.Minute,
		Retention:     30 * 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, store history.Store, c *cache.Cache, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"prune", cfg.PruneInterval,
		"evict", cfg.EvictInterval,
		"retention", cfg.Retention)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.PruneInterval > 0 && cfg.Retention > 0 && store != nil {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { prune(ctx, store, cfg.Retention, time.Now(), logger) })
	}

	if cfg.EvictInterval > 0 && c != nil && c.Enabled() {
		t := time.NewTicker(cfg.EvictInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { evict(c, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// prune deletes compile runs older than the retention window.
func prune(ctx context.Context, store history.Store, retention time.Duration, now time.Time, logger *slog.Logger) {
	n, err := store.Prune(ctx, now.Add(-retention))
	if err != nil {
		logger.Warn("Prune: failed to delete old compile runs", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Prune: deleted old compile runs", "count", n)
	}
}

func evict(c *cache.Cache, logger *slog.Logger) {
	if n := c.Evict(); n > 0 {
		logger.Debug("Evicted expired cache entries", "count", n)
	}
}
