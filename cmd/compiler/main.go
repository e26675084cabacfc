// Command compiler is the roster compiler CLI.
//
// Usage:
//
//	roster-compiler compile --in palmeiras.json --template base.ban --out palmeiras.ban
//	roster-compiler compile --team-url https://www.transfermarkt.com.br/se-palmeiras/kader/verein/1023/saison_id/2025
//	roster-compiler batch --in-dir rosters --out-dir saves --workers 4
//	roster-compiler inspect palmeiras.ban --dump
//	roster-compiler identity https://www.transfermarkt.com.br/se-palmeiras/kader/verein/1023/saison_id/2025
//	roster-compiler history --limit 20
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "roster-compiler",
		Short:         "Compile JSON rosters into team saves",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(compileCmd())
	root.AddCommand(batchCmd())
	root.AddCommand(inspectCmd())
	root.AddCommand(identityCmd())
	root.AddCommand(historyCmd())
	return root
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// env carries what every subcommand needs.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	comp    *compiler.Compiler
	history history.Store
	out     io.Writer
}

// run handles config loading, compiler setup, the history store and
// context cancellation.
func run(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	// Logs go to stderr so command output can be piped.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	comp, _, err := compiler.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	store, err := history.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open compile history: %w", err)
	}
	defer store.Close()

	return fn(ctx, &env{
		cfg:     cfg,
		log:     logger,
		comp:    comp,
		history: store,
		out:     cmd.OutOrStdout(),
	})
}

func (e *env) record(ctx context.Context, run history.Run) {
	if err := e.history.Record(ctx, run); err != nil {
		e.log.Warn("Failed to record compile run", "run_id", run.ID, "error", err)
	}
}

// optionalInt turns an unset flag into nil.
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
