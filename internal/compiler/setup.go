package compiler

import (
	"fmt"
	"log/slog"

	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/guard"
	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
)

// FromConfig builds a Compiler from loaded configuration. MAPPING_FILE and
// ALIAS_FILE, when set, replace the embedded tables.
func FromConfig(cfg *config.Config, log *slog.Logger) (*Compiler, *lookup.Tables, error) {
	tables := lookup.Default()
	if cfg.MappingFile != "" {
		t, err := lookup.Load(cfg.MappingFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load mapping file: %w", err)
		}
		tables = t
	}

	aliases := schema.Default()
	if cfg.AliasFile != "" {
		a, err := schema.LoadAliases(cfg.AliasFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load alias file: %w", err)
		}
		aliases = a
	}

	c := New(Options{
		Logger:   log,
		Guard:    guard.New(nil, cfg.GuardLimits),
		Aliases:  aliases,
		Tables:   tables,
		TeamSUID: cfg.TeamClassSUID,
	})
	return c, tables, nil
}
