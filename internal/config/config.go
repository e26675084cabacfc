// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/compiler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
)

// --------------------------------------------------------------------------
// History drivers
// --------------------------------------------------------------------------

const (
	HistoryPostgres = "postgres"
	HistorySQLite   = "sqlite"
)

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Output cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Loader guard
	GuardLimits guard.Limits
	MaxUploadMB int

	// Save format
	TeamClassSUID int64
	MappingFile   string
	AliasFile     string

	// Compile history
	HistoryDriver  string // postgres, sqlite or empty
	HistoryDSN     string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Maintenance
	HistoryRetention    time.Duration // zero keeps every run
	MaintenanceInterval time.Duration

	// CLI
	RosterCacheDir string
	BatchWorkers   int

	MetricsEnabled bool
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first when
// present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8080)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_MINUTES", 10)) * time.Minute,

		GuardLimits: guard.Limits{
			MaxDepth: envInt("GUARD_MAX_DEPTH", guard.DefaultLimits().MaxDepth),
			MaxRefs:  envInt("GUARD_MAX_REFS", guard.DefaultLimits().MaxRefs),
			MaxBytes: envInt64("GUARD_MAX_BYTES", guard.DefaultLimits().MaxBytes),
		},
		MaxUploadMB: envInt("MAX_UPLOAD_MB", 10),

		TeamClassSUID: envInt64("TEAM_CLASS_SUID", schema.DefaultTeamSUID),
		MappingFile:   envOr("MAPPING_FILE", ""),
		AliasFile:     envOr("ALIAS_FILE", ""),

		HistoryDriver:  strings.ToLower(envOr("HISTORY_DRIVER", "")),
		HistoryDSN:     envOr("HISTORY_DSN", envOr("DATABASE_URL", "")),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		HistoryRetention:    time.Duration(envInt("HISTORY_RETENTION_DAYS", 30)) * 24 * time.Hour,
		MaintenanceInterval: time.Duration(envInt("MAINTENANCE_INTERVAL_MINUTES", 30)) * time.Minute,

		RosterCacheDir: envOr("ROSTER_CACHE_DIR", "cache/transfermarkt"),
		BatchWorkers:   envInt("BATCH_WORKERS", 4),

		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.HistoryDriver {
	case "", HistoryPostgres, HistorySQLite:
	default:
		return fmt.Errorf("HISTORY_DRIVER must be %q, %q or empty, got %q", HistoryPostgres, HistorySQLite, c.HistoryDriver)
	}
	if c.HistoryDriver != "" && c.HistoryDSN == "" {
		return fmt.Errorf("HISTORY_DSN must be set when HISTORY_DRIVER=%s", c.HistoryDriver)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the request body ceiling for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
