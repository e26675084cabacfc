package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"API_PORT", "PORT", "HISTORY_DRIVER", "HISTORY_DSN", "DATABASE_URL", "TEAM_CLASS_SUID", "GUARD_MAX_DEPTH", "HISTORY_RETENTION_DAYS", "MAINTENANCE_INTERVAL_MINUTES", "CACHE_TTL_MINUTES", "MAX_UPLOAD_MB", "ENVIRONMENT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, guard.DefaultLimits(), cfg.GuardLimits)
	assert.Equal(t, schema.DefaultTeamSUID, cfg.TeamClassSUID)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Empty(t, cfg.HistoryDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, 30*time.Minute, cfg.MaintenanceInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("API_PORT", "")
	t.Setenv("GUARD_MAX_DEPTH", "7")
	t.Setenv("TEAM_CLASS_SUID", "-1234567890123")
	t.Setenv("HISTORY_DRIVER", "SQLite")
	t.Setenv("HISTORY_DSN", "file:history.db")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, 7, cfg.GuardLimits.MaxDepth)
	assert.Equal(t, int64(-1234567890123), cfg.TeamClassSUID)
	assert.Equal(t, HistorySQLite, cfg.HistoryDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsBadHistory(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HISTORY_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "HISTORY_DRIVER")

	t.Setenv("HISTORY_DRIVER", "postgres")
	t.Setenv("HISTORY_DSN", "")
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "HISTORY_DSN")
}
