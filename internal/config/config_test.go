package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "ORS_API_KEY", "ORS_RATE_PER_SECOND",
		"REDIS_URL", "REDIS_TTL", "HOS_RULES_PATH", "LOG_LEVEL", "CORS_ORIGINS", "LOOKUP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, db.SQLite, cfg.DBDriver)
	assert.Equal(t, "data/app.db", cfg.DSN())
	assert.Empty(t, cfg.ORSAPIKey)
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/trips")
	t.Setenv("LOOKUP_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("ORS_API_KEY", "  key  ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, db.Postgres, cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/trips", cfg.DSN())
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "key", cfg.ORSAPIKey)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("TRIP_TEST_KEY", "")
	assert.Equal(t, "fallback", Get("TRIP_TEST_KEY", "fallback"))

	t.Setenv("TRIP_TEST_KEY", "value")
	assert.Equal(t, "value", Get("TRIP_TEST_KEY", "fallback"))
}

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		rules, err := LoadRules("")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRules(), rules)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		rules, err := LoadRules(writeRules(t, ""))
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRules(), rules)
	})

	t.Run("overlays provided keys", func(t *testing.T) {
		rules, err := LoadRules(writeRules(t, "max_cycle_on_duty: 60\ncycle_days: 7\naverage_speed_mph: 50\n"))
		require.NoError(t, err)

		want := domain.DefaultRules()
		want.MaxCycleOnDuty = 60
		want.CycleDays = 7
		want.AverageSpeedMPH = 50
		assert.Equal(t, want, rules)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := LoadRules(writeRules(t, "max_daily_drving: 10\n"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid rule sets", func(t *testing.T) {
		_, err := LoadRules(writeRules(t, "average_speed_mph: 0\n"))
		assert.ErrorIs(t, err, domain.ErrInvalidRuleSet)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
