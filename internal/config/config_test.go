package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/spendeats/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "spendeats", cfg.DB.DBName)
	assert.Equal(t, "0 0 1 * *", cfg.Jobs.RolloverSchedule)
	assert.Equal(t, 24*time.Hour, cfg.Redis.StateTTL)
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STATE_TTL", "90m")
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 90*time.Minute, cfg.Redis.StateTTL)
	assert.Equal(t, logger.LevelWarn, cfg.Logger.Level)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TIMEZONE", "UTC")

	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")

	t.Setenv("REDIS_DB", "0")
	t.Setenv("STATE_TTL", "a day")
	_, err = Load()
	assert.ErrorContains(t, err, "STATE_TTL")

	t.Setenv("STATE_TTL", "1h")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := &Config{StoreDriver: "sqlite"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "STORE_DRIVER")

	cfg = &Config{TelegramToken: "t", StoreDriver: StoreDriverPostgres}
	assert.ErrorContains(t, cfg.Validate(), "DB_NAME")

	cfg = &Config{TelegramToken: "t", StoreDriver: StoreDriverMemory}
	assert.NoError(t, cfg.Validate())

	cfg.Jobs.RolloverSchedule = "every month"
	assert.ErrorContains(t, cfg.Validate(), "ROLLOVER_SCHEDULE")
}

func TestDSN(t *testing.T) {
	db := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "spendeats", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=spendeats sslmode=disable", db.DSN())
}
