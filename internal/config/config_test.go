package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "session_safety", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)

	assert.Equal(t, ":8085", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:8090", cfg.ASR.BaseURL)

	assert.Equal(t, "", cfg.Safety.LexiconPath)
	assert.Equal(t, "session-safety:risk-events", cfg.Safety.RiskStream)
	assert.Equal(t, 24, cfg.Safety.FeedWindowHours)
	assert.Equal(t, 10, cfg.Safety.FeedRecentLimit)
	assert.Equal(t, 5, cfg.Safety.PollInterval)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_PORT", "15432")
	os.Setenv("REDIS_ENABLED", "false")
	os.Setenv("LEXICON_PATH", "/etc/safety/lexicon.yaml")
	os.Setenv("FEED_WINDOW_HOURS", "48")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 15432, cfg.Database.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/etc/safety/lexicon.yaml", cfg.Safety.LexiconPath)
	assert.Equal(t, 48, cfg.Safety.FeedWindowHours)
	assert.Equal(t, "debug", cfg.Log.Level)

	os.Clearenv()
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "session_safety", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=session_safety sslmode=disable", cfg.GetDSN())
}

func TestGetEnvInt_Invalid(t *testing.T) {
	os.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))
	os.Unsetenv("TEST_INT")
}
