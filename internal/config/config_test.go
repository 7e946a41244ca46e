package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, -180, cfg.BusinessOffsetMinutes)
	assert.Equal(t, "client", cfg.AvailabilitySource)
	assert.Equal(t, 7, cfg.PrefetchDays)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
}

func TestFromViper_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("BUSINESS_UTC_OFFSET_MINUTES", "-240")
	t.Setenv("AVAILABILITY_SOURCE", "server")
	t.Setenv("API_RATE_PER_SECOND", "2.5")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, -240, cfg.BusinessOffsetMinutes)
	assert.Equal(t, "server", cfg.AvailabilitySource)
	assert.InDelta(t, 2.5, cfg.APIRatePerSecond, 0.0001)
}

func TestFromViper_RequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := FromViper(viper.New())
	assert.ErrorContains(t, err, "API_BASE_URL")
}

func TestFromViper_RequiresFrontEnd(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("HTTP_ADDR", "")

	_, err := FromViper(viper.New())
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN or HTTP_ADDR")
}

func TestFromViper_RejectsZeroSweepInterval(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("SESSION_SWEEP_INTERVAL", "0s")

	_, err := FromViper(viper.New())
	assert.ErrorContains(t, err, "SESSION_SWEEP_INTERVAL")
}

func TestValidate_Durations(t *testing.T) {
	cfg := &Config{
		APIBaseURL:           "http://x",
		TelegramToken:        "123:abc",
		PrefetchDays:         7,
		APITimeout:           time.Second,
		SessionIdleTTL:       time.Minute,
		SessionSweepInterval: time.Minute,
	}
	require.NoError(t, cfg.Validate())

	cfg.SessionIdleTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "SESSION_IDLE_TTL")

	cfg.SessionIdleTTL = time.Minute
	cfg.APITimeout = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "API_TIMEOUT")

	// без бота интервалы сессий не используются
	cfg = &Config{APIBaseURL: "http://x", HTTPAddr: ":1", PrefetchDays: 7, APITimeout: time.Second}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PrefetchRange(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://x", HTTPAddr: ":1", PrefetchDays: 0, APITimeout: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.PrefetchDays = 7
	assert.NoError(t, cfg.Validate())
}
