package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("OUTBOX_POLL_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 3*time.Second, cfg.Kafka.OutboxPollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Ledger.BalanceCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Kafka.OutboxPollInterval)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("garbage", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
