package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("loads file and fills defaults", func(t *testing.T) {
		path := writeConfig(t, `
mode: test
port: 9090
time_zone: UTC
mongodb:
  host: mongo
  db: billing
`)
		cfg, err := NewConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.Mode)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "mongo", cfg.MongodbConfig.Host)
		assert.Equal(t, 20, cfg.BillingConfig.PendingThresholdDay)
		assert.Equal(t, "200", cfg.BillingConfig.DefaultRates.InternetPerDevice)
		assert.Equal(t, "billing_events", cfg.RabbitMQConfig.BillingEventTopic)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "time_zone: UTC\nport: 9090\n")
		t.Setenv("PORT", "7070")

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Port)
	})

	t.Run("rejects threshold day outside 1-32", func(t *testing.T) {
		path := writeConfig(t, "time_zone: UTC\nbilling:\n  pending_threshold_day: 40\n")

		_, err := NewConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pending_threshold_day")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
