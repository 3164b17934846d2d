package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("TASKKEEPER_DB_PATH", "/tmp/tk.bolt")
	t.Setenv("TASKKEEPER_STORAGE", "bolt")
	t.Setenv("TASKKEEPER_REMINDER_INTERVAL", "90s")
	t.Setenv("TASKKEEPER_NOTIFICATIONS", "false")

	cfg := defaults()
	parseEnv(cfg)

	assert.Equal(t, "/tmp/tk.bolt", cfg.DatabasePath)
	assert.Equal(t, "bolt", cfg.StorageBackend)
	assert.Equal(t, 90*time.Second, cfg.ReminderInterval)
	assert.False(t, cfg.NotificationsEnabled)
	assert.Equal(t, "warn", cfg.LogLevel, "unset variables keep their value")
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Setenv("TASKKEEPER_REMINDER_INTERVAL", "soon")

	require.Panics(t, func() { parseEnv(defaults()) })
}
