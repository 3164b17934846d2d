package config

import "time"

// Config holds runtime settings for the TaskKeeper CLI.
//
// Fields:
//   - DatabasePath: file holding accounts, session and tasks.
//   - StorageBackend: "sqlite" (default) or "bolt".
//   - ReminderInterval: how often due reminders are looked for.
//   - NotificationsEnabled: whether reminders fire at startup.
//   - LogLevel: debug, info, warn or error.
//   - ExportDir: where "export" writes when no path is given.
type Config struct {
	DatabasePath         string        `env:"TASKKEEPER_DB_PATH"`
	StorageBackend       string        `env:"TASKKEEPER_STORAGE"`
	ReminderInterval     time.Duration `env:"TASKKEEPER_REMINDER_INTERVAL"`
	NotificationsEnabled bool          `env:"TASKKEEPER_NOTIFICATIONS"`
	LogLevel             string        `env:"TASKKEEPER_LOG_LEVEL"`
	ExportDir            string        `env:"TASKKEEPER_EXPORT_DIR"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "taskkeeper.db"
	c.StorageBackend = "sqlite"
	c.ReminderInterval = time.Minute
	c.NotificationsEnabled = true
	c.LogLevel = "warn"
	c.ExportDir = "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
