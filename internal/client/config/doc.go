// Package config loads runtime configuration for the TaskKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. TASKKEEPER_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   database file path
//	-s string   storage backend: sqlite or bolt
//	-i int      reminder check interval (seconds)
//	-n bool     enable reminder notifications
//	-l string   log level
//	-e string   default export directory
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "90s" or integer
// nanoseconds:
//
//	{
//	  "database_path": "taskkeeper.db",
//	  "storage_backend": "sqlite",
//	  "reminder_interval": "60s",
//	  "notifications_enabled": true,
//	  "log_level": "warn",
//	  "export_dir": "."
//	}
//
// # Environment
//
//	TASKKEEPER_DB_PATH, TASKKEEPER_STORAGE, TASKKEEPER_REMINDER_INTERVAL,
//	TASKKEEPER_NOTIFICATIONS, TASKKEEPER_LOG_LEVEL, TASKKEEPER_EXPORT_DIR
package config
