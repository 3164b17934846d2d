package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" from a zero value so a partial file only overrides
// what it names.
type JsonConfig struct {
	DatabasePath         *string         `json:"database_path"`
	StorageBackend       *string         `json:"storage_backend"`
	ReminderInterval     *timex.Duration `json:"reminder_interval"`
	NotificationsEnabled *bool           `json:"notifications_enabled"`
	LogLevel             *string         `json:"log_level"`
	ExportDir            *string         `json:"export_dir"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.StorageBackend != nil {
		cfg.StorageBackend = *jc.StorageBackend
	}
	if jc.ReminderInterval != nil {
		cfg.ReminderInterval = jc.ReminderInterval.Duration
	}
	if jc.NotificationsEnabled != nil {
		cfg.NotificationsEnabled = *jc.NotificationsEnabled
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.ExportDir != nil {
		cfg.ExportDir = *jc.ExportDir
	}
}
