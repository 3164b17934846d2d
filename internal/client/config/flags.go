package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   database file path
//	-s string   storage backend: sqlite or bolt
//	-i int      reminder check interval in seconds
//	-n bool     enable reminder notifications
//	-l string   log level
//	-e string   default export directory
//
// os.Args is filtered with flagx.FilterArgs first so the config file flags
// (-c, -config) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-i", "-n", "-l", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database file path")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (sqlite or bolt)")
	interval := fs.Int("i", int(cfg.ReminderInterval.Seconds()), "reminder check interval (in seconds)")
	fs.BoolVar(&cfg.NotificationsEnabled, "n", cfg.NotificationsEnabled, "enable reminder notifications")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "default export directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -i counts whole seconds, so apply it only when given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.ReminderInterval = time.Duration(*interval) * time.Second
		}
	})
}
