package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
)

// exportFileName is the default export name for account.
func exportFileName(account string) string {
	if account == "" {
		account = "tasks"
	}
	return account + "-tasks.json"
}

// Export writes every task of the account as a JSON array. Without a path
// the file goes to the configured export directory.
func (a *App) Export(_ context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		dir, err := filex.EnsureDir(a.config.ExportDir)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, exportFileName(a.taskService.Account()))
	}

	data, err := a.taskService.ExportJSON()
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, data); err != nil {
		return err
	}

	n := len(a.taskService.ExportAll())
	a.printf("Exported %d %s to %s\n", n, plural(n, "task", "tasks"), path)
	return nil
}

// Import appends the tasks of a JSON export to the account.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: import <path>", common.ErrInvalidInput)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	n, err := a.taskService.ImportJSON(ctx, data)
	if err != nil {
		return err
	}
	a.lastView = nil
	a.printf("Imported %d %s.\n", n, plural(n, "task", "tasks"))
	return nil
}

// Notifications switches reminder alerts on or off, or reports their state.
func (a *App) Notifications(_ context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "on":
			a.scheduler.SetEnabled(true)
		case "off":
			a.scheduler.SetEnabled(false)
		default:
			return fmt.Errorf("%w: usage: notify on|off", common.ErrInvalidInput)
		}
	}

	state := "off"
	if a.scheduler.Enabled() {
		state = "on"
	}
	a.printf("Reminders are %s.\n", state)
	return nil
}
