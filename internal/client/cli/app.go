package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/notify"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type App struct {
	config      *config.Config
	store       kv.Store
	authService services.AuthService
	taskService services.TaskService
	scheduler   *services.ReminderScheduler
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	// lastView holds the ids of the most recent listing so commands can
	// refer to tasks by their position in it.
	lastView []string
}

// NewApp opens the configured store and wires the services on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	dir, err := filex.EnsureDir(filepath.Dir(c.DatabasePath))
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, c.StorageBackend, filepath.Join(dir, filepath.Base(c.DatabasePath)))
	if err != nil {
		logger.Error(ctx, "error initializing storage", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	ts := services.NewTaskService(tasks.NewKVRepository(store), logger.With("component", "tasks"))
	as := services.NewAuthService(accounts.NewKVRepository(store), logger.With("component", "auth"), services.WithSessionListener(ts.Load))

	remLog := logger.With("component", "reminders")
	notifier := notify.Multi{notify.NewWriterNotifier(os.Stdout), notify.NewLogNotifier(remLog)}
	sched := services.NewReminderScheduler(ts, notifier, remLog, services.WithInterval(c.ReminderInterval))
	sched.SetEnabled(c.NotificationsEnabled)

	a := newApp(as, ts, sched, bufio.NewReader(os.Stdin), os.Stdout, logger)
	a.config = c
	a.store = store
	return a, nil
}

func newApp(as services.AuthService, ts services.TaskService, sched *services.ReminderScheduler, r *bufio.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		config:      &config.Config{},
		authService: as,
		taskService: ts,
		scheduler:   sched,
		logger:      logger,
		reader:      r,
		out:         out,
	}
}

// Run resumes a persisted session, starts the reminder loop and serves the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to TaskKeeper (type 'help' for commands)")

	acc, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}
	if acc != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", acc.Name, acc.Email)
	}

	go a.scheduler.Run(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close releases the underlying store.
func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentAccount() != nil
}

func (a *App) getStatus() string {
	acc := a.authService.CurrentAccount()
	if acc == nil {
		return ""
	}
	return acc.Email
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

// remember records the ids of a listing for positional references.
func (a *App) remember(list []models.Task) {
	a.lastView = a.lastView[:0]
	for _, t := range list {
		a.lastView = append(a.lastView, t.ID)
	}
}
