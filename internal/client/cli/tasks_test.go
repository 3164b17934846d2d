package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// add creates a task through the interactive prompts.
func add(t *testing.T, a *App, title, details, due, prio, reminder string) {
	t.Helper()
	lines := []string{title}
	if details != "" {
		lines = append(lines, details)
	}
	lines = append(lines, "", due, prio, reminder)
	feed(a, strings.Join(lines, "\n")+"\n")
	require.NoError(t, a.Add(context.Background()))
}

func listTitles(a *App) []string {
	var out []string
	for _, task := range a.taskService.ExportAll() {
		out = append(out, task.Title)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")

	add(t, a, "Buy milk", "2 liters", "2030-01-02 10:00", "high", "30")
	add(t, a, "Call mom", "", "", "", "")
	assert.Contains(t, out.String(), `Added "Buy milk"`)

	stored := a.taskService.ExportAll()
	require.Len(t, stored, 2)
	assert.Equal(t, "2 liters", stored[0].Details)
	assert.Equal(t, models.PriorityHigh, stored[0].Priority)
	require.NotNil(t, stored[0].Reminder)
	assert.Equal(t, 30, *stored[0].Reminder)
	want := time.Date(2030, 1, 2, 10, 0, 0, 0, time.Local)
	assert.True(t, want.Equal(*stored[0].Due))
	assert.Equal(t, models.PriorityMedium, stored[1].Priority)
	assert.Nil(t, stored[1].Due)

	out.Reset()
	require.NoError(t, a.List(context.Background(), nil))
	assert.Equal(t,
		" 1. [ ] Buy milk  (high, due Wed Jan 2 2030 10:00, remind 30 min before)\n"+
			"      2 liters\n"+
			" 2. [ ] Call mom  (medium)\n",
		out.String())
}

func TestAdd_InvalidInput(t *testing.T) {
	a, _ := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()

	feed(a, "x\n\nsoon\n\n\n")
	require.ErrorIs(t, a.Add(ctx), common.ErrValidation)

	feed(a, "x\n\n\nurgent\n\n")
	require.ErrorIs(t, a.Add(ctx), common.ErrValidation)

	feed(a, "x\n\n\n\n-5\n")
	require.ErrorIs(t, a.Add(ctx), common.ErrValidation)

	feed(a, "   \n\n\n\n\n")
	require.ErrorIs(t, a.Add(ctx), common.ErrValidation)

	assert.Empty(t, a.taskService.ExportAll())
}

func TestList_FiltersAndPositions(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()

	add(t, a, "Write report", "", "2030-01-05 09:00", "", "")
	add(t, a, "Pay rent", "", "2030-01-01 09:00", "", "")
	add(t, a, "Read book", "", "", "", "")

	require.NoError(t, a.List(ctx, []string{"--sort"}))
	require.NoError(t, a.Toggle(ctx, []string{"1"}))
	assert.Contains(t, out.String(), `Completed "Pay rent"`)

	out.Reset()
	require.NoError(t, a.List(ctx, []string{"--completed"}))
	assert.Equal(t, " 1. [x] Pay rent  (medium, due Tue Jan 1 2030 09:00)\n", out.String())

	out.Reset()
	require.NoError(t, a.List(ctx, []string{"--active", "REPORT"}))
	assert.Equal(t, " 1. [ ] Write report  (medium, due Sat Jan 5 2030 09:00)\n", out.String())

	out.Reset()
	require.NoError(t, a.List(ctx, []string{"nothing-matches"}))
	assert.Equal(t, "No tasks.\n", out.String())

	require.ErrorIs(t, a.Toggle(ctx, []string{"9"}), common.ErrNotFound)
	require.ErrorIs(t, a.Toggle(ctx, nil), common.ErrInvalidInput)
}

func TestToggle_ReopensAndAcceptsIDs(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	add(t, a, "x", "", "", "", "")
	id := a.taskService.ExportAll()[0].ID

	require.NoError(t, a.Toggle(ctx, []string{id}))
	require.NoError(t, a.Toggle(ctx, []string{id}))
	assert.Contains(t, out.String(), `Reopened "x"`)
	assert.False(t, a.taskService.ExportAll()[0].Completed)

	require.ErrorIs(t, a.Toggle(ctx, []string{"no-such-id"}), common.ErrNotFound)
}

func TestMove(t *testing.T) {
	a, _ := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		add(t, a, title, "", "", "", "")
	}

	require.NoError(t, a.List(ctx, nil))
	require.NoError(t, a.Move(ctx, []string{"3", "1"}))
	assert.Equal(t, []string{"c", "a", "b"}, listTitles(a))

	// positions fall back to stored order once the listing is stale
	require.NoError(t, a.Move(ctx, []string{"1"}))
	assert.Equal(t, []string{"a", "b", "c"}, listTitles(a))
}

func TestEdit(t *testing.T) {
	a, _ := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	add(t, a, "draft", "notes", "2030-01-02 10:00", "low", "5")

	// title, details, due, priority, reminder
	feed(a, "final\n-\n-\nhigh\n\n")
	require.NoError(t, a.Edit(ctx, []string{"1"}))

	got := a.taskService.ExportAll()[0]
	assert.Equal(t, "final", got.Title)
	assert.Empty(t, got.Details)
	assert.Nil(t, got.Due)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	require.NotNil(t, got.Reminder)
	assert.Equal(t, 5, *got.Reminder)

	feed(a, "\n\n2031-06-01 08:30\n\n-\n")
	require.NoError(t, a.Edit(ctx, []string{"1"}))
	got = a.taskService.ExportAll()[0]
	assert.Equal(t, "final", got.Title)
	assert.True(t, time.Date(2031, 6, 1, 8, 30, 0, 0, time.Local).Equal(*got.Due))
	assert.Nil(t, got.Reminder)

	feed(a, "\n\n\nextreme\n\n")
	require.ErrorIs(t, a.Edit(ctx, []string{"1"}), common.ErrValidation)
}

func TestDelete_AsksForConfirmation(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	add(t, a, "keep", "", "", "", "")
	add(t, a, "drop", "", "", "", "")

	feed(a, "n\n")
	require.NoError(t, a.Delete(ctx, []string{"2"}))
	assert.Contains(t, out.String(), "Cancelled.")
	assert.Equal(t, []string{"keep", "drop"}, listTitles(a))

	feed(a, "y\n")
	require.NoError(t, a.Delete(ctx, []string{"2"}))
	assert.Contains(t, out.String(), `Delete "drop"? [y/N]`)
	assert.Equal(t, []string{"keep"}, listTitles(a))
}

func TestClearCompleted(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	add(t, a, "a", "", "", "", "")
	add(t, a, "b", "", "", "", "")
	require.NoError(t, a.Toggle(ctx, []string{"1"}))

	feed(a, "\n")
	require.NoError(t, a.ClearCompleted(ctx))
	assert.Len(t, listTitles(a), 2)

	feed(a, "yes\n")
	require.NoError(t, a.ClearCompleted(ctx))
	assert.Contains(t, out.String(), "Removed 1 completed task.")
	assert.Equal(t, []string{"b"}, listTitles(a))
}

func TestUpcoming(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()

	require.NoError(t, a.Upcoming(ctx))
	assert.Contains(t, out.String(), "Nothing upcoming.")

	add(t, a, "later", "", "2099-01-02 10:00", "", "")
	add(t, a, "sooner", "", "2098-01-02 10:00", "", "")
	add(t, a, "undated", "", "", "", "")

	out.Reset()
	require.NoError(t, a.Upcoming(ctx))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], " 1. sooner, due "))
	assert.Contains(t, lines[0], "from now")
	assert.True(t, strings.HasPrefix(lines[1], " 2. later, due "))
}

func TestExportImport(t *testing.T) {
	a, out := newTestApp(t)
	signup(t, a, "Ann", "ann@x")
	ctx := context.Background()
	add(t, a, "one", "", "2030-01-02 10:00", "", "")
	add(t, a, "two", "", "", "", "")

	require.NoError(t, a.Export(ctx, nil))
	path := filepath.Join(a.config.ExportDir, "ann@x-tasks.json")
	assert.Contains(t, out.String(), "Exported 2 tasks to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "one"`)

	signup(t, a, "Bob", "bob@x")
	assert.Empty(t, listTitles(a))

	require.NoError(t, a.Import(ctx, []string{path}))
	assert.Contains(t, out.String(), "Imported 2 tasks.")
	assert.Equal(t, []string{"one", "two"}, listTitles(a))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"title":"x"}`), 0o600))
	require.ErrorIs(t, a.Import(ctx, []string{bad}), common.ErrImport)
	require.ErrorIs(t, a.Import(ctx, nil), common.ErrInvalidInput)
	require.Error(t, a.Import(ctx, []string{filepath.Join(t.TempDir(), "missing.json")}))
	assert.Len(t, listTitles(a), 2)

	explicit := filepath.Join(t.TempDir(), "out", "mine.json")
	require.NoError(t, a.Export(ctx, []string{explicit}))
	assert.FileExists(t, explicit)
}

func TestNotifications(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Notifications(ctx, []string{"off"}))
	assert.False(t, a.scheduler.Enabled())
	require.NoError(t, a.Notifications(ctx, []string{"on"}))
	assert.True(t, a.scheduler.Enabled())
	require.NoError(t, a.Notifications(ctx, nil))
	assert.Equal(t, "Reminders are off.\nReminders are on.\nReminders are on.\n", out.String())

	require.ErrorIs(t, a.Notifications(ctx, []string{"maybe"}), common.ErrInvalidInput)
}
