package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dustin/go-humanize"
)

// getMultiline is swapped in tests like getSimpleText.
var getMultiline = GetMultiline

// upcomingLimit is the length of the "upcoming" list.
const upcomingLimit = 6

const dueLayout = "Mon Jan 2 2006 15:04"

// resolve turns a user reference into a task id. A number refers to a
// position in the last listing (or the stored order if nothing was listed
// yet); anything else must be a full task id.
func (a *App) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		ids := a.lastView
		if len(ids) == 0 {
			for _, t := range a.taskService.ExportAll() {
				ids = append(ids, t.ID)
			}
		}
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("task #%d: %w", n, common.ErrNotFound)
		}
		return ids[n-1], nil
	}

	t, err := a.taskService.Get(ref)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

func (a *App) resolveArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: usage: %s", common.ErrInvalidInput, usage)
	}
	return a.resolve(args[0])
}

func parsePriority(s string) (models.Priority, error) {
	if s == "" {
		return models.PriorityMedium, nil
	}
	p, err := models.ParsePriority(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return p, nil
}

func parseReminder(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: reminder must be a whole number of minutes", common.ErrValidation)
	}
	return &n, nil
}

func parseDue(s string) (*time.Time, error) {
	due, err := models.ParseDue(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return due, nil
}

// Add prompts for the fields of a new task and creates it.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	details, err := getMultiline(a.reader, "Details (optional)", a.out)
	if err != nil {
		return err
	}
	dueText, err := getSimpleText(a.reader, "Due (YYYY-MM-DD HH:MM, empty for none)", a.out)
	if err != nil {
		return err
	}
	prioText, err := getSimpleText(a.reader, "Priority (low/medium/high) [medium]", a.out)
	if err != nil {
		return err
	}
	remText, err := getSimpleText(a.reader, "Remind how many minutes before due (empty for none)", a.out)
	if err != nil {
		return err
	}

	in := models.TaskInput{Title: title, Details: details}
	if in.Due, err = parseDue(dueText); err != nil {
		return err
	}
	if in.Priority, err = parsePriority(prioText); err != nil {
		return err
	}
	if in.Reminder, err = parseReminder(remText); err != nil {
		return err
	}

	t, err := a.taskService.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Added %q\n", t.Title)
	return nil
}

// Edit prompts for new values of every field. An empty answer keeps the
// current value; "-" clears an optional one.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.resolveArg(args, "edit <task>")
	if err != nil {
		return err
	}
	cur, err := a.taskService.Get(id)
	if err != nil {
		return err
	}

	ask := func(label, current string) (string, error) {
		return getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
	}

	var patch models.TaskPatch

	title, err := ask("Title", cur.Title)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	details, err := ask("Details ('-' clears)", cur.Details)
	if err != nil {
		return err
	}
	switch details {
	case "":
	case "-":
		patch.Details = new(string)
	default:
		patch.Details = &details
	}

	dueText, err := ask("Due ('-' clears)", formatDue(cur.Due))
	if err != nil {
		return err
	}
	switch dueText {
	case "":
	case "-":
		patch.ClearDue = true
	default:
		if patch.Due, err = parseDue(dueText); err != nil {
			return err
		}
	}

	prioText, err := ask("Priority", string(cur.Priority))
	if err != nil {
		return err
	}
	if prioText != "" {
		p, err := parsePriority(prioText)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}

	remText, err := ask("Reminder minutes ('-' clears)", formatReminder(cur.Reminder))
	if err != nil {
		return err
	}
	switch remText {
	case "":
	case "-":
		patch.ClearReminder = true
	default:
		if patch.Reminder, err = parseReminder(remText); err != nil {
			return err
		}
	}

	if err := a.taskService.Update(ctx, id, patch); err != nil {
		return err
	}
	a.println("Saved.")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveArg(args, "delete <task>")
	if err != nil {
		return err
	}
	t, err := a.taskService.Get(id)
	if err != nil {
		return err
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete %q?", t.Title), a.out) {
		a.println("Cancelled.")
		return nil
	}
	if err := a.taskService.Delete(ctx, id); err != nil {
		return err
	}
	a.lastView = nil
	a.printf("Deleted %q\n", t.Title)
	return nil
}

// Toggle flips the completion state of a task.
func (a *App) Toggle(ctx context.Context, args []string) error {
	id, err := a.resolveArg(args, "done <task>")
	if err != nil {
		return err
	}
	if err := a.taskService.ToggleCompleted(ctx, id); err != nil {
		return err
	}
	t, err := a.taskService.Get(id)
	if err != nil {
		return err
	}
	if t.Completed {
		a.printf("Completed %q\n", t.Title)
	} else {
		a.printf("Reopened %q\n", t.Title)
	}
	return nil
}

// Move places a task right before another one, or at the end of the list
// when no target is given.
func (a *App) Move(ctx context.Context, args []string) error {
	id, err := a.resolveArg(args, "move <task> [<before-task>]")
	if err != nil {
		return err
	}
	before := ""
	if len(args) > 1 {
		if before, err = a.resolve(args[1]); err != nil {
			return err
		}
	}
	if err := a.taskService.Reorder(ctx, id, before); err != nil {
		return err
	}
	a.lastView = nil
	a.println("Moved.")
	return nil
}

// List prints the filtered view. Flags --active, --completed and --sort may
// be mixed with search words in any order.
func (a *App) List(_ context.Context, args []string) error {
	q := models.ViewQuery{Status: models.StatusAll}
	var words []string
	for _, arg := range args {
		switch arg {
		case "--active":
			q.Status = models.StatusActive
		case "--completed":
			q.Status = models.StatusCompleted
		case "--all":
			q.Status = models.StatusAll
		case "--sort":
			q.SortByDue = true
		default:
			words = append(words, arg)
		}
	}
	q.Search = strings.Join(words, " ")

	list := a.taskService.View(q)
	a.remember(list)
	if len(list) == 0 {
		a.println("No tasks.")
		return nil
	}
	for i, t := range list {
		a.println(formatTask(i+1, t))
	}
	return nil
}

// Upcoming prints the next open tasks with a due date, soonest first.
func (a *App) Upcoming(context.Context) error {
	list := a.taskService.Upcoming(upcomingLimit)
	a.remember(list)
	if len(list) == 0 {
		a.println("Nothing upcoming.")
		return nil
	}
	now := time.Now()
	for i, t := range list {
		a.printf("%2d. %s, due %s (%s)\n", i+1, t.Title, formatDue(t.Due), humanize.RelTime(*t.Due, now, "ago", "from now"))
	}
	return nil
}

func (a *App) ClearCompleted(ctx context.Context) error {
	if !Confirm(a.reader, "Remove all completed tasks?", a.out) {
		a.println("Cancelled.")
		return nil
	}
	n, err := a.taskService.ClearCompleted(ctx)
	if err != nil {
		return err
	}
	a.lastView = nil
	a.printf("Removed %d completed %s.\n", n, plural(n, "task", "tasks"))
	return nil
}

func formatTask(pos int, t models.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%2d. [%s] %s  (%s", pos, mark, t.Title, t.Priority)
	if t.Due != nil {
		fmt.Fprintf(&b, ", due %s", formatDue(t.Due))
	}
	if t.Reminder != nil {
		fmt.Fprintf(&b, ", remind %d min before", *t.Reminder)
	}
	b.WriteString(")")
	for _, line := range strings.Split(t.Details, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.WriteString("\n      " + line)
		}
	}
	return b.String()
}

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.In(time.Local).Format(dueLayout)
}

func formatReminder(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
