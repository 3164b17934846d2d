// Package notify delivers reminder alerts to the user.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dustin/go-humanize"
)

// Notifier shows an alert. Delivery is best effort; implementations never
// report failures back to the caller.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}

// FormatReminder renders the alert for task as seen at now.
func FormatReminder(task models.Task, now time.Time) (title, body string) {
	title = "Reminder: " + task.Title
	if task.Due == nil {
		return title, ""
	}
	due := task.Due.In(time.Local)
	body = fmt.Sprintf("due %s (%s)", due.Format("Mon Jan 2 15:04"), humanize.RelTime(*task.Due, now, "ago", "from now"))
	return title, body
}

// WriterNotifier prints alerts to a terminal or any other writer.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if body == "" {
		_, _ = fmt.Fprintf(n.w, "\n%s\n", title)
		return
	}
	_, _ = fmt.Fprintf(n.w, "\n%s\n   %s\n", title, body)
}

// LogNotifier records alerts through the structured logger.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, title, body string) {
	n.logger.Info(ctx, "reminder", "title", title, "body", body)
}

// Multi fans an alert out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, body string) {
	for _, n := range m {
		n.Notify(ctx, title, body)
	}
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, title, body string)

func (f Func) Notify(ctx context.Context, title, body string) { f(ctx, title, body) }
