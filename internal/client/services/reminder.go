package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/notify"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// DefaultReminderInterval is how often Run scans for due reminders.
const DefaultReminderInterval = time.Minute

// Clock returns the current time.
type Clock func() time.Time

// ReminderScheduler periodically fires the reminders of the active
// account's tasks. Each task's reminder fires at most once.
type ReminderScheduler struct {
	tasks    TaskService
	notifier notify.Notifier
	logger   logging.Logger
	clock    Clock
	interval time.Duration

	enabled atomic.Bool
	running atomic.Bool
}

type SchedulerOption func(*ReminderScheduler)

func WithSchedulerClock(c Clock) SchedulerOption {
	return func(s *ReminderScheduler) { s.clock = c }
}

// WithInterval sets the scan period of Run. Non-positive values keep the
// default.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *ReminderScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewReminderScheduler returns an enabled scheduler.
func NewReminderScheduler(tasks TaskService, notifier notify.Notifier, logger logging.Logger, opts ...SchedulerOption) *ReminderScheduler {
	s := &ReminderScheduler{
		tasks:    tasks,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
		interval: DefaultReminderInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.enabled.Store(true)
	return s
}

// SetEnabled turns notifications on or off. Ticks while disabled do nothing,
// so reminders that fall due meanwhile stay pending.
func (s *ReminderScheduler) SetEnabled(v bool) { s.enabled.Store(v) }

func (s *ReminderScheduler) Enabled() bool { return s.enabled.Load() }

func (s *ReminderScheduler) Interval() time.Duration { return s.interval }

// Tick performs one scan and returns the number of reminders fired. A tick
// started while another is still running returns 0 immediately.
func (s *ReminderScheduler) Tick(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.running.Store(false)

	if !s.Enabled() || s.tasks.Account() == "" {
		return 0, nil
	}

	now := s.clock()
	due, err := s.tasks.TakeDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, t := range due {
		title, body := notify.FormatReminder(t, now)
		s.notifier.Notify(ctx, title, body)
		s.logger.Debug(ctx, "reminder fired", "id", t.ID)
	}
	return len(due), nil
}

// Run ticks once right away and then every interval until ctx is done.
func (s *ReminderScheduler) Run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ReminderScheduler) tick(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		s.logger.Error(ctx, "reminder scan failed", "error", err)
	}
}
