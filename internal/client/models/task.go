package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts "low", "medium" or "high" in any case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single to-do item of an account.
type Task struct {
	// ID is generated at creation and never changes.
	ID      string `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`

	// Due is nil for undated tasks.
	Due      *time.Time `json:"due"`
	Priority Priority   `json:"priority"`

	// Reminder is the lead time in minutes before Due at which a reminder
	// fires. Nil means no reminder.
	Reminder *int `json:"reminder"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`

	// Notified records that the reminder already fired. It is never reset.
	Notified bool `json:"notified"`
}

// Clone returns a deep copy of t so callers cannot mutate stored state
// through the pointer fields.
func (t Task) Clone() Task {
	c := t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.Reminder != nil {
		r := *t.Reminder
		c.Reminder = &r
	}
	return c
}

// ReminderDue reports whether the reminder of t should fire at now: the task
// is open, has a due date in the future and a lead time, has not been
// notified yet, and now is within the lead time of the due date.
func (t Task) ReminderDue(now time.Time) bool {
	if t.Completed || t.Notified || t.Due == nil || t.Reminder == nil {
		return false
	}
	until := t.Due.Sub(now)
	// a lead past the Duration range covers any future due date
	if int64(*t.Reminder) > math.MaxInt64/int64(time.Minute) {
		return until > 0
	}
	lead := time.Duration(*t.Reminder) * time.Minute
	return until > 0 && until <= lead
}

// TaskInput carries the user-supplied fields of a new task.
type TaskInput struct {
	Title    string
	Details  string
	Due      *time.Time
	Priority Priority // empty means medium
	Reminder *int
}

// TaskPatch lists the fields an update should touch. Nil pointers and false
// Clear* flags leave the corresponding field unchanged.
type TaskPatch struct {
	Title         *string
	Details       *string
	Due           *time.Time
	ClearDue      bool
	Priority      *Priority
	Reminder      *int
	ClearReminder bool
}

// StatusFilter narrows a view by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ViewQuery describes a read-only projection of the task collection.
type ViewQuery struct {
	Search    string
	Status    StatusFilter
	SortByDue bool
}
