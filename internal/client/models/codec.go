package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for due dates besides RFC 3339. The short forms are what
// an HTML datetime-local input produces; they are read in local time.
var localDueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var errNotObject = errors.New("record is not an object")

// DecodeTasks parses a JSON array of task-shaped objects. Fields are coerced
// leniently (numeric strings for reminder, datetime-local strings for due,
// unknown priorities fall back to medium); anything that cannot be coerced,
// or a payload that is not an array of objects, is an error.
func DecodeTasks(data []byte) ([]Task, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("payload is not a JSON array: %w", err)
	}

	tasks := make([]Task, 0, len(raws))
	for i, raw := range raws {
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			return nil, fmt.Errorf("item %d: %w", i, errNotObject)
		}
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// UnmarshalJSON implements lenient decoding of a task record.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             json.RawMessage `json:"id"`
		Title          json.RawMessage `json:"title"`
		Details        json.RawMessage `json:"details"`
		Due            json.RawMessage `json:"due"`
		Priority       json.RawMessage `json:"priority"`
		Reminder       json.RawMessage `json:"reminder"`
		Completed      json.RawMessage `json:"completed"`
		CreatedAt      json.RawMessage `json:"createdAt"`
		Notified       json.RawMessage `json:"notified"`
		LegacyNotified json.RawMessage `json:"__notified"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var (
		out Task
		err error
	)

	// ids of foreign shape are dropped; importers regenerate them anyway
	out.ID, _ = decodeString(raw.ID)

	if out.Title, err = decodeString(raw.Title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if out.Details, err = decodeString(raw.Details); err != nil {
		return fmt.Errorf("details: %w", err)
	}
	if out.Due, err = decodeDue(raw.Due); err != nil {
		return fmt.Errorf("due: %w", err)
	}

	p, err := decodeString(raw.Priority)
	if err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	if out.Priority, err = ParsePriority(p); err != nil {
		out.Priority = PriorityMedium
	}

	if out.Reminder, err = decodeReminder(raw.Reminder); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}
	if out.Completed, err = decodeBool(raw.Completed); err != nil {
		return fmt.Errorf("completed: %w", err)
	}

	created, err := decodeDue(raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	if created != nil {
		out.CreatedAt = *created
	}

	notified, err := decodeBool(raw.Notified)
	if err != nil {
		return fmt.Errorf("notified: %w", err)
	}
	legacy, err := decodeBool(raw.LegacyNotified)
	if err != nil {
		return fmt.Errorf("__notified: %w", err)
	}
	out.Notified = notified || legacy

	*t = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}

func decodeString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func decodeBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	return v, nil
}

func decodeDue(raw json.RawMessage) (*time.Time, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	return ParseDue(s)
}

// ParseDue parses a due timestamp. An empty string means "no due date".
func ParseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &ts, nil
	}
	for _, layout := range localDueLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognised time %q", s)
}

func decodeReminder(raw json.RawMessage) (*int, error) {
	if isNull(raw) {
		return nil, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return reminderFrom(string(n))
	}

	s, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return reminderFrom(s)
}

func reminderFrom(s string) (*int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	if v < 0 {
		return nil, fmt.Errorf("negative lead time %d", v)
	}
	return &v, nil
}
