package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	require.Error(t, err)
}

func TestTask_CloneIsDeep(t *testing.T) {
	due := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	orig := Task{ID: "a", Due: &due, Reminder: intPtr(10)}

	c := orig.Clone()
	*c.Due = c.Due.Add(time.Hour)
	*c.Reminder = 99

	assert.Equal(t, due, *orig.Due)
	assert.Equal(t, 10, *orig.Reminder)
}

func TestTask_JSONRoundTrip(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	in := Task{
		ID:        "id-1",
		Title:     "Pay rent",
		Details:   "by transfer",
		Due:       &due,
		Priority:  PriorityHigh,
		Reminder:  intPtr(15),
		Completed: true,
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Notified:  true,
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Task
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestDecodeTasks_Coercion(t *testing.T) {
	payload := `[
		{"id": 42, "title": "legacy", "due": "2026-05-01T10:00", "reminder": "30", "priority": "URGENT", "__notified": true},
		{"title": "bare"},
		{"title": "empty reminder", "reminder": "", "due": null, "details": null}
	]`

	tasks, err := DecodeTasks([]byte(payload))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	legacy := tasks[0]
	assert.Equal(t, "", legacy.ID)
	assert.Equal(t, "legacy", legacy.Title)
	require.NotNil(t, legacy.Due)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.Local), *legacy.Due)
	require.NotNil(t, legacy.Reminder)
	assert.Equal(t, 30, *legacy.Reminder)
	assert.Equal(t, PriorityMedium, legacy.Priority)
	assert.True(t, legacy.Notified)

	bare := tasks[1]
	assert.Nil(t, bare.Due)
	assert.Nil(t, bare.Reminder)
	assert.Equal(t, PriorityMedium, bare.Priority)
	assert.False(t, bare.Completed)

	assert.Nil(t, tasks[2].Reminder)
	assert.Nil(t, tasks[2].Due)
}

func TestDecodeTasks_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":          `{{`,
		"object not array":  `{"title":"x"}`,
		"array of numbers":  `[1, 2]`,
		"array with null":   `[{"title":"x"}, null]`,
		"title not string":  `[{"title": 5}]`,
		"bad due":           `[{"title":"x","due":"next tuesday"}]`,
		"negative reminder": `[{"title":"x","reminder":-5}]`,
		"completed string":  `[{"title":"x","completed":"yes"}]`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTasks([]byte(payload))
			require.Error(t, err)
		})
	}
}

func TestParseDue(t *testing.T) {
	got, err := ParseDue("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDue("2026-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	got, err = ParseDue("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local), *got)
}

func TestTask_ReminderDue(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { ts := now.Add(d); return &ts }

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "inside lead time", task: Task{Due: at(5 * time.Minute), Reminder: intPtr(10)}, want: true},
		{name: "exactly at lead time", task: Task{Due: at(10 * time.Minute), Reminder: intPtr(10)}, want: true},
		{name: "before lead time", task: Task{Due: at(11 * time.Minute), Reminder: intPtr(10)}},
		{name: "already due", task: Task{Due: at(0), Reminder: intPtr(10)}},
		{name: "overdue", task: Task{Due: at(-time.Minute), Reminder: intPtr(10)}},
		{name: "completed", task: Task{Due: at(5 * time.Minute), Reminder: intPtr(10), Completed: true}},
		{name: "notified", task: Task{Due: at(5 * time.Minute), Reminder: intPtr(10), Notified: true}},
		{name: "no due", task: Task{Reminder: intPtr(10)}},
		{name: "no reminder", task: Task{Due: at(5 * time.Minute)}},
		{name: "zero lead never fires", task: Task{Due: at(time.Second), Reminder: intPtr(0)}},
		{name: "huge lead fires", task: Task{Due: at(5 * time.Minute), Reminder: intPtr(200_000_000)}, want: true},
		{name: "huge lead overdue", task: Task{Due: at(-time.Minute), Reminder: intPtr(200_000_000)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.ReminderDue(now))
		})
	}
}
