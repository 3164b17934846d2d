package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTasksKey_NamespacedByEmail(t *testing.T) {
	assert.Equal(t, "tm_tasks_v2_alice@example.org", TasksKey("alice@example.org"))
	assert.NotEqual(t, TasksKey("a@x"), TasksKey("b@x"))
}
