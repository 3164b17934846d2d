package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

var errDisk = errors.New("disk full")

// memAccounts is an in-memory accounts.Repository that counts writes and
// can be told to fail them.
type memAccounts struct {
	mu       sync.Mutex
	accounts []models.Account
	session  string
	writes   int
	failSave bool
}

func (m *memAccounts) LoadAll(context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Account{}, m.accounts...), nil
}

func (m *memAccounts) SaveAllWithSession(_ context.Context, list []models.Account, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errDisk
	}
	m.writes++
	m.accounts = append([]models.Account{}, list...)
	m.session = email
	return nil
}

func (m *memAccounts) Session(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.session != "", nil
}

func (m *memAccounts) SetSession(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = email
	return nil
}

func (m *memAccounts) ClearSession(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = ""
	return nil
}

// memTasks is an in-memory tasks.Repository.
type memTasks struct {
	mu       sync.Mutex
	data     map[string][]models.Task
	saves    int
	failSave bool
}

func newMemTasks() *memTasks {
	return &memTasks{data: map[string][]models.Task{}}
}

func (m *memTasks) Load(_ context.Context, account string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.data[account]), nil
}

func (m *memTasks) Save(_ context.Context, account string, list []models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errDisk
	}
	m.saves++
	m.data[account] = cloneTasks(list)
	return nil
}

func (m *memTasks) stored(account string) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.data[account])
}

func (m *memTasks) setFail(v bool) {
	m.mu.Lock()
	m.failSave = v
	m.mu.Unlock()
}

func cloneTasks(in []models.Task) []models.Task {
	out := make([]models.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// seqIDs returns an id generator yielding the given ids in order.
func seqIDs(ids ...string) func() (string, error) {
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return "", errors.New("out of ids")
		}
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
}

func ptr[T any](v T) *T { return &v }
