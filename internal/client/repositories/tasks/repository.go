// Package tasks persists one ordered task collection per account.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Repository loads and replaces the task collection of an account.
type Repository interface {
	// Load returns the collection of account in stored order; an account
	// that never saved anything has an empty collection.
	Load(ctx context.Context, account string) ([]models.Task, error)

	// Save replaces the whole collection of account.
	Save(ctx context.Context, account string, tasks []models.Task) error
}

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context, account string) ([]models.Task, error) {
	raw, ok, err := r.store.Get(ctx, common.TasksKey(account))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []models.Task{}, nil
	}

	list, err := models.DecodeTasks([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tasks of %s: %w", account, err)
	}
	return list, nil
}

func (r *KVRepository) Save(ctx context.Context, account string, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	return r.store.Set(ctx, common.TasksKey(account), string(b))
}
