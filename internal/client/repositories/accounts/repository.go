// Package accounts persists the account directory and the session pointer.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Repository reads and writes accounts and the session pointer.
type Repository interface {
	// LoadAll returns every registered account in registration order.
	LoadAll(ctx context.Context) ([]models.Account, error)

	// SaveAllWithSession replaces the directory and points the session at
	// email in one atomic write.
	SaveAllWithSession(ctx context.Context, accounts []models.Account, email string) error

	// Session returns the email of the active account, or ok=false.
	Session(ctx context.Context) (email string, ok bool, err error)
	SetSession(ctx context.Context, email string) error
	ClearSession(ctx context.Context) error
}

// KVRepository implements Repository over a kv.Store.
type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) LoadAll(ctx context.Context) ([]models.Account, error) {
	raw, ok, err := r.store.Get(ctx, common.AccountsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []models.Account{}, nil
	}

	var list []models.Account
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	if list == nil {
		list = []models.Account{}
	}
	return list, nil
}

func (r *KVRepository) SaveAllWithSession(ctx context.Context, accounts []models.Account, email string) error {
	raw, err := encode(accounts)
	if err != nil {
		return err
	}
	return r.store.SetMany(ctx, map[string]string{
		common.AccountsKey: raw,
		common.SessionKey:  email,
	})
}

func (r *KVRepository) Session(ctx context.Context) (string, bool, error) {
	email, ok, err := r.store.Get(ctx, common.SessionKey)
	if err != nil {
		return "", false, err
	}
	if !ok || email == "" {
		return "", false, nil
	}
	return email, true, nil
}

func (r *KVRepository) SetSession(ctx context.Context, email string) error {
	return r.store.Set(ctx, common.SessionKey, email)
}

func (r *KVRepository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, common.SessionKey)
}

func encode(accounts []models.Account) (string, error) {
	if accounts == nil {
		accounts = []models.Account{}
	}
	b, err := json.Marshal(accounts)
	if err != nil {
		return "", fmt.Errorf("failed to encode accounts: %w", err)
	}
	return string(b), nil
}
