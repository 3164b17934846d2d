package accounts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) kv.Store {
	t.Helper()
	s, err := kv.OpenBolt(filepath.Join(t.TempDir(), "accounts.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadAll_EmptyDirectory(t *testing.T) {
	r := NewKVRepository(setupStore(t))

	list, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSaveAllWithSessionThenLoadAll_PreservesOrder(t *testing.T) {
	r := NewKVRepository(setupStore(t))
	ctx := context.Background()

	in := []models.Account{
		{Name: "Bob", Email: "bob@example.org", Hash: "h1", Salt: "s1", Iterations: 100000},
		{Name: "Alice", Email: "alice@example.org", Hash: "h2", Salt: "s2", Iterations: 100000},
	}
	require.NoError(t, r.SaveAllWithSession(ctx, in, "alice@example.org"))

	out, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveAllWithSession_WritesBoth(t *testing.T) {
	s := setupStore(t)
	r := NewKVRepository(s)
	ctx := context.Background()

	acc := []models.Account{{Name: "A", Email: "a@x", Hash: "h", Salt: "s", Iterations: 1}}
	require.NoError(t, r.SaveAllWithSession(ctx, acc, "a@x"))

	email, ok, err := r.Session(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x", email)

	raw, _, err := s.Get(ctx, common.AccountsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A","email":"a@x","hash":"h","salt":"s","iterations":1}]`, raw)
}

func TestSession_SetAndClear(t *testing.T) {
	r := NewKVRepository(setupStore(t))
	ctx := context.Background()

	_, ok, err := r.Session(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetSession(ctx, "a@x"))
	email, ok, err := r.Session(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x", email)

	require.NoError(t, r.ClearSession(ctx))
	require.NoError(t, r.ClearSession(ctx))
	_, ok, err = r.Session(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadAll_CorruptDirectory(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Set(context.Background(), common.AccountsKey, "{broken"))

	_, err := NewKVRepository(s).LoadAll(context.Background())
	require.ErrorContains(t, err, "failed to decode accounts")
}

type failingStore struct{ kv.Store }

var errStore = errors.New("disk on fire")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, errStore }

func TestLoadAll_StoreErrorPropagates(t *testing.T) {
	r := NewKVRepository(failingStore{})
	_, err := r.LoadAll(context.Background())
	require.ErrorIs(t, err, errStore)

	_, _, err = r.Session(context.Background())
	require.ErrorIs(t, err, errStore)
}
