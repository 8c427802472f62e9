package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "NEXY_AI_HISTORY")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "NEXY_AI_HISTORY", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "NEXY_AI_HISTORY", []byte(`[{"id":"item-1"}]`)))

	got, ok, err := store.Get(ctx, "NEXY_AI_HISTORY")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"item-1"}]`, string(got))

	require.NoError(t, store.Delete(ctx, "NEXY_AI_HISTORY"))
	_, ok, err = store.Get(ctx, "NEXY_AI_HISTORY")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(context.Background(), Config{DSN: "sqlite://" + path}, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	exerciseStore(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "NEXY_AI_PRICE_ALERTS", []byte(`{"Headband":{"1000":1}}`)))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	got, ok, err := store.Get(ctx, "NEXY_AI_PRICE_ALERTS")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"Headband":{"1000":1}}`, string(got))
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "redis://localhost"}, nil)
	assert.Error(t, err)
}

func TestHealthCheck_NonPostgresIsHealthy(t *testing.T) {
	assert.NoError(t, HealthCheck(context.Background(), NewMemoryStore(), 0, nil))
}
