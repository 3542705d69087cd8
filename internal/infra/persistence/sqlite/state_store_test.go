package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"dinein/config"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func openStore(t *testing.T, path string) (repository.StateStore, *fxtest.Lifecycle) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage = &config.StorageConfig{Driver: constants.StorageDriverSQLite, SQLitePath: path}

	lc := fxtest.NewLifecycle(t)
	db, err := New(Params{
		Lifecycle: lc,
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	lc.RequireStart()

	return NewStateStore(db), lc
}

func TestStateStore_SetGetDelete(t *testing.T) {
	store, lc := openStore(t, filepath.Join(t.TempDir(), "state.db"))
	defer lc.RequireStop()
	ctx := context.Background()

	_, err := store.Get(ctx, constants.StorageKeyAuthToken)
	assert.ErrorIs(t, err, repository.ErrStateNotFound)

	require.NoError(t, store.Set(ctx, constants.StorageKeyAuthToken, "tok-1"))
	require.NoError(t, store.Set(ctx, constants.StorageKeyAuthToken, "tok-2"))
	require.NoError(t, store.Set(ctx, constants.StorageKeyDevOTP, "123456"))

	got, err := store.Get(ctx, constants.StorageKeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got)

	require.NoError(t, store.Delete(ctx, constants.StorageKeyAuthToken, constants.StorageKeyDevOTP, constants.StorageKeyPendingTableID))
	require.NoError(t, store.Delete(ctx))

	_, err = store.Get(ctx, constants.StorageKeyDevOTP)
	assert.ErrorIs(t, err, repository.ErrStateNotFound)
}

func TestStateStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, lc := openStore(t, path)
	require.NoError(t, store.Set(ctx, constants.StorageKeyPendingTableID, "T7"))
	lc.RequireStop()

	reopened, lc := openStore(t, path)
	defer lc.RequireStop()

	got, err := reopened.Get(ctx, constants.StorageKeyPendingTableID)
	require.NoError(t, err)
	assert.Equal(t, "T7", got)
}
