package badger

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/storage"
)

func newTestRepository(t *testing.T) (*CheckpointRepository, *Backend) {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return newCheckpointRepository(backend), backend
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	backend, err := OpenBackend(t.TempDir()+"/progress.db", false)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(context.Background(), func(*badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestLoadCheckpoint_Empty(t *testing.T) {
	repo, _ := newTestRepository(t)

	state, err := repo.LoadCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSaveAndLoadCheckpoint(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	state := core.NewCheckpointState("run-42", now)
	state.Completed["men_a:1"] = now
	state.Completed["men_a:None"] = now.Add(time.Minute)
	state.Failed["women_b:#3"] = &core.FailedEntry{AttemptCount: 3, Timestamp: now, LastError: "timeout"}
	state.Totals.Succeeded = 2
	state.Totals.Failed = 3

	require.NoError(t, repo.SaveCheckpoint(ctx, state))

	loaded, err := repo.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-42", loaded.RunID)
	assert.Equal(t, core.CheckpointVersion, loaded.Version)
	assert.Equal(t, state.Totals, loaded.Totals)
	assert.Len(t, loaded.Completed, 2)
	assert.True(t, loaded.Completed["men_a:None"].Equal(now.Add(time.Minute)))
	require.Contains(t, loaded.Failed, "women_b:#3")
	assert.Equal(t, 3, loaded.Failed["women_b:#3"].AttemptCount)
	assert.True(t, loaded.Timestamps.StartedAt.Equal(now))
}

func TestSaveCheckpoint_ReplacesPreviousState(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := core.NewCheckpointState("run", now)
	first.Failed["men_a:1"] = &core.FailedEntry{AttemptCount: 1, Timestamp: now}
	require.NoError(t, repo.SaveCheckpoint(ctx, first))

	second := core.NewCheckpointState("run", now)
	second.Completed["men_a:1"] = now
	require.NoError(t, repo.SaveCheckpoint(ctx, second))

	loaded, err := repo.LoadCheckpoint(ctx)
	require.NoError(t, err)
	assert.Contains(t, loaded.Completed, "men_a:1")
	assert.NotContains(t, loaded.Failed, "men_a:1", "stale failure key must be removed")
}

func TestLoadCheckpoint_MissingMeta(t *testing.T) {
	repo, backend := newTestRepository(t)
	ctx := context.Background()

	err := backend.WithTx(ctx, func(tx *badger.Txn) error {
		if err := tx.Set(makeDoneKey("men_a:1"), []byte("2025-01-01T00:00:00Z")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = repo.LoadCheckpoint(ctx)
	assert.ErrorIs(t, err, core.ErrInvalidCheckpoint)
}

func TestLoadCheckpoint_CorruptValue(t *testing.T) {
	repo, backend := newTestRepository(t)
	ctx := context.Background()

	err := backend.WithTx(ctx, func(tx *badger.Txn) error {
		if err := tx.Set(makeFailKey("men_a:1"), []byte("{broken")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = repo.LoadCheckpoint(ctx)
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}

func TestCheckpointRepository_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	now := time.Now().UTC()

	repo, err := NewCheckpointRepository(dir)
	require.NoError(t, err)
	state := core.NewCheckpointState("run", now)
	state.Completed["men_a:9"] = now
	require.NoError(t, repo.SaveCheckpoint(ctx, state))
	require.NoError(t, repo.Close())

	reopened, err := NewCheckpointRepository(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Contains(t, loaded.Completed, "men_a:9")
}

func TestNewMemoryCheckpointRepository(t *testing.T) {
	repo, err := NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer repo.Close()

	state, err := repo.LoadCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}
