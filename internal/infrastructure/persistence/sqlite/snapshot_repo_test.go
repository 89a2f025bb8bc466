package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/domain/repository"
	"github.com/bnema/fickle/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) repository.TabSnapshotRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	db, err := sqlite.NewConnection(t.Context(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return sqlite.NewTabSnapshotRepository(db)
}

func TestSnapshotRepoSaveAndLoad(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, "tab-1", []byte(`{"version":1}`), time.Now()))

	payload, err := repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), payload)
}

func TestSnapshotRepoSaveOverwrites(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, "tab-1", []byte("old"), time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Save(ctx, "tab-1", []byte("new"), time.Now()))

	payload, err := repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), payload)

	ids, err := repo.TabIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestSnapshotRepoLoadMissingIsNil(t *testing.T) {
	repo := newTestRepo(t)

	payload, err := repo.Load(t.Context(), "never-saved")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestSnapshotRepoRejectsEmptyPayload(t *testing.T) {
	repo := newTestRepo(t)
	require.Error(t, repo.Save(t.Context(), "tab-1", nil, time.Now()))
}

func TestSnapshotRepoDelete(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, "tab-1", []byte("x"), time.Now()))
	require.NoError(t, repo.Delete(ctx, "tab-1"))

	payload, err := repo.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Nil(t, payload)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "tab-1"))
}

func TestSnapshotRepoTabIDsOrderedBySaveTime(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	base := time.Now()
	require.NoError(t, repo.Save(ctx, "tab-b", []byte("b"), base.Add(-2*time.Minute)))
	require.NoError(t, repo.Save(ctx, "tab-a", []byte("a"), base.Add(-time.Minute)))
	require.NoError(t, repo.Save(ctx, "tab-c", []byte("c"), base))

	ids, err := repo.TabIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.TabID{"tab-b", "tab-a", "tab-c"}, ids)
}
