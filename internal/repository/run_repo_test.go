package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/azrag/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "azrag.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunRepository_CreateAndFinish(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	run := &domain.SetupRun{IndexName: "docs"}
	require.NoError(t, repo.Create(run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, domain.RunStatusRunning, run.Status)

	got, err := repo.Get(run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "docs", got.IndexName)
	assert.Nil(t, got.FinishedAt)

	run.Status = domain.RunStatusFailed
	run.Files = 2
	run.Chunks = 40
	run.Uploaded = 38
	run.Failed = 2
	run.Error = "failed to upload batch 1"
	require.NoError(t, repo.Finish(run))

	got, err = repo.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, 40, got.Chunks)
	assert.Equal(t, 38, got.Uploaded)
	assert.Equal(t, "failed to upload batch 1", got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.WithinDuration(t, time.Now(), *got.FinishedAt, time.Minute)
}

func TestRunRepository_GetMissing(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	got, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	var ids []string
	for i := 0; i < 3; i++ {
		run := &domain.SetupRun{IndexName: "docs"}
		require.NoError(t, repo.Create(run))
		ids = append(ids, run.ID)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := repo.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}
