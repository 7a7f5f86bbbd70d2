package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/store"
)

func newTestFileStore(t *testing.T) (*store.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	return store.NewFileStore(path), path
}

func TestFileStoreAddAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	first, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	second, err := s.Add(ctx, "Write report", "Quarterly report")
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, domain.StatusPending, first.Status)

	found, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *found)
}

func TestFileStoreMaxPlusOneAfterDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, title, "desc")
		require.NoError(t, err)
	}

	// Deleting below the maximum never frees that id.
	_, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	task, err := s.Add(ctx, "d", "desc")
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)

	// Deleting the maximum does: next add reuses it.
	_, err = s.Delete(ctx, 4)
	require.NoError(t, err)
	task, err = s.Add(ctx, "e", "desc")
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)
}

func TestFileStoreDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	task, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, removed.ID)

	_, err = s.GetByID(ctx, task.ID)
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreDeleteMissing(t *testing.T) {
	s, _ := newTestFileStore(t)
	_, err := s.Delete(context.Background(), 999999)
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))
}

func TestFileStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	task, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)

	task.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, task))

	found, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status)

	missing := domain.NewTask(12345, "x", "y")
	assert.True(t, errors.Is(s.Update(ctx, &missing), domain.ErrTaskNotFound))
}

func TestFileStoreGetAllSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	_, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	all[0].Title = "mutated"

	again, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", again[0].Title, "callers must not mutate store state through the returned slice")
}

func TestFileStoreSearch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	_, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	report, err := s.Add(ctx, "Write report", "Quarterly report")
	require.NoError(t, err)
	report.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, report))

	t.Run("substring match", func(t *testing.T) {
		results, err := s.Search(ctx, "report", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Write report", results[0].Title)
	})

	t.Run("case insensitive", func(t *testing.T) {
		results, err := s.Search(ctx, "MILK", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Buy milk", results[0].Title)
	})

	t.Run("status filter", func(t *testing.T) {
		results, err := s.Search(ctx, "report", domain.StatusPending)
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = s.Search(ctx, "report", domain.StatusCompleted)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestFileStoreStatistics(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileStore(t)

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, title, "desc")
		require.NoError(t, err)
	}
	first, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	first.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, first))

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3, stats.CreatedToday)
}

func TestFileStoreRestartKeepsRecords(t *testing.T) {
	ctx := context.Background()
	s, path := newTestFileStore(t)

	task, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, task)) // exercise a second save

	reopened := store.NewFileStore(path)
	all, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, task.ID, all[0].ID)
	assert.Equal(t, task.Title, all[0].Title)
	assert.Equal(t, task.Description, all[0].Description)
	assert.Equal(t, task.Status, all[0].Status)
	assert.True(t, task.CreatedDate.Equal(all[0].CreatedDate))
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	s, _ := newTestFileStore(t)
	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreSaveFailureSurfaces(t *testing.T) {
	// A directory as the backing path makes every write fail.
	s := store.NewFileStore(t.TempDir())
	_, err := s.Add(context.Background(), "Buy milk", "Get 2% milk")
	assert.Error(t, err)
}

func TestFileStoreMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := store.NewFileStore(path)
	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	// The store stays usable after the fallback.
	task, err := s.Add(context.Background(), "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
}
