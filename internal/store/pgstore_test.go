package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/store"
)

// Runs only against a live database, e.g.
// TASKS_TEST_DSN="host=localhost user=tasks dbname=tasks_test sslmode=disable"
func newTestPgStore(t *testing.T) *store.PgStore {
	t.Helper()
	dsn := os.Getenv("TASKS_TEST_DSN")
	if dsn == "" {
		t.Skip("TASKS_TEST_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, store.InitSchema(ctx, db))
	_, err = db.ExecContext(ctx, "TRUNCATE tasks RESTART IDENTITY")
	require.NoError(t, err)

	return store.NewPgStore(db)
}

func TestPgStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestPgStore(t)

	task, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	assert.Positive(t, task.ID)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.False(t, task.CreatedDate.IsZero())

	found, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, found.Title)

	found.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, found))

	removed, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, removed.Status)

	_, err = s.GetByID(ctx, task.ID)
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))
	_, err = s.Delete(ctx, task.ID)
	assert.True(t, errors.Is(err, domain.ErrTaskNotFound))
}

func TestPgStoreSearchAndStatistics(t *testing.T) {
	ctx := context.Background()
	s := newTestPgStore(t)

	_, err := s.Add(ctx, "Buy milk", "Get 2% milk")
	require.NoError(t, err)
	report, err := s.Add(ctx, "Write report", "Quarterly report")
	require.NoError(t, err)
	_, err = s.Add(ctx, "Call dentist", "Book a checkup")
	require.NoError(t, err)

	report.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, report))

	results, err := s.Search(ctx, "report", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Write report", results[0].Title)

	// Substring fallback catches partial words the tsvector index misses.
	results, err = s.Search(ctx, "MILK", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Buy milk", results[0].Title)

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3, stats.CreatedToday)
}
