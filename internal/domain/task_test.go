package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskcore/taskmanager/internal/domain"
)

func TestNewTaskDefaults(t *testing.T) {
	task := domain.NewTask(1, "Buy milk", "Get 2% milk")

	assert.Equal(t, 1, task.ID)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, 0, task.CreatedDate.Nanosecond(), "timestamp must be second resolution")
	assert.WithinDuration(t, time.Now(), task.CreatedDate, 2*time.Second)
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, status := range []string{domain.StatusPending, domain.StatusCompleted} {
		t.Run(status, func(t *testing.T) {
			task := domain.NewTask(7, "Write report", "Quarterly report")
			task.Status = status

			restored, err := domain.TaskFromDocument(task.ToDocument())
			require.NoError(t, err)

			assert.Equal(t, task.ID, restored.ID)
			assert.Equal(t, task.Title, restored.Title)
			assert.Equal(t, task.Description, restored.Description)
			assert.Equal(t, task.Status, restored.Status)
			assert.True(t, task.CreatedDate.Equal(restored.CreatedDate),
				"created_date must survive the round trip at second resolution")
		})
	}
}

func TestTaskFromDocumentBadDate(t *testing.T) {
	_, err := domain.TaskFromDocument(domain.TaskDocument{
		ID:          1,
		Title:       "x",
		Description: "y",
		Status:      domain.StatusPending,
		CreatedDate: "not-a-date",
	})
	assert.Error(t, err)
}

func TestTaskJSONFormat(t *testing.T) {
	task := domain.NewTask(3, "Buy milk", "Get 2% milk")

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(3), doc["id"])
	assert.Equal(t, task.CreatedDate.Format(domain.DateLayout), doc["created_date"])

	var restored domain.Task
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, task.Title, restored.Title)
	assert.True(t, task.CreatedDate.Equal(restored.CreatedDate))
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("not found error matches sentinel", func(t *testing.T) {
		err := error(&domain.NotFoundError{ID: 42})
		assert.True(t, errors.Is(err, domain.ErrTaskNotFound))
		assert.Contains(t, err.Error(), "42")
	})

	t.Run("persistence error preserves cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := error(&domain.PersistenceError{Op: "save tasks", Err: cause})
		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "save tasks")
		assert.Contains(t, err.Error(), "disk full")
	})
}
