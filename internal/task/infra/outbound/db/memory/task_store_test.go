package memory

import (
	"context"
	"testing"
	"time"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *TaskStore, n int) []*taskDomain.TaskItem {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []*taskDomain.TaskItem
	for i := 0; i < n; i++ {
		task := &taskDomain.TaskItem{
			ID:        uuid.New(),
			Title:     "t",
			Status:    taskDomain.TaskNew,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		rows, err := s.Add(context.Background(), task)
		require.NoError(t, err)
		require.EqualValues(t, 1, rows)
		out = append(out, task)
	}
	return out
}

func TestTaskStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := seed(t, s, 1)[0]

	// Add duplicado no afecta filas
	rows, err := s.Add(ctx, task)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	// FindByID devuelve una copia
	found, err := s.FindByID(ctx, task.ID)
	require.NoError(t, err)
	found.Title = "cambiado"
	again, _ := s.FindByID(ctx, task.ID)
	assert.Equal(t, "t", again.Title)

	// Update
	rows, err = s.Update(ctx, found)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	again, _ = s.FindByID(ctx, task.ID)
	assert.Equal(t, "cambiado", again.Title)

	// Remove
	rows, err = s.Remove(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	_, err = s.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)

	rows, err = s.Remove(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestTaskStore_ListNewestFirstAndPaged(t *testing.T) {
	s := NewTaskStore()
	tasks := seed(t, s, 5)

	all, total, err := s.List(context.Background(), sharedQuery.OffsetPagination{})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, all, 5)
	assert.Equal(t, tasks[4].ID, all[0].ID)
	assert.Equal(t, tasks[0].ID, all[4].ID)

	page, total, err := s.List(context.Background(), sharedQuery.OffsetPagination{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, tasks[2].ID, page[0].ID)

	empty, _, err := s.List(context.Background(), sharedQuery.OffsetPagination{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewTaskStore().List(ctx, sharedQuery.OffsetPagination{})
	assert.ErrorIs(t, err, context.Canceled)
}
