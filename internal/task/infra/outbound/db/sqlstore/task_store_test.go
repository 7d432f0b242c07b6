package sqlstore

import (
	"context"
	"testing"
	"time"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteStore(t *testing.T) *TaskStore {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(ctx, db, DialectSQLite, zap.NewNop()))
	return NewTaskStore(db, DialectSQLite)
}

func newTask(title string, createdAt time.Time) *taskDomain.TaskItem {
	return &taskDomain.TaskItem{
		ID:          uuid.New(),
		Title:       title,
		Description: "desc",
		Status:      taskDomain.TaskNew,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestTaskStore_AddAndFind(t *testing.T) {
	// Arrange
	store := newSQLiteStore(t)
	ctx := context.Background()
	task := newTask("Tarea SQL", time.Now().UTC().Truncate(time.Millisecond))

	// Act
	rows, err := store.Add(ctx, task)
	require.NoError(t, err)
	found, err := store.FindByID(ctx, task.ID)

	// Assert
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	assert.Equal(t, task.ID, found.ID)
	assert.Equal(t, "Tarea SQL", found.Title)
	assert.Equal(t, taskDomain.TaskNew, found.Status)
	assert.True(t, task.CreatedAt.Equal(found.CreatedAt))
}

func TestTaskStore_AddDuplicateAffectsNoRows(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	task := newTask("dup", time.Now().UTC())

	_, err := store.Add(ctx, task)
	require.NoError(t, err)
	rows, err := store.Add(ctx, task)

	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestTaskStore_FindMissing(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)
}

func TestTaskStore_UpdateAndRemove(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	task := newTask("original", time.Now().UTC())
	_, err := store.Add(ctx, task)
	require.NoError(t, err)

	// Update
	task.Title = "editada"
	task.Status = taskDomain.TaskCompleted
	task.UpdatedAt = task.UpdatedAt.Add(time.Minute)
	rows, err := store.Update(ctx, task)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	found, err := store.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "editada", found.Title)
	assert.Equal(t, taskDomain.TaskCompleted, found.Status)

	// Update de un id inexistente
	rows, err = store.Update(ctx, newTask("fantasma", time.Now()))
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	// Remove
	rows, err = store.Remove(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	rows, err = store.Remove(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestTaskStore_ListNewestFirst(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		task := newTask("t", base.Add(time.Duration(i)*time.Hour))
		_, err := store.Add(ctx, task)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	all, total, err := store.List(ctx, sharedQuery.OffsetPagination{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID)
	assert.Equal(t, ids[0], all[3].ID)

	page, total, err := store.List(ctx, sharedQuery.OffsetPagination{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
}

func TestTaskStore_ListEmptyIsNotNil(t *testing.T) {
	store := newSQLiteStore(t)

	tasks, total, err := store.List(context.Background(), sharedQuery.OffsetPagination{})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, tasks)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DialectSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db, DialectSQLite, zap.NewNop()))
	assert.NoError(t, RunMigrations(ctx, db, DialectSQLite, zap.NewNop()))
}
