package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoTaskMapping_RoundTrip(t *testing.T) {
	task := &taskDomain.TaskItem{
		ID:        uuid.New(),
		Title:     "mongo",
		Status:    taskDomain.TaskPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	back, err := fromMongoTask(toMongoTask(task))

	require.NoError(t, err)
	assert.Equal(t, task, back)
}

func TestMongoTaskMapping_InvalidID(t *testing.T) {
	_, err := fromMongoTask(&mongoTask{ID: "no-es-un-uuid"})
	assert.Error(t, err)
}

// Test de integración: solo corre con MONGO_URI definido.
func TestTaskStoreMongoDB_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	dbName := "taskforge_test_" + uuid.NewString()[:8]
	defer client.Database(dbName).Drop(ctx)

	store, err := NewTaskStoreMongoDB(ctx, client, dbName)
	require.NoError(t, err)

	task := &taskDomain.TaskItem{ID: uuid.New(), Title: "t", Status: taskDomain.TaskNew, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	rows, err := store.Add(ctx, task)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = store.Add(ctx, task)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	found, err := store.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", found.Title)

	list, total, err := store.List(ctx, sharedQuery.OffsetPagination{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	rows, err = store.Remove(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	_, err = store.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)
}
