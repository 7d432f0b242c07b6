// en internal/task/infra/outbound/db/mongodb/task_repo.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	// --- Importaciones del dominio y compartidas ---
	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TaskStoreMongoDB implementa taskDomain.TaskStore para MongoDB.
type TaskStoreMongoDB struct {
	tasksColl *mongo.Collection
}

// NewTaskStoreMongoDB comprueba la conexión y crea el índice por createdAt.
func NewTaskStoreMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*TaskStoreMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	coll := client.Database(dbName).Collection("tasks")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create createdAt index: %w", err)
	}

	return &TaskStoreMongoDB{tasksColl: coll}, nil
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.
// El id se guarda como string para que sea legible desde la consola.

type mongoTask struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// --- Escritura ---

func (r *TaskStoreMongoDB) Add(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	_, err := r.tasksColl.InsertOne(ctx, toMongoTask(t))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}

func (r *TaskStoreMongoDB) Update(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	mt := toMongoTask(t)
	update := bson.M{"$set": bson.M{
		"title":       mt.Title,
		"description": mt.Description,
		"status":      mt.Status,
		"updatedAt":   mt.UpdatedAt,
	}}

	res, err := r.tasksColl.UpdateOne(ctx, bson.M{"_id": mt.ID}, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *TaskStoreMongoDB) Remove(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.tasksColl.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// --- Lectura ---

func (r *TaskStoreMongoDB) FindByID(ctx context.Context, id uuid.UUID) (*taskDomain.TaskItem, error) {
	var mt mongoTask
	err := r.tasksColl.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return fromMongoTask(&mt)
}

func (r *TaskStoreMongoDB) List(ctx context.Context, page sharedQuery.OffsetPagination) ([]*taskDomain.TaskItem, int, error) {
	total, err := r.tasksColl.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}

	// Más recientes primero; _id desempata
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if !page.Unbounded() {
		opts.SetSkip(int64(page.Offset))
		opts.SetLimit(int64(page.Limit))
	}

	cursor, err := r.tasksColl.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	tasks := make([]*taskDomain.TaskItem, 0)
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, 0, err
		}
		t, err := fromMongoTask(&mt)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	return tasks, int(total), nil
}

// --- Helpers de Mapeo y Conversión ---

func toMongoTask(t *taskDomain.TaskItem) *mongoTask {
	return &mongoTask{
		ID: t.ID.String(), Title: t.Title, Description: t.Description,
		Status: string(t.Status), CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func fromMongoTask(mt *mongoTask) (*taskDomain.TaskItem, error) {
	id, err := uuid.Parse(mt.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q in mongo document: %w", mt.ID, err)
	}
	return &taskDomain.TaskItem{
		ID: id, Title: mt.Title, Description: mt.Description,
		Status: taskDomain.TaskStatus(mt.Status), CreatedAt: mt.CreatedAt.UTC(), UpdatedAt: mt.UpdatedAt.UTC(),
	}, nil
}

// Verificación estática
var _ taskDomain.TaskStore = (*TaskStoreMongoDB)(nil)
