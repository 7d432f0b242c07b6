package domain

import (
	"context"
	"errors"
	"fmt"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrNilQuery        = errors.New("query is required")
	ErrNilCommand      = errors.New("command is required")
	ErrNilEvent        = errors.New("task change event is nil")
	ErrMissingTaskID   = errors.New("task change event has an empty task id")
	ErrSinkUnavailable = errors.New("event sink unavailable")
)

// Mensajes de fallo que llegan al cliente tal cual.
const (
	MsgTaskNotFound = "Task item not found"
	MsgCreateFailed = "Failed to create task item"
	MsgUpdateFailed = "Failed to update the task item"
	MsgDeleteFailed = "Failed to delete the task item"
)

// --- Almacén de TaskItems ---
// Las escrituras devuelven el número de filas afectadas; 0 significa que no se
// persistió nada. FindByID devuelve ErrTaskNotFound si no existe.
type TaskStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TaskItem, error)
	Add(ctx context.Context, t *TaskItem) (int64, error)
	Update(ctx context.Context, t *TaskItem) (int64, error)
	Remove(ctx context.Context, id uuid.UUID) (int64, error)
	// List devuelve la página pedida ordenada por createdAt descendente y el total.
	List(ctx context.Context, page sharedQuery.OffsetPagination) ([]*TaskItem, int, error)
}

// --- Destino de eventos de cambio ---
// Cada sink recibe el evento en su propia goroutine; un error solo se registra.
type EventSink interface {
	Name() string
	Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func TaskCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("task:id:%s", id.String())
}
