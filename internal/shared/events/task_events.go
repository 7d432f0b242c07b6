package events

import (
	"fmt"
	"time"

	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/google/uuid"
)

// Topic por el que viajan los cambios de tareas, y su cola de mensajes muertos.
const (
	TaskChangeTopic      = "task-change-events"
	TaskChangeErrorTopic = TaskChangeTopic + "_error"
)

// Tipos de cambio.
const (
	TaskCreated = "Created"
	TaskUpdated = "Updated"
	TaskDeleted = "Deleted"
)

// TaskChangeEvent es la instantánea de una tarea tras una mutación con éxito.
// Se construye una vez y no se modifica.
type TaskChangeEvent struct {
	TaskID         uuid.UUID `json:"taskId"`
	EventType      string    `json:"eventType"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	EventTimestamp time.Time `json:"eventTimestamp"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e *TaskChangeEvent) PartitionKey() string {
	return e.TaskID.String()
}

// DedupKey identifica el evento para consumidores que quieran descartar duplicados.
func (e *TaskChangeEvent) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", e.TaskID, e.EventType, e.EventTimestamp.UTC().Format(time.RFC3339Nano))
}

func (e *TaskChangeEvent) ChangeType() string {
	return e.EventType
}

// Verificación estática
var (
	_ sharedBus.Keyer = (*TaskChangeEvent)(nil)
	_ sharedBus.Typer = (*TaskChangeEvent)(nil)
)
