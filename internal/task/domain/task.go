package domain

import (
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskNew        TaskStatus = "New"
	TaskInProgress TaskStatus = "InProgress"
	TaskCompleted  TaskStatus = "Completed"
	TaskPending    TaskStatus = "Pending"
)

const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 2000
)

// IsValid acepta los cuatro estados conocidos. El vacío no es válido.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskNew, TaskInProgress, TaskCompleted, TaskPending:
		return true
	}
	return false
}

// OrDefault devuelve New cuando el estado viene vacío.
func (s TaskStatus) OrDefault() TaskStatus {
	if s == "" {
		return TaskNew
	}
	return s
}

type TaskItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *TaskItem) PartitionKey() string {
	return t.ID.String()
}

// --- Métodos de dominio ---

// PrepareForCreate asigna id si falta y sella ambas fechas con now (UTC).
func (t *TaskItem) PrepareForCreate(now time.Time) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now = now.UTC()
	t.Status = t.Status.OrDefault()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// ApplyEdit copia los campos editables de edit. ID y CreatedAt no cambian y
// UpdatedAt nunca retrocede.
func (t *TaskItem) ApplyEdit(edit *TaskItem, now time.Time) {
	t.Title = edit.Title
	t.Description = edit.Description
	t.Status = edit.Status.OrDefault()

	now = now.UTC()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}

// ToChangeEvent toma la instantánea del estado actual de la tarea.
func (t *TaskItem) ToChangeEvent(eventType string, at time.Time) *sharedEvents.TaskChangeEvent {
	return &sharedEvents.TaskChangeEvent{
		TaskID:         t.ID,
		EventType:      eventType,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		EventTimestamp: at.UTC(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// Clone devuelve una copia independiente.
func (t *TaskItem) Clone() *TaskItem {
	c := *t
	return &c
}

// Verificación estática para asegurar que TaskItem implementa la interfaz
var _ sharedBus.Keyer = (*TaskItem)(nil)
