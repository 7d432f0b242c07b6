// en internal/eventlog/application/event_logger.go
package application

import (
	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	"github.com/davicafu/taskforge/internal/shared/memlog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventLogger guarda en memoria los eventos de cambio recibidos. Sin expulsión.
type EventLogger struct {
	entries *memlog.Log[sharedEvents.TaskChangeEvent]
	log     *zap.Logger
}

// NewEventLogger es el constructor.
func NewEventLogger(log *zap.Logger) *EventLogger {
	return &EventLogger{
		entries: memlog.New[sharedEvents.TaskChangeEvent](),
		log:     log,
	}
}

// LogEvent añade el evento al registro. Un evento nil se ignora; uno con id
// vacío se guarda igualmente (la validación es cosa de la frontera HTTP).
func (l *EventLogger) LogEvent(evt *sharedEvents.TaskChangeEvent) {
	if evt == nil {
		return
	}
	l.entries.Append(*evt)

	l.log.Info("📝 Task event logged",
		zap.String("task_id", evt.TaskID.String()),
		zap.String("event_type", evt.EventType),
		zap.Time("event_timestamp", evt.EventTimestamp),
	)
}

// ListAllEvents devuelve todos los eventos en orden de llegada.
func (l *EventLogger) ListAllEvents() []sharedEvents.TaskChangeEvent {
	return l.entries.Snapshot()
}

// ListEventsByTaskID devuelve los eventos de una tarea en orden de llegada.
func (l *EventLogger) ListEventsByTaskID(id uuid.UUID) []sharedEvents.TaskChangeEvent {
	return l.entries.Filter(func(evt sharedEvents.TaskChangeEvent) bool {
		return evt.TaskID == id
	})
}
