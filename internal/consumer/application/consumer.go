// en internal/consumer/application/consumer.go
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	"github.com/davicafu/taskforge/internal/shared/memlog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Delivery es un mensaje ya decodificado por el adapter del broker. Event es nil
// cuando el payload era null.
type Delivery struct {
	MessageID     string
	CorrelationID string
	SourceAddress string
	Event         *sharedEvents.TaskChangeEvent
}

// RetryableError indica al adapter que el mensaje debe volver a entregarse.
type RetryableError struct {
	MessageID string
	Err       error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("message %s: %v", e.MessageID, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Processed es la entrada del registro del consumidor.
type Processed struct {
	MessageID     string
	CorrelationID string
	SourceAddress string
	Event         sharedEvents.TaskChangeEvent
	ProcessedAt   time.Time
}

// Forwarder reenvía el evento procesado a otro almacén (p. ej. el archivo analítico).
type Forwarder interface {
	Name() string
	Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error
}

// TaskChangeConsumer valida, registra y guarda los eventos de cambio. Es seguro
// para uso concurrente. Un evento ya procesado que vuelve a llegar (reentrega
// del broker) se reconoce sin procesarlo otra vez.
type TaskChangeConsumer struct {
	entries    *memlog.Log[Processed]
	seen       sync.Map // DedupKey -> struct{}
	forwarders []Forwarder
	log        *zap.Logger
}

// NewTaskChangeConsumer es el constructor. Los forwarders son opcionales.
func NewTaskChangeConsumer(log *zap.Logger, forwarders ...Forwarder) *TaskChangeConsumer {
	return &TaskChangeConsumer{
		entries:    memlog.New[Processed](),
		forwarders: forwarders,
		log:        log,
	}
}

// Consume procesa una entrega. Un payload null se reconoce sin procesar; cualquier
// fallo de procesamiento vuelve como *RetryableError.
func (c *TaskChangeConsumer) Consume(ctx context.Context, d Delivery) error {
	log := c.log.With(
		zap.String("message_id", d.MessageID),
		zap.String("correlation_id", d.CorrelationID),
		zap.String("source_address", d.SourceAddress),
	)

	if d.Event == nil {
		log.Error("Received null task change event")
		return nil
	}

	evt := *d.Event
	if evt.TaskID == uuid.Nil {
		log.Warn("Received task change event with empty TaskId")
	}

	log.Info("📥 Received task change event",
		zap.String("task_id", evt.TaskID.String()),
		zap.String("event_type", evt.EventType),
		zap.String("title", evt.Title),
		zap.String("status", evt.Status),
		zap.Time("event_timestamp", evt.EventTimestamp),
		zap.Time("created_at", evt.CreatedAt),
		zap.Time("updated_at", evt.UpdatedAt),
	)
	// La descripción va aparte para no saturar la línea principal
	if evt.Description != "" {
		log.Debug("Task description", zap.String("description", evt.Description))
	}

	// Sólo los eventos con tarea y sello de tiempo se identifican de forma única
	dedupKey := ""
	if evt.TaskID != uuid.Nil && !evt.EventTimestamp.IsZero() {
		dedupKey = evt.DedupKey()
		if _, dup := c.seen.LoadOrStore(dedupKey, struct{}{}); dup {
			log.Info("Duplicate task change event, skipping", zap.String("dedup_key", dedupKey))
			return nil
		}
	}

	if err := c.process(ctx, &evt); err != nil {
		if dedupKey != "" {
			c.seen.Delete(dedupKey)
		}
		log.Warn("Failed to process task change event", zap.Error(err))
		return &RetryableError{MessageID: d.MessageID, Err: err}
	}

	c.entries.Append(Processed{
		MessageID:     d.MessageID,
		CorrelationID: d.CorrelationID,
		SourceAddress: d.SourceAddress,
		Event:         evt,
		ProcessedAt:   time.Now().UTC(),
	})
	return nil
}

func (c *TaskChangeConsumer) process(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, f := range c.forwarders {
		if err := f.Send(ctx, evt); err != nil {
			return fmt.Errorf("forward to %s: %w", f.Name(), err)
		}
	}
	return nil
}

// Processed devuelve lo procesado en orden de llegada.
func (c *TaskChangeConsumer) Processed() []Processed {
	return c.entries.Snapshot()
}

// ProcessedByTaskID filtra el registro por tarea.
func (c *TaskChangeConsumer) ProcessedByTaskID(id uuid.UUID) []Processed {
	return c.entries.Filter(func(p Processed) bool {
		return p.Event.TaskID == id
	})
}
