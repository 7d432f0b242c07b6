package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"go.uber.org/zap"
)

// DefaultEmitTimeout acota cada envío a un sink.
const DefaultEmitTimeout = 30 * time.Second

// Emitter reparte los eventos de cambio entre los sinks configurados. Cada sink
// recibe su propia copia del evento en su propia goroutine.
type Emitter struct {
	sinks   []taskDomain.EventSink
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewEmitter crea el emisor. Un timeout <= 0 usa DefaultEmitTimeout.
func NewEmitter(sinks []taskDomain.EventSink, timeout time.Duration, log *zap.Logger) *Emitter {
	if timeout <= 0 {
		timeout = DefaultEmitTimeout
	}
	return &Emitter{
		sinks:   sinks,
		timeout: timeout,
		log:     log,
	}
}

// Emit toma la instantánea de task y la entrega a todos los sinks sin esperar.
// Con task nil el evento se descarta. De ctx sólo se conservan sus valores
// (correlation id): ni su cancelación ni su deadline llegan a los sinks.
func (e *Emitter) Emit(ctx context.Context, task *taskDomain.TaskItem, eventType string) {
	if task == nil {
		e.log.Error("Dropping change event: missing task state", zap.String("event_type", eventType))
		return
	}

	detached := context.WithoutCancel(ctx)
	evt := task.ToChangeEvent(eventType, time.Now())
	for _, sink := range e.sinks {
		snapshot := *evt
		e.wg.Add(1)
		go e.dispatch(detached, sink, &snapshot)
	}
}

// Wait bloquea hasta que terminen los envíos en curso. Se usa al apagar y en tests.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

func (e *Emitter) dispatch(parent context.Context, sink taskDomain.EventSink, evt *sharedEvents.TaskChangeEvent) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("🔥 Panic while sending change event",
				zap.String("sink", sink.Name()),
				zap.String("task_id", evt.TaskID.String()),
				zap.Error(fmt.Errorf("%v", r)),
			)
		}
	}()

	// Contexto propio: el envío sobrevive a la petición HTTP que lo originó.
	ctx, cancel := context.WithTimeout(parent, e.timeout)
	defer cancel()

	if err := sink.Send(ctx, evt); err != nil {
		e.log.Error("Failed to send change event",
			zap.String("sink", sink.Name()),
			zap.String("task_id", evt.TaskID.String()),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
		return
	}

	e.log.Debug("Change event sent",
		zap.String("sink", sink.Name()),
		zap.String("task_id", evt.TaskID.String()),
		zap.String("event_type", evt.EventType),
	)
}
