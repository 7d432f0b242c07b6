package sinks

import (
	"context"
	"fmt"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrokerSink publica los eventos en el bus (Kafka o el bus en memoria).
type BrokerSink struct {
	bus sharedBus.EventBus
	log *zap.Logger
}

func NewBrokerSink(bus sharedBus.EventBus, log *zap.Logger) *BrokerSink {
	return &BrokerSink{bus: bus, log: log}
}

func (s *BrokerSink) Name() string { return "broker" }

// Send rechaza eventos nil o sin TaskID antes de publicar.
func (s *BrokerSink) Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	if evt == nil {
		s.log.Error("Cannot publish nil change event")
		return taskDomain.ErrNilEvent
	}
	if evt.TaskID == uuid.Nil {
		s.log.Error("Cannot publish change event with empty TaskId", zap.String("event_type", evt.EventType))
		return taskDomain.ErrMissingTaskID
	}

	s.log.Info("Publishing task change event",
		zap.String("task_id", evt.TaskID.String()),
		zap.String("event_type", evt.EventType),
	)

	if err := s.bus.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish change event %s: %w", evt.TaskID, err)
	}
	return nil
}

// NoopSink sustituye al broker cuando está deshabilitado.
type NoopSink struct {
	log *zap.Logger
}

func NewNoopSink(log *zap.Logger) *NoopSink {
	return &NoopSink{log: log}
}

func (s *NoopSink) Name() string { return "noop" }

func (s *NoopSink) Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	s.log.Debug("Broker disabled, change event not published", zap.String("task_id", taskIDOf(evt)))
	return nil
}

// Verificación estática
var (
	_ taskDomain.EventSink = (*BrokerSink)(nil)
	_ taskDomain.EventSink = (*NoopSink)(nil)
)
