package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic con canales.
// Cada mensaje viaja como un sharedEvents.Envelope serializado.
type InMemoryEventBus struct {
	subscribers   []chan []byte
	mu            sync.RWMutex
	closed        bool
	topic         string
	sourceAddress string
	log           *zap.Logger
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus crea un bus de eventos para un topic específico.
func NewInMemoryEventBus(topic, sourceAddress string, log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers:   make([]chan []byte, 0),
		topic:         topic,
		sourceAddress: sourceAddress,
		log:           log,
	}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish envuelve el evento y lo entrega a todos los suscriptores. Si el buffer
// de un suscriptor está lleno espera hasta que ctx termine.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	env := sharedEvents.Envelope{
		MessageID:     uuid.NewString(),
		CorrelationID: sharedBus.CorrelationID(ctx),
		SourceAddress: b.sourceAddress,
		Timestamp:     time.Now().UTC(),
		Data:          data,
	}
	if env.CorrelationID == "" {
		env.CorrelationID = env.MessageID
	}
	if typer, ok := event.(sharedBus.Typer); ok {
		env.Type = typer.ChangeType()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("in-memory bus %q is closed", b.topic)
	}

	for _, sub := range b.subscribers {
		select {
		case sub <- payload:
		case <-ctx.Done():
			b.log.Warn("⚠️ In-memory bus delivery abandoned",
				zap.String("topic", b.topic),
				zap.String("message_id", env.MessageID),
				zap.Error(ctx.Err()),
			)
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan []byte, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// Close cierra los canales de los suscriptores. Publish posterior falla.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subscribers {
		close(sub)
	}
}
