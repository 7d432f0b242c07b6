package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
)

// MessageWriter es la parte de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica eventos en JSON. La clave sale de Keyer y las cabeceras
// llevan message-id, correlation-id y source-address.
type KafkaPublisher struct {
	writer        MessageWriter
	sourceAddress string
	log           *zap.Logger
}

func NewKafkaPublisher(writer MessageWriter, sourceAddress string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, sourceAddress: sourceAddress, log: log}
}

// NewKafkaWriter crea el writer para un topic con balanceo por clave, así los
// eventos de una misma tarea conservan el orden dentro de su partición.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	messageID := uuid.NewString()
	correlationID := sharedBus.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = messageID
	}

	headers := []kafka.Header{
		{Key: sharedEvents.HeaderMessageID, Value: []byte(messageID)},
		{Key: sharedEvents.HeaderCorrelationID, Value: []byte(correlationID)},
		{Key: sharedEvents.HeaderSourceAddress, Value: []byte(p.sourceAddress)},
	}
	if typer, ok := event.(sharedBus.Typer); ok {
		headers = append(headers, kafka.Header{Key: sharedEvents.HeaderEventType, Value: []byte(typer.ChangeType())})
	}

	msg := kafka.Message{
		Key:     key,
		Value:   data,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("message_id", messageID), zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully",
		zap.String("message_id", messageID),
		zap.String("key", string(key)),
	)
	return nil
}

// Verificación estática
var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
