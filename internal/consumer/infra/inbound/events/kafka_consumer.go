// en internal/consumer/infra/inbound/events/kafka_consumer.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/consumer/application"
	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedInfraEvents "github.com/davicafu/taskforge/internal/shared/infra/events"
	sharedUtils "github.com/davicafu/taskforge/internal/shared/infra/utils"
)

// Cabeceras añadidas a los mensajes que acaban en la cola de errores.
const (
	HeaderErrorMessage  = "error-message"
	HeaderOriginalTopic = "original-topic"
)

// DeliveryHandler es lo que el adapter necesita del consumidor.
type DeliveryHandler interface {
	Consume(ctx context.Context, d application.Delivery) error
}

// MessageReader es la parte de *kafka.Reader que usa el adapter.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
}

// RedeliveryPolicy: Retries reintentos además del primer intento, separados por Interval.
type RedeliveryPolicy struct {
	Retries  int
	Interval time.Duration
}

// NewKafkaReader crea el reader del grupo de consumo. El offset se confirma a mano.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// ConsumerAdapter es el "oído" que escucha en Kafka. Los mensajes que agotan los
// reintentos van a la cola de errores y después se confirma el offset.
type ConsumerAdapter struct {
	reader    MessageReader
	dlq       sharedInfraEvents.MessageWriter
	handler   DeliveryHandler
	policy    RedeliveryPolicy
	heartbeat time.Duration
	log       *zap.Logger
}

// NewConsumerAdapter es el constructor. dlq puede ser nil: los mensajes agotados
// sólo se registran.
func NewConsumerAdapter(reader MessageReader, dlq sharedInfraEvents.MessageWriter, handler DeliveryHandler, policy RedeliveryPolicy, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{
		reader:  reader,
		dlq:     dlq,
		handler: handler,
		policy:  policy,
		log:     log,
	}
}

// WithHeartbeat activa un log periódico mientras el adapter está vivo.
func (c *ConsumerAdapter) WithHeartbeat(interval time.Duration) *ConsumerAdapter {
	c.heartbeat = interval
	return c
}

// Start inicia el bucle de consumo de mensajes en una goroutine.
func (c *ConsumerAdapter) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	return done
}

// Run consume hasta que ctx se cancela.
func (c *ConsumerAdapter) Run(ctx context.Context) {
	cfg := c.reader.Config()
	c.log.Info("🎧 Iniciando consumidor de Kafka...",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
		zap.Int("retries", c.policy.Retries),
		zap.Duration("retry_interval", c.policy.Interval),
	)

	if c.heartbeat > 0 {
		go c.beat(ctx, cfg.Topic)
	}

	for {
		// FetchMessage no confirma; el commit llega tras procesar o enviar a la DLQ.
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Si el contexto se cancela, el error es normal y salimos limpiamente.
			if ctx.Err() != nil {
				c.log.Info("Consumidor de Kafka detenido.", zap.String("topic", cfg.Topic))
				return
			}
			c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
			continue
		}

		if !c.handleMessage(ctx, msg) {
			// Sin commit: el mensaje se vuelve a leer al reiniciar.
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("Error al confirmar offset", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleMessage aplica la política de reintentos. Devuelve false si ctx se canceló
// antes de resolver el mensaje.
func (c *ConsumerAdapter) handleMessage(ctx context.Context, msg kafka.Message) bool {
	delivery, err := DeliveryFromMessage(msg)
	if err != nil {
		c.log.Warn("Mensaje ilegible, se envía a la cola de errores",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		c.deadLetter(ctx, msg, err)
		return true
	}

	err = ConsumeWithRetry(ctx, c.handler, delivery, c.policy)
	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	c.log.Error("Reintentos agotados, se envía a la cola de errores",
		zap.String("message_id", delivery.MessageID),
		zap.Int("retries", c.policy.Retries),
		zap.Error(err),
	)
	c.deadLetter(ctx, msg, err)
	return true
}

func (c *ConsumerAdapter) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlq == nil {
		return
	}

	headers := make([]kafka.Header, 0, len(msg.Headers)+2)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderErrorMessage, Value: []byte(cause.Error())},
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
	)

	err := c.dlq.WriteMessages(ctx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		c.log.Error("Error al escribir en la cola de errores", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

func (c *ConsumerAdapter) beat(ctx context.Context, topic string) {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	started := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.log.Info("💓 Consumer heartbeat",
				zap.String("topic", topic),
				zap.Duration("uptime", time.Since(started).Round(time.Second)),
			)
		}
	}
}

// ConsumeWithRetry entrega d al handler. Sólo un *application.RetryableError
// provoca reintento; cualquier otro error se devuelve de inmediato.
func ConsumeWithRetry(ctx context.Context, handler DeliveryHandler, d application.Delivery, policy RedeliveryPolicy) error {
	return sharedUtils.Retry(ctx, policy.Retries+1, policy.Interval, func() error {
		err := handler.Consume(ctx, d)
		if err == nil {
			return nil
		}
		var retryable *application.RetryableError
		if errors.As(err, &retryable) {
			return err
		}
		return sharedUtils.Permanent(err)
	})
}

// DeliveryFromMessage extrae las cabeceras y decodifica el valor. Un valor null
// o vacío produce una entrega sin evento.
func DeliveryFromMessage(msg kafka.Message) (application.Delivery, error) {
	d := application.Delivery{}
	for _, h := range msg.Headers {
		switch h.Key {
		case sharedEvents.HeaderMessageID:
			d.MessageID = string(h.Value)
		case sharedEvents.HeaderCorrelationID:
			d.CorrelationID = string(h.Value)
		case sharedEvents.HeaderSourceAddress:
			d.SourceAddress = string(h.Value)
		}
	}
	d.MessageID = sharedUtils.Coalesce(d.MessageID, fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset))

	if len(msg.Value) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(msg.Value, &d.Event); err != nil {
		return d, fmt.Errorf("decode task change event: %w", err)
	}
	return d, nil
}
