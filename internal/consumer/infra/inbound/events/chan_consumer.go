package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/consumer/application"
	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedUtils "github.com/davicafu/taskforge/internal/shared/infra/utils"
)

// ConsumeChan consume sobres del bus en memoria hasta que ctx termina o el
// canal se cierra. Sin cola de errores: los mensajes agotados sólo se registran.
func ConsumeChan(ctx context.Context, ch <-chan []byte, handler DeliveryHandler, policy RedeliveryPolicy, log *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			log.Info("In-memory consumer stopped")
			return
		case payload, ok := <-ch:
			if !ok {
				log.Info("In-memory bus closed, consumer stopped")
				return
			}
			_ = sharedUtils.UnmarshalAndHandle(log, payload, func(env sharedEvents.Envelope) error {
				return handleEnvelope(ctx, env, handler, policy, log)
			})
		}
	}
}

// BackgroundConsumerChan inicia ConsumeChan en una goroutine.
func BackgroundConsumerChan(ctx context.Context, ch <-chan []byte, handler DeliveryHandler, policy RedeliveryPolicy, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ConsumeChan(ctx, ch, handler, policy, log)
	}()
	return done
}

func handleEnvelope(ctx context.Context, env sharedEvents.Envelope, handler DeliveryHandler, policy RedeliveryPolicy, log *zap.Logger) error {
	d := application.Delivery{
		MessageID:     env.MessageID,
		CorrelationID: env.CorrelationID,
		SourceAddress: env.SourceAddress,
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &d.Event); err != nil {
			log.Warn("Failed to decode task change event", zap.String("message_id", env.MessageID), zap.Error(err))
			return err
		}
	}

	if err := ConsumeWithRetry(ctx, handler, d, policy); err != nil {
		if ctx.Err() == nil {
			log.Error("Retries exhausted, message dropped", zap.String("message_id", env.MessageID), zap.Error(err))
		}
		return err
	}
	return nil
}
