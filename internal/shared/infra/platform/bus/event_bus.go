package bus

import "context"

// Keyer lo implementan los eventos que eligen su clave de partición.
type Keyer interface {
	PartitionKey() string
}

// Typer lo implementan los eventos que declaran su tipo de cambio.
type Typer interface {
	ChangeType() string
}

// La semántica de topic/nombre y formato del payload la decides en los adapters.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// CorrelationHTTPHeader es la cabecera HTTP que transporta el correlation id.
const CorrelationHTTPHeader = "X-Correlation-ID"

type correlationKey struct{}

// WithCorrelationID adjunta un correlation id que los adapters propagan como cabecera.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID devuelve el correlation id del contexto, o "" si no hay.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
