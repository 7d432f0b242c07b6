package events

import (
	"encoding/json"
	"time"
)

// Envelope es la base de todos los mensajes de integración que viajan por un bus.
// Lleva los metadatos de transporte que el consumidor registra.
type Envelope struct {
	MessageID     string          `json:"messageId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	SourceAddress string          `json:"sourceAddress,omitempty"`
	Type          string          `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"` // contenido específico del evento
}

// Cabeceras de transporte en brokers que las soportan (Kafka).
const (
	HeaderMessageID     = "message-id"
	HeaderCorrelationID = "correlation-id"
	HeaderSourceAddress = "source-address"
	HeaderEventType     = "event-type"
)
