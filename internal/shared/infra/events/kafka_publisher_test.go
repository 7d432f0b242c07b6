package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func headerMap(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestKafkaPublisher_Publish(t *testing.T) {
	// Arrange
	writer := new(mockWriter)
	var sent []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	publisher := NewKafkaPublisher(writer, "taskforge-api", zap.NewNop())
	evt := &sharedEvents.TaskChangeEvent{TaskID: uuid.New(), EventType: sharedEvents.TaskUpdated, Title: "k"}
	ctx := sharedBus.WithCorrelationID(context.Background(), "corr-42")

	// Act
	err := publisher.Publish(ctx, evt)

	// Assert
	require.NoError(t, err)
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, evt.TaskID.String(), string(msg.Key))

	headers := headerMap(msg)
	assert.NotEmpty(t, headers[sharedEvents.HeaderMessageID])
	assert.Equal(t, "corr-42", headers[sharedEvents.HeaderCorrelationID])
	assert.Equal(t, "taskforge-api", headers[sharedEvents.HeaderSourceAddress])
	assert.Equal(t, sharedEvents.TaskUpdated, headers[sharedEvents.HeaderEventType])

	var decoded sharedEvents.TaskChangeEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "k", decoded.Title)
	writer.AssertExpectations(t)
}

func TestKafkaPublisher_CorrelationDefaultsToMessageID(t *testing.T) {
	writer := new(mockWriter)
	var sent []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	publisher := NewKafkaPublisher(writer, "src", zap.NewNop())
	require.NoError(t, publisher.Publish(context.Background(), &sharedEvents.TaskChangeEvent{TaskID: uuid.New()}))

	headers := headerMap(sent[0])
	assert.Equal(t, headers[sharedEvents.HeaderMessageID], headers[sharedEvents.HeaderCorrelationID])
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := new(mockWriter)
	boom := errors.New("broker down")
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(boom)

	publisher := NewKafkaPublisher(writer, "src", zap.NewNop())
	err := publisher.Publish(context.Background(), &sharedEvents.TaskChangeEvent{TaskID: uuid.New()})

	assert.ErrorIs(t, err, boom)
}
