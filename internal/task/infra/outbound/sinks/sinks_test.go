package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleEvent() *sharedEvents.TaskChangeEvent {
	now := time.Now().UTC()
	return &sharedEvents.TaskChangeEvent{
		TaskID:         uuid.New(),
		EventType:      sharedEvents.TaskCreated,
		Title:          "Evento",
		Status:         "New",
		EventTimestamp: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// -------------------- HTTPSink --------------------

func TestHTTPSink_PostsEvent(t *testing.T) {
	// Arrange
	var received sharedEvents.TaskChangeEvent
	var path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL+"/", nil, zap.NewNop())
	evt := sampleEvent()

	// Act
	err := sink.Send(context.Background(), evt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/events", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, evt.TaskID, received.TaskID)
	assert.Equal(t, evt.EventType, received.EventType)
}

func TestHTTPSink_PropagatesCorrelationID(t *testing.T) {
	var correlation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlation = r.Header.Get(sharedBus.CorrelationHTTPHeader)
	}))
	defer srv.Close()
	sink := NewHTTPSink(srv.URL, nil, zap.NewNop())

	err := sink.Send(sharedBus.WithCorrelationID(context.Background(), "corr-9"), sampleEvent())

	require.NoError(t, err)
	assert.Equal(t, "corr-9", correlation)
}

func TestHTTPSink_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "caído", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL, nil, zap.NewNop()).Send(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, taskDomain.ErrSinkUnavailable)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPSink_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewHTTPSink(url, nil, zap.NewNop()).Send(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, taskDomain.ErrSinkUnavailable)
}

func TestHTTPSink_DisabledWithoutURL(t *testing.T) {
	sink := NewHTTPSink("", nil, zap.NewNop())

	assert.False(t, sink.Enabled())
	assert.NoError(t, sink.Send(context.Background(), sampleEvent()))
}

func TestHTTPSink_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	sink := NewHTTPSink(srv.URL, &http.Client{Timeout: 20 * time.Millisecond}, zap.NewNop())

	err := sink.Send(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, taskDomain.ErrSinkUnavailable)
}

// -------------------- BrokerSink --------------------

type recordingBus struct {
	published []interface{}
	err       error
}

func (b *recordingBus) Publish(ctx context.Context, event interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, event)
	return nil
}

func TestBrokerSink_Publishes(t *testing.T) {
	bus := &recordingBus{}
	sink := NewBrokerSink(bus, zap.NewNop())
	evt := sampleEvent()

	err := sink.Send(context.Background(), evt)

	require.NoError(t, err)
	require.Len(t, bus.published, 1)
	assert.Same(t, evt, bus.published[0])
}

func TestBrokerSink_RejectsInvalidEvents(t *testing.T) {
	bus := &recordingBus{}
	sink := NewBrokerSink(bus, zap.NewNop())

	assert.ErrorIs(t, sink.Send(context.Background(), nil), taskDomain.ErrNilEvent)

	evt := sampleEvent()
	evt.TaskID = uuid.Nil
	assert.ErrorIs(t, sink.Send(context.Background(), evt), taskDomain.ErrMissingTaskID)

	assert.Empty(t, bus.published)
}

func TestBrokerSink_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	sink := NewBrokerSink(&recordingBus{err: boom}, zap.NewNop())

	err := sink.Send(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, boom)
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink(zap.NewNop())

	assert.Equal(t, "noop", sink.Name())
	assert.NoError(t, sink.Send(context.Background(), sampleEvent()))
}
