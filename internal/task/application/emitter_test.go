package application

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmitter_FailingSinkDoesNotAffectOthers(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.ErrorLevel)
	broken := &recordingSink{name: "roto", err: errors.New("503")}
	panicky := &recordingSink{name: "pánico", panic: true}
	healthy := &recordingSink{name: "sano"}
	emitter := NewEmitter([]taskDomain.EventSink{broken, panicky, healthy}, time.Second, zap.New(core))
	task := &taskDomain.TaskItem{ID: uuid.New(), Title: "t", Status: taskDomain.TaskNew}

	// Act
	emitter.Emit(context.Background(), task, sharedEvents.TaskCreated)
	emitter.Wait()

	// Assert
	require.Len(t, healthy.Events(), 1)
	assert.Equal(t, task.ID, healthy.Events()[0].TaskID)
	assert.Equal(t, 1, logs.FilterMessage("Failed to send change event").Len())
	assert.Equal(t, 1, logs.FilterMessage("🔥 Panic while sending change event").Len())
}

func TestEmitter_EachSinkGetsItsOwnCopy(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	emitter := NewEmitter([]taskDomain.EventSink{a, b}, time.Second, zap.NewNop())

	emitter.Emit(context.Background(), &taskDomain.TaskItem{ID: uuid.New(), Title: "t"}, sharedEvents.TaskUpdated)
	emitter.Wait()

	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
	assert.NotSame(t, a.Events()[0], b.Events()[0])
	assert.Equal(t, *a.Events()[0], *b.Events()[0])
}

func TestEmitter_SnapshotIsTakenAtEmitTime(t *testing.T) {
	sink := &recordingSink{name: "s"}
	emitter := NewEmitter([]taskDomain.EventSink{sink}, time.Second, zap.NewNop())
	task := &taskDomain.TaskItem{ID: uuid.New(), Title: "antes"}

	emitter.Emit(context.Background(), task, sharedEvents.TaskUpdated)
	task.Title = "después"
	emitter.Wait()

	require.Len(t, sink.Events(), 1)
	assert.Equal(t, "antes", sink.Events()[0].Title)
}

func TestEmitter_NilTaskIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sink := &recordingSink{name: "s"}
	emitter := NewEmitter([]taskDomain.EventSink{sink}, time.Second, zap.New(core))

	emitter.Emit(context.Background(), nil, sharedEvents.TaskDeleted)
	emitter.Wait()

	assert.Empty(t, sink.Events())
	assert.Equal(t, 1, logs.FilterMessage("Dropping change event: missing task state").Len())
}

func TestNewEmitter_DefaultTimeout(t *testing.T) {
	emitter := NewEmitter(nil, 0, zap.NewNop())

	assert.Equal(t, DefaultEmitTimeout, emitter.timeout)
}

// ctxSink guarda lo que ve del contexto recibido.
type ctxSink struct {
	correlationID string
	ctxErr        error
}

func (s *ctxSink) Name() string { return "ctx" }

func (s *ctxSink) Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	s.correlationID = sharedBus.CorrelationID(ctx)
	s.ctxErr = ctx.Err()
	return nil
}

func TestEmitter_KeepsCorrelationIDButNotCancellation(t *testing.T) {
	// Arrange
	sink := &ctxSink{}
	emitter := NewEmitter([]taskDomain.EventSink{sink}, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(sharedBus.WithCorrelationID(context.Background(), "corr-7"))
	cancel() // la petición ya respondió

	// Act
	emitter.Emit(ctx, &taskDomain.TaskItem{ID: uuid.New(), Title: "t"}, sharedEvents.TaskCreated)
	emitter.Wait()

	// Assert
	assert.Equal(t, "corr-7", sink.correlationID)
	assert.NoError(t, sink.ctxErr)
}
