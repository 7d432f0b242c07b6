package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"go.uber.org/zap"
)

// DefaultHTTPTimeout es el timeout del cliente hacia el Event Log.
const DefaultHTTPTimeout = 5 * time.Second

// HTTPSink envía cada evento al servicio de Event Log con un POST síncrono.
// Sin baseURL queda deshabilitado y descarta los eventos.
type HTTPSink struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPSink crea el sink. Con client nil usa uno propio con DefaultHTTPTimeout.
func NewHTTPSink(baseURL string, client *http.Client, log *zap.Logger) *HTTPSink {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log,
	}
}

func (s *HTTPSink) Name() string { return "eventlog-http" }

func (s *HTTPSink) Enabled() bool { return s.baseURL != "" }

func (s *HTTPSink) Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	if !s.Enabled() {
		s.log.Debug("Event Log URL not configured, skipping event", zap.String("task_id", taskIDOf(evt)))
		return nil
	}
	if evt == nil {
		return taskDomain.ErrNilEvent
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build event log request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := sharedBus.CorrelationID(ctx); id != "" {
		req.Header.Set(sharedBus.CorrelationHTTPHeader, id)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", taskDomain.ErrSinkUnavailable, s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: event log returned %d: %s",
			taskDomain.ErrSinkUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	s.log.Info("✅ Task event sent to Event Log",
		zap.String("task_id", evt.TaskID.String()),
		zap.String("event_type", evt.EventType),
	)
	return nil
}

func taskIDOf(evt *sharedEvents.TaskChangeEvent) string {
	if evt == nil {
		return ""
	}
	return evt.TaskID.String()
}

// Verificación estática
var _ taskDomain.EventSink = (*HTTPSink)(nil)
