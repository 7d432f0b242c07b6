// en internal/eventlog/infra/inbound/http/events_handler.go
package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/eventlog/application"
	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	"github.com/davicafu/taskforge/pkg/utils"
)

const (
	msgEventRequired  = "Task event is required"
	msgTaskIDRequired = "TaskId is required"
	msgInvalidTaskID  = "Invalid task ID"
	msgEventLogged    = "Event logged successfully"
)

// logEventResponse es la respuesta de POST /events.
type logEventResponse struct {
	Message string    `json:"message"`
	TaskID  uuid.UUID `json:"taskId"`
}

// EventsHandler encapsula los endpoints del registro de eventos.
type EventsHandler struct {
	logger *application.EventLogger
	log    *zap.Logger
}

func NewEventsHandler(logger *application.EventLogger, log *zap.Logger) *EventsHandler {
	return &EventsHandler{logger: logger, log: log}
}

// LogEvent endpoint POST /events
func (h *EventsHandler) LogEvent(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	// Cuerpo vacío o literal null: no hay evento
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		utils.SendBadRequest(c, msgEventRequired)
		return
	}

	var evt sharedEvents.TaskChangeEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		h.log.Warn("Rejected malformed task event", zap.Error(err))
		utils.SendBadRequest(c, err.Error())
		return
	}
	if evt.TaskID == uuid.Nil {
		utils.SendBadRequest(c, msgTaskIDRequired)
		return
	}

	h.logger.LogEvent(&evt)
	c.JSON(http.StatusOK, logEventResponse{Message: msgEventLogged, TaskID: evt.TaskID})
}

// ListEvents endpoint GET /events
func (h *EventsHandler) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.logger.ListAllEvents())
}

// ListEventsByTask endpoint GET /events/:taskId
func (h *EventsHandler) ListEventsByTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("taskId"))
	if err != nil || id == uuid.Nil {
		utils.SendBadRequest(c, msgInvalidTaskID)
		return
	}
	c.JSON(http.StatusOK, h.logger.ListEventsByTaskID(id))
}
