// en internal/task/infra/inbound/http/task_handler.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	"github.com/davicafu/taskforge/internal/task/application"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/davicafu/taskforge/pkg/utils"
)

const msgInvalidTaskID = "Invalid task ID"

// taskRequest es el cuerpo de POST y PUT. El id sólo se usa en POST.
type taskRequest struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" binding:"required,max=500"`
	Description string    `json:"description" binding:"max=2000"`
	Status      string    `json:"status" binding:"omitempty,oneof=New InProgress Completed Pending"`
}

func (r taskRequest) toDomain() *taskDomain.TaskItem {
	return &taskDomain.TaskItem{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      taskDomain.TaskStatus(r.Status),
	}
}

// TaskHandler encapsula los endpoints HTTP relacionados con Task.
type TaskHandler struct {
	service *application.TaskService
	log     *zap.Logger
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service *application.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{service: service, log: log}
}

// --- Handlers CRUD ---

// CreateTask endpoint POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.HandleResult(c, outcome)
}

// GetTask endpoint GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	outcome, err := h.service.Details(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.HandleResult(c, outcome)
}

// UpdateTask endpoint PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.Edit(c.Request.Context(), id, req.toDomain())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.HandleResult(c, outcome)
}

// DeleteTask endpoint DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	outcome, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.HandleResult(c, outcome)
}

// ListTasks endpoint GET /tasks?pageNumber=&pageSize=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var params sharedQuery.PagingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.List(c.Request.Context(), &application.ListQuery{Params: params})
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.HandlePagedResult(c, outcome)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, msgInvalidTaskID)
		return uuid.Nil, false
	}
	return id, true
}
