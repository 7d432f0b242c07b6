// en internal/task/application/task_service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	// --- Importaciones del dominio y compartidas ---
	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	sharedCache "github.com/davicafu/taskforge/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/taskforge/internal/shared/infra/utils"
	"github.com/davicafu/taskforge/internal/shared/result"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lookupAttempts   = 3
	lookupRetryDelay = 100 * time.Millisecond
)

// ListQuery es la consulta de listado. Un *ListQuery nil es un error del llamante.
type ListQuery struct {
	Params sharedQuery.PagingParams
}

// TaskService implementa los casos de uso de TaskItem. Cada operación devuelve
// un Outcome con el resultado de negocio; el error queda para abortos
// (cancelación, fallos de infraestructura).
type TaskService struct {
	store   taskDomain.TaskStore
	cache   sharedCache.Cache
	emitter *Emitter
	log     *zap.Logger
}

// NewTaskService es el constructor. cache y emitter pueden ser nil.
func NewTaskService(store taskDomain.TaskStore, cache sharedCache.Cache, emitter *Emitter, log *zap.Logger) *TaskService {
	return &TaskService{
		store:   store,
		cache:   cache,
		emitter: emitter,
		log:     log,
	}
}

// Create persiste una tarea nueva. Asigna id si viene vacío.
func (s *TaskService) Create(ctx context.Context, item *taskDomain.TaskItem) (*result.Outcome[*taskDomain.TaskItem], error) {
	if item == nil {
		return nil, taskDomain.ErrNilCommand
	}
	task := item.Clone()
	task.PrepareForCreate(time.Now())

	s.log.Info("Executing command: create task item",
		zap.String("task_id", task.ID.String()),
		zap.String("title", task.Title),
	)

	rows, err := s.store.Add(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("add task %s: %w", task.ID, err)
	}
	if rows == 0 {
		s.log.Error("Failed to create task item", zap.String("task_id", task.ID.String()))
		return result.Failure[*taskDomain.TaskItem](taskDomain.MsgCreateFailed), nil
	}

	s.emit(ctx, task, sharedEvents.TaskCreated)

	return result.Success(task), nil
}

// Edit copia título, descripción y estado sobre la tarea guardada.
func (s *TaskService) Edit(ctx context.Context, id uuid.UUID, edit *taskDomain.TaskItem) (*result.Outcome[result.Unit], error) {
	if edit == nil {
		return nil, taskDomain.ErrNilCommand
	}
	s.log.Info("Executing command: edit task item", zap.String("task_id", id.String()))

	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task item not found for update", zap.String("task_id", id.String()))
			return result.Failure[result.Unit](taskDomain.MsgTaskNotFound), nil
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}

	task.ApplyEdit(edit, time.Now())

	rows, err := s.store.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	if rows == 0 {
		s.log.Error("Failed to update task item", zap.String("task_id", id.String()))
		return result.Failure[result.Unit](taskDomain.MsgUpdateFailed), nil
	}

	sharedCache.InvalidateCache(ctx, s.cache, taskDomain.TaskCacheKeyByID(id), s.log)
	s.emit(ctx, task, sharedEvents.TaskUpdated)

	return result.Success(result.Unit{}), nil
}

// Delete elimina la tarea. El evento lleva el estado previo al borrado.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) (*result.Outcome[result.Unit], error) {
	s.log.Info("Executing command: delete task item", zap.String("task_id", id.String()))

	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task item not found for delete", zap.String("task_id", id.String()))
			return result.Failure[result.Unit](taskDomain.MsgTaskNotFound), nil
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}

	rows, err := s.store.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove task %s: %w", id, err)
	}
	if rows == 0 {
		s.log.Error("Failed to delete task item", zap.String("task_id", id.String()))
		return result.Failure[result.Unit](taskDomain.MsgDeleteFailed), nil
	}

	sharedCache.InvalidateCache(ctx, s.cache, taskDomain.TaskCacheKeyByID(id), s.log)
	s.emit(ctx, task, sharedEvents.TaskDeleted)

	return result.Success(result.Unit{}), nil
}

// List devuelve las tareas de la más reciente a la más antigua. Sin parámetros
// de página devuelve todas.
func (s *TaskService) List(ctx context.Context, q *ListQuery) (*result.Outcome[*sharedQuery.PagedList[*taskDomain.TaskItem]], error) {
	if q == nil {
		return nil, taskDomain.ErrNilQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Info("Executing query: list task items")

	tasks, total, err := s.store.List(ctx, q.Params.ToOffset())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	s.log.Info("Query list task items completed", zap.Int("count", len(tasks)), zap.Int("total", total))
	return result.Success(sharedQuery.NewPagedList(tasks, total, q.Params)), nil
}

// Details obtiene una tarea usando el patrón cache-aside con reintentos.
func (s *TaskService) Details(ctx context.Context, id uuid.UUID) (*result.Outcome[*taskDomain.TaskItem], error) {
	// 1. Intentar obtener de la caché
	if s.cache != nil {
		var cached taskDomain.TaskItem
		if hit, _ := s.cache.Get(ctx, taskDomain.TaskCacheKeyByID(id), &cached); hit {
			return result.Success(&cached), nil
		}
	}

	// 2. Si es 'miss', ir al almacén con reintentos; "no encontrado" no se reintenta
	var task *taskDomain.TaskItem
	err := sharedUtils.Retry(ctx, lookupAttempts, lookupRetryDelay, func() error {
		var errRetry error
		task, errRetry = s.store.FindByID(ctx, id)
		if errors.Is(errRetry, taskDomain.ErrTaskNotFound) ||
			errors.Is(errRetry, context.Canceled) ||
			errors.Is(errRetry, context.DeadlineExceeded) {
			return sharedUtils.Permanent(errRetry)
		}
		return errRetry
	})

	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task item not found", zap.String("task_id", id.String()))
			return result.Failure[*taskDomain.TaskItem](taskDomain.MsgTaskNotFound), nil
		}
		s.log.Error("Failed to fetch task item", zap.String("task_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}

	// 3. Guardar en caché antes de responder (TTL por defecto de la caché)
	if task != nil {
		sharedCache.StoreInCache(ctx, s.cache, taskDomain.TaskCacheKeyByID(id), task, 0, s.log)
	}

	return result.Success(task), nil
}

func (s *TaskService) emit(ctx context.Context, task *taskDomain.TaskItem, eventType string) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, task, eventType)
}
