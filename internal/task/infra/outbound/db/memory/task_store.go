package memory

import (
	"context"
	"sort"
	"sync"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
)

// TaskStore guarda las tareas en un mapa. Devuelve siempre copias para que nadie
// modifique el estado guardado sin pasar por Update.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*taskDomain.TaskItem
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uuid.UUID]*taskDomain.TaskItem)}
}

func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*taskDomain.TaskItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Add no sobrescribe: un id repetido devuelve 0 filas.
func (s *TaskStore) Add(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; ok {
		return 0, nil
	}
	s.tasks[t.ID] = t.Clone()
	return 1, nil
}

func (s *TaskStore) Update(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return 0, nil
	}
	s.tasks[t.ID] = t.Clone()
	return 1, nil
}

func (s *TaskStore) Remove(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return 0, nil
	}
	delete(s.tasks, id)
	return 1, nil
}

func (s *TaskStore) List(ctx context.Context, page sharedQuery.OffsetPagination) ([]*taskDomain.TaskItem, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	all := make([]*taskDomain.TaskItem, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t.Clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if page.Unbounded() {
		return all, total, nil
	}
	if page.Offset >= total {
		return []*taskDomain.TaskItem{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return all[page.Offset:end], total, nil
}

// Verificación estática
var _ taskDomain.TaskStore = (*TaskStore)(nil)
