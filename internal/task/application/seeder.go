package application

import (
	"context"
	"fmt"
	"time"

	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const day = 24 * time.Hour

// seedTask describe una tarea de ejemplo con fechas relativas al arranque.
type seedTask struct {
	title       string
	description string
	status      taskDomain.TaskStatus
	createdAgo  time.Duration
	updatedAgo  time.Duration
}

var seedTasks = []seedTask{
	{"Finish the API project", "Complete the REST API for the task management system", taskDomain.TaskInProgress, 5 * day, 2 * time.Hour},
	{"Write unit tests", "Add unit tests for services and handlers", taskDomain.TaskPending, 3 * day, 3 * day},
	{"Code review", "Review the code of pull request #42", taskDomain.TaskCompleted, 7 * day, 1 * day},
	{"Update documentation", "Update the README and add API usage examples", taskDomain.TaskPending, 2 * day, 2 * day},
	{"Fix the authorization bug", "Fix the authorization token expiry issue", taskDomain.TaskInProgress, 1 * day, 1 * time.Hour},
	{"Database optimization", "Add indexes to speed up queries", taskDomain.TaskPending, 12 * time.Hour, 12 * time.Hour},
	{"External API integration", "Integrate with the notification delivery service", taskDomain.TaskCompleted, 10 * day, 3 * day},
	{"Service refactoring", "Refactor the service layer for readability", taskDomain.TaskInProgress, 4 * day, 3 * time.Hour},
	{"Production deploy", "Deploy the latest version to the production server", taskDomain.TaskPending, 6 * day, 6 * day},
	{"Monitoring setup", "Set up performance monitoring and logging", taskDomain.TaskCompleted, 8 * day, 4 * day},
}

// SeedTasks carga las tareas de ejemplo si el almacén está vacío y devuelve
// cuántas añadió. Con datos previos no hace nada. No emite eventos de cambio.
func SeedTasks(ctx context.Context, store taskDomain.TaskStore, now time.Time, log *zap.Logger) (int, error) {
	_, total, err := store.List(ctx, sharedQuery.OffsetPagination{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("check existing tasks: %w", err)
	}
	if total > 0 {
		log.Debug("Store already has tasks, skipping seed", zap.Int("total", total))
		return 0, nil
	}

	now = now.UTC()
	added := 0
	for _, s := range seedTasks {
		task := &taskDomain.TaskItem{
			ID:          uuid.New(),
			Title:       s.title,
			Description: s.description,
			Status:      s.status,
			CreatedAt:   now.Add(-s.createdAgo),
			UpdatedAt:   now.Add(-s.updatedAgo),
		}
		rows, err := store.Add(ctx, task)
		if err != nil {
			return added, fmt.Errorf("seed task %q: %w", s.title, err)
		}
		if rows == 0 {
			return added, fmt.Errorf("seed task %q: no rows affected", s.title)
		}
		added++
	}

	log.Info("🌱 Seeded sample tasks", zap.Int("count", added))
	return added, nil
}
