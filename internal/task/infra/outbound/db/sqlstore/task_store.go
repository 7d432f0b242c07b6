package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	sharedQuery "github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/taskforge/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL ("pgx")
	_ "modernc.org/sqlite"             // Driver de SQLite ("sqlite")
)

// Dialect selecciona placeholders, driver y dialecto de goose.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DriverName es el nombre con el que se registra el driver en database/sql.
func (d Dialect) DriverName() string {
	return sharedUtils.Ternary(d == DialectPostgres, "pgx", "sqlite")
}

func (d Dialect) gooseDialect() string {
	return sharedUtils.Ternary(d == DialectPostgres, "postgres", "sqlite3")
}

const tasksTable = "tasks"

// taskColumns es la lista compartida de columnas.
var taskColumns = []string{"id", "title", "description", "status", "created_at", "updated_at"}

// TaskStore implementa taskDomain.TaskStore sobre database/sql con Squirrel.
type TaskStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewTaskStore es el constructor del almacén.
func NewTaskStore(db *sql.DB, dialect Dialect) *TaskStore {
	placeholder := sharedUtils.Ternary[sq.PlaceholderFormat](dialect == DialectPostgres, sq.Dollar, sq.Question)
	return &TaskStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Open abre la base de datos y aplica la migración de arranque.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite serializa escrituras; una única conexión evita "database is locked".
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*taskDomain.TaskItem, error) {
	var t taskDomain.TaskItem
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Status = taskDomain.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*taskDomain.TaskItem, error) {
	query, args, err := s.sb.
		Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	return scanTask(s.db.QueryRowContext(ctx, query, args...))
}

func (s *TaskStore) Add(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	query, args, err := s.sb.
		Insert(tasksTable).
		Columns(taskColumns...).
		Values(t.ID.String(), t.Title, t.Description, string(t.Status), t.CreatedAt.UTC(), t.UpdatedAt.UTC()).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	return s.exec(ctx, query, args)
}

func (s *TaskStore) Update(ctx context.Context, t *taskDomain.TaskItem) (int64, error) {
	query, args, err := s.sb.
		Update(tasksTable).
		SetMap(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"updated_at":  t.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": t.ID.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	return s.exec(ctx, query, args)
}

func (s *TaskStore) Remove(ctx context.Context, id uuid.UUID) (int64, error) {
	query, args, err := s.sb.
		Delete(tasksTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	return s.exec(ctx, query, args)
}

func (s *TaskStore) List(ctx context.Context, page sharedQuery.OffsetPagination) ([]*taskDomain.TaskItem, int, error) {
	countQuery, countArgs, err := s.sb.Select("COUNT(*)").From(tasksTable).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	builder := s.sb.
		Select(taskColumns...).
		From(tasksTable).
		OrderBy("created_at DESC", "id")
	if !page.Unbounded() {
		builder = builder.Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*taskDomain.TaskItem, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskStore) exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	return rows, nil
}

// Verificación estática
var _ taskDomain.TaskStore = (*TaskStore)(nil)
