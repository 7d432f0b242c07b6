package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	sharedEvents "github.com/davicafu/taskforge/internal/shared/events"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// EventArchive guarda cada evento de cambio en ClickHouse para analítica. Es un
// sink más del emisor.
type EventArchive struct {
	db *sql.DB
}

// NewEventArchive abre la conexión y comprueba que responde.
func NewEventArchive(ctx context.Context, addr, dbName, user, password string) (*EventArchive, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
			Username: user,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &EventArchive{db: conn}, nil
}

// NewEventArchiveFromDB envuelve una conexión ya abierta.
func NewEventArchiveFromDB(db *sql.DB) *EventArchive {
	return &EventArchive{db: db}
}

func (a *EventArchive) Name() string { return "clickhouse-archive" }

const insertEventSQL = `INSERT INTO task_change_events
	(task_id, event_type, title, description, status, event_time, created_at, updated_at)`

// Send inserta el evento. ClickHouse trabaja por lotes, así que el insert va
// en una transacción de un solo elemento.
func (a *EventArchive) Send(ctx context.Context, evt *sharedEvents.TaskChangeEvent) error {
	if evt == nil {
		return taskDomain.ErrNilEvent
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx,
		evt.TaskID,
		evt.EventType,
		evt.Title,
		evt.Description,
		evt.Status,
		evt.EventTimestamp,
		evt.CreatedAt,
		evt.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to archive event for task %s: %w", evt.TaskID, err)
	}

	return tx.Commit()
}

// InitSchema crea la tabla si no existe.
func (a *EventArchive) InitSchema(ctx context.Context) error {
	// Particionada por mes y ordenada por tarea y tiempo del evento.
	query := `
		CREATE TABLE IF NOT EXISTS task_change_events (
			task_id     UUID,
			event_type  LowCardinality(String),
			title       String,
			description String,
			status      LowCardinality(String),
			event_time  DateTime64(3),
			created_at  DateTime64(3),
			updated_at  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (task_id, event_time);
	`
	_, err := a.db.ExecContext(ctx, query)
	return err
}

func (a *EventArchive) Close() error {
	return a.db.Close()
}

// Verificación estática de la interfaz.
var _ taskDomain.EventSink = (*EventArchive)(nil)
