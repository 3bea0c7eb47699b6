package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"scheduling-api/core/database"
	"scheduling-api/core/logger"
	"scheduling-api/modules/event/entity"
)

const eventColumns = "id, status, slot_id, title, member, metadata, created_at, updated_at"

type ListFilter struct {
	Statuses []entity.EventStatus
	SlotID   *uuid.UUID
	Member   string
	Title    string
	Limit    int
	Offset   int
}

type EventRepositoryInterface interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Event, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error
	AppendHistoryTx(ctx context.Context, tx *sqlx.Tx, entry *entity.HistoryEntry) error
	GetHistory(ctx context.Context, eventID uuid.UUID) ([]entity.HistoryEntry, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// CreateTx inserts the event inside the transaction that also claims its
// slot, so a failed claim leaves no event behind.
func (r *EventRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (status, slot_id, title, member, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + eventColumns

	var created entity.Event
	err := tx.GetContext(ctx, &created, query,
		event.Status, event.SlotID, event.Title, event.Member, event.Metadata)
	if err != nil {
		logger.Error("EventRepository:CreateTx", err)
		return nil, err
	}
	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}

	history, err := r.GetHistory(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.History = history
	return &event, nil
}

func buildConditions(filter ListFilter) ([]string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, "status = ANY("+arg(pq.Array(statuses))+")")
	}
	if filter.SlotID != nil {
		conditions = append(conditions, "slot_id = "+arg(*filter.SlotID))
	}
	if filter.Member != "" {
		conditions = append(conditions, "member = "+arg(filter.Member))
	}
	if filter.Title != "" {
		conditions = append(conditions, "title ILIKE "+arg("%"+filter.Title+"%"))
	}
	return conditions, args
}

func (r *EventRepository) List(ctx context.Context, filter ListFilter) ([]entity.Event, error) {
	conditions, args := buildConditions(filter)

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Error("EventRepository:List", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Count(ctx context.Context, filter ListFilter) (int, error) {
	conditions, args := buildConditions(filter)

	query := `SELECT COUNT(*) FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, query, args...); err != nil {
		logger.Error("EventRepository:Count", err)
		return 0, err
	}
	return total, nil
}

// UpdateTx persists the status/slot mutation. History is written separately
// and last, via AppendHistoryTx, inside the same transaction.
func (r *EventRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error {
	query := `
		UPDATE events
		SET status = $2, slot_id = $3, title = $4, member = $5, metadata = $6, updated_at = NOW()
		WHERE id = $1`

	_, err := tx.ExecContext(ctx, query,
		event.ID, event.Status, event.SlotID, event.Title, event.Member, event.Metadata)
	if err != nil {
		logger.Error("EventRepository:UpdateTx", err)
	}
	return err
}

func (r *EventRepository) AppendHistoryTx(ctx context.Context, tx *sqlx.Tx, entry *entity.HistoryEntry) error {
	query := `
		INSERT INTO event_history (event_id, author, comment, metadata)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.ExecContext(ctx, query,
		entry.EventID, entry.Author, entry.Comment, entry.Metadata)
	if err != nil {
		logger.Error("EventRepository:AppendHistoryTx", err)
	}
	return err
}

func (r *EventRepository) GetHistory(ctx context.Context, eventID uuid.UUID) ([]entity.HistoryEntry, error) {
	query := `
		SELECT id, event_id, author, comment, metadata, created_at
		FROM event_history
		WHERE event_id = $1
		ORDER BY created_at, id`

	var history []entity.HistoryEntry
	if err := r.DB.SelectContext(ctx, &history, query, eventID); err != nil {
		logger.Error("EventRepository:GetHistory", err)
		return nil, err
	}
	return history, nil
}

func (r *EventRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_history WHERE event_id = $1`, id); err != nil {
		logger.Error("EventRepository:DeleteTx:History", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("EventRepository:DeleteTx", err)
		return err
	}
	return nil
}
