package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scheduling-api/core/database"
	"scheduling-api/core/logger"
	"scheduling-api/modules/slot/entity"
)

const slotColumns = "id, timetable_id, start_time, end_time, taken, metadata, created_at, updated_at"

// ListFilter narrows slot listings. Zero values mean "no constraint".
type ListFilter struct {
	TimetableID  *uuid.UUID
	Taken        *bool
	MinStartTime *time.Time
	MaxStartTime *time.Time
	MinEndTime   *time.Time
	MaxEndTime   *time.Time
}

type SlotRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Slot, error)
	GetByTimetableID(ctx context.Context, timetableID uuid.UUID) ([]entity.Slot, error)
	Reserve(ctx context.Context, id uuid.UUID) (*entity.Slot, bool, error)
	ReserveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error)
	Free(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	FreeTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	ExistsAt(ctx context.Context, timetableID uuid.UUID, start, end time.Time) (bool, error)
	DeleteExpiredUntaken(ctx context.Context, timetableID uuid.UUID, now time.Time) (int64, error)
	DeleteFutureUntaken(ctx context.Context, timetableID uuid.UUID, now time.Time) (int64, error)
}

type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

func (r *SlotRepository) Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	query := `
		INSERT INTO slots (timetable_id, start_time, end_time, taken, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + slotColumns

	var created entity.Slot
	err := r.DB.GetContext(ctx, &created, query,
		slot.TimetableID, slot.StartTime, slot.EndTime, slot.Taken, slot.Metadata)
	if err != nil {
		logger.Error("SlotRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) List(ctx context.Context, filter ListFilter) ([]entity.Slot, error) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TimetableID != nil {
		conditions = append(conditions, "timetable_id = "+arg(*filter.TimetableID))
	}
	if filter.Taken != nil {
		conditions = append(conditions, "taken = "+arg(*filter.Taken))
	}
	if filter.MinStartTime != nil {
		conditions = append(conditions, "start_time >= "+arg(*filter.MinStartTime))
	}
	if filter.MaxStartTime != nil {
		conditions = append(conditions, "start_time <= "+arg(*filter.MaxStartTime))
	}
	if filter.MinEndTime != nil {
		conditions = append(conditions, "end_time >= "+arg(*filter.MinEndTime))
	}
	if filter.MaxEndTime != nil {
		conditions = append(conditions, "end_time <= "+arg(*filter.MaxEndTime))
	}

	query := `SELECT ` + slotColumns + ` FROM slots`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time"

	var slots []entity.Slot
	if err := r.DB.SelectContext(ctx, &slots, query, args...); err != nil {
		logger.Error("SlotRepository:List", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) GetByTimetableID(ctx context.Context, timetableID uuid.UUID) ([]entity.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE timetable_id = $1 ORDER BY start_time`

	var slots []entity.Slot
	if err := r.DB.SelectContext(ctx, &slots, query, timetableID); err != nil {
		logger.Error("SlotRepository:GetByTimetableID", err)
		return nil, err
	}
	return slots, nil
}

// Reserve performs the conditional claim: the taken flag flips only when it
// was observed false, in one statement, so two concurrent reserves on the
// same slot serialize and exactly one wins. The second return value reports
// whether this call won.
func (r *SlotRepository) Reserve(ctx context.Context, id uuid.UUID) (*entity.Slot, bool, error) {
	query := `
		UPDATE slots SET taken = true, updated_at = NOW()
		WHERE id = $1 AND taken = false
		RETURNING ` + slotColumns

	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logger.Error("SlotRepository:Reserve", err)
		return nil, false, err
	}
	return &slot, true, nil
}

// ReserveTx is Reserve inside an enclosing transaction, for transitions that
// must commit the slot claim together with the event mutation.
func (r *SlotRepository) ReserveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE slots SET taken = true, updated_at = NOW() WHERE id = $1 AND taken = false`, id)
	if err != nil {
		logger.Error("SlotRepository:ReserveTx", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Free unconditionally clears the taken flag; freeing a free slot is a no-op.
func (r *SlotRepository) Free(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		UPDATE slots SET taken = false, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + slotColumns

	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:Free", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) FreeTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE slots SET taken = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		logger.Error("SlotRepository:FreeTx", err)
	}
	return err
}

// ExistsAt reports whether the timetable already has a slot with exactly
// this window; regeneration uses it to keep re-expansion idempotent.
func (r *SlotRepository) ExistsAt(ctx context.Context, timetableID uuid.UUID, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM slots WHERE timetable_id = $1 AND start_time = $2 AND end_time = $3
	)`

	var exists bool
	err := r.DB.QueryRowContext(ctx, query, timetableID, start, end).Scan(&exists)
	if err != nil {
		logger.Error("SlotRepository:ExistsAt", err)
		return false, err
	}
	return exists, nil
}

// DeleteExpiredUntaken prunes slots that expired without ever being booked.
// Booked-but-past slots are retained as history.
func (r *SlotRepository) DeleteExpiredUntaken(ctx context.Context, timetableID uuid.UUID, now time.Time) (int64, error) {
	res, err := r.DB.SQLx().ExecContext(ctx,
		`DELETE FROM slots WHERE timetable_id = $1 AND taken = false AND start_time < $2 AND end_time < $2`,
		timetableID, now)
	if err != nil {
		logger.Error("SlotRepository:DeleteExpiredUntaken", err)
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteFutureUntaken removes not-yet-booked future slots, used before
// re-expanding an edited weekly map.
func (r *SlotRepository) DeleteFutureUntaken(ctx context.Context, timetableID uuid.UUID, now time.Time) (int64, error) {
	res, err := r.DB.SQLx().ExecContext(ctx,
		`DELETE FROM slots WHERE timetable_id = $1 AND taken = false AND start_time >= $2`,
		timetableID, now)
	if err != nil {
		logger.Error("SlotRepository:DeleteFutureUntaken", err)
		return 0, err
	}
	return res.RowsAffected()
}
