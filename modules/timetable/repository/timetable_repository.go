package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"scheduling-api/core/database"
	"scheduling-api/core/logger"
	"scheduling-api/modules/timetable/entity"
)

const timetableColumns = "id, name, slug, owner_id, repeatable, timezone, weekly, created_at, updated_at"

type ListFilter struct {
	Name       string
	OwnerID    *uuid.UUID
	Repeatable *bool
}

type TimetableRepositoryInterface interface {
	Create(ctx context.Context, timetable *entity.TimeTable) (*entity.TimeTable, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeTable, error)
	List(ctx context.Context, filter ListFilter) ([]entity.TimeTable, error)
	ListRepeatable(ctx context.Context) ([]entity.TimeTable, error)
	Update(ctx context.Context, timetable *entity.TimeTable) (*entity.TimeTable, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TimetableRepository struct {
	DB database.IDatabase
}

func NewTimetableRepository(db database.IDatabase) *TimetableRepository {
	return &TimetableRepository{DB: db}
}

func (r *TimetableRepository) Create(ctx context.Context, timetable *entity.TimeTable) (*entity.TimeTable, error) {
	query := `
		INSERT INTO timetables (name, slug, owner_id, repeatable, timezone, weekly)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + timetableColumns

	var created entity.TimeTable
	err := r.DB.GetContext(ctx, &created, query,
		timetable.Name, timetable.Slug, timetable.OwnerID,
		timetable.Repeatable, timetable.Timezone, timetable.Weekly)
	if err != nil {
		logger.Error("TimetableRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *TimetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeTable, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetables WHERE id = $1`

	var timetable entity.TimeTable
	err := r.DB.GetContext(ctx, &timetable, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TimetableRepository:GetByID", err)
		return nil, err
	}
	return &timetable, nil
}

func (r *TimetableRepository) List(ctx context.Context, filter ListFilter) ([]entity.TimeTable, error) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Name != "" {
		conditions = append(conditions, "name ILIKE "+arg("%"+filter.Name+"%"))
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, "owner_id = "+arg(*filter.OwnerID))
	}
	if filter.Repeatable != nil {
		conditions = append(conditions, "repeatable = "+arg(*filter.Repeatable))
	}

	query := `SELECT ` + timetableColumns + ` FROM timetables`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var timetables []entity.TimeTable
	if err := r.DB.SelectContext(ctx, &timetables, query, args...); err != nil {
		logger.Error("TimetableRepository:List", err)
		return nil, err
	}
	return timetables, nil
}

func (r *TimetableRepository) ListRepeatable(ctx context.Context) ([]entity.TimeTable, error) {
	repeatable := true
	return r.List(ctx, ListFilter{Repeatable: &repeatable})
}

func (r *TimetableRepository) Update(ctx context.Context, timetable *entity.TimeTable) (*entity.TimeTable, error) {
	query := `
		UPDATE timetables
		SET name = $2, slug = $3, repeatable = $4, timezone = $5, weekly = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + timetableColumns

	var updated entity.TimeTable
	err := r.DB.GetContext(ctx, &updated, query,
		timetable.ID, timetable.Name, timetable.Slug,
		timetable.Repeatable, timetable.Timezone, timetable.Weekly)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TimetableRepository:Update", err)
		return nil, err
	}
	return &updated, nil
}

// Delete removes the timetable only. Its generated slots are intentionally
// left in place and become orphans, matching the observed behavior of the
// system this replaces.
func (r *TimetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id); err != nil {
		logger.Error("TimetableRepository:Delete", err)
		return err
	}
	return nil
}
