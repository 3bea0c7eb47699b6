package entity

import (
	"time"

	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
	"scheduling-api/core/errors"
)

// Slot is an atomic reservable time interval. Slots generated from a
// timetable carry its id; manually created slots may have none.
type Slot struct {
	TimetableID *uuid.UUID       `db:"timetable_id" json:"timetable_id,omitempty"`
	StartTime   time.Time        `db:"start_time" json:"start_time"`
	EndTime     time.Time        `db:"end_time" json:"end_time"`
	Taken       bool             `db:"taken" json:"taken"`
	Metadata    coreEntity.JSONB `db:"metadata" json:"metadata,omitempty"`
	coreEntity.BaseEntity
}

// NewSlot builds a manually created slot. The past check applies here only;
// timetable expansion builds slot values directly and the persistence step
// filters out anything already in the past.
func NewSlot(timetableID *uuid.UUID, start, end time.Time, metadata coreEntity.JSONB) (*Slot, *errors.AppError) {
	if appErr := ValidateTimeRange(start, end); appErr != nil {
		return nil, appErr
	}
	return &Slot{
		TimetableID: timetableID,
		StartTime:   start,
		EndTime:     end,
		Taken:       false,
		Metadata:    metadata,
	}, nil
}

func ValidateTimeRange(start, end time.Time) *errors.AppError {
	if !start.Before(end) {
		return errors.NewAppError(errors.ErrInvalidRange, "start time must be before end time", nil)
	}
	if start.Before(time.Now()) {
		return errors.NewAppError(errors.ErrInvalidRange, "cannot create slot in the past", nil)
	}
	return nil
}

// Reserve marks the slot taken. Fails if it already is; never mutates on
// failure.
func (s *Slot) Reserve() *errors.AppError {
	if s.Taken {
		return errors.NewAppError(errors.ErrSlotTaken, "slot is already taken", nil)
	}
	s.Taken = true
	return nil
}

// Free is idempotent; freeing an already-free slot is not an error.
func (s *Slot) Free() {
	s.Taken = false
}

func (s *Slot) IsAvailable() bool {
	return !s.Taken
}

func (s *Slot) DurationMinutes() int {
	return int(s.EndTime.Sub(s.StartTime) / time.Minute)
}

// Overlaps uses a closed-interval test: back-to-back slots sharing an
// endpoint count as overlapping. Callers creating manual slots must account
// for this.
func (s *Slot) Overlaps(other *Slot) bool {
	return !s.StartTime.After(other.EndTime) && !s.EndTime.Before(other.StartTime)
}
