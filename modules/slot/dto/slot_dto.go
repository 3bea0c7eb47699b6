package dto

import (
	"time"

	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
)

type CreateSlotRequest struct {
	TimetableID *uuid.UUID       `json:"timetable_id,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Metadata    coreEntity.JSONB `json:"metadata,omitempty"`
}

type ListSlotsRequest struct {
	TimetableID  *uuid.UUID
	Taken        *bool
	MinStartTime *time.Time
	MaxStartTime *time.Time
	MinEndTime   *time.Time
	MaxEndTime   *time.Time
}

type SlotResponse struct {
	ID          uuid.UUID        `json:"id"`
	TimetableID *uuid.UUID       `json:"timetable_id,omitempty"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	Taken       bool             `json:"taken"`
	Metadata    coreEntity.JSONB `json:"metadata,omitempty"`
}
