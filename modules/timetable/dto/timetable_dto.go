package dto

import (
	"github.com/google/uuid"

	"scheduling-api/modules/timetable/entity"
)

type CreateTimetableRequest struct {
	Name       string           `json:"name"`
	Weekly     entity.WeeklyMap `json:"timetable"`
	Repeatable bool             `json:"repeatable"`
	Timezone   string           `json:"timezone"`
}

// UpdateTimetableRequest carries a partial edit; nil fields stay untouched.
type UpdateTimetableRequest struct {
	Name       *string           `json:"name,omitempty"`
	Weekly     *entity.WeeklyMap `json:"timetable,omitempty"`
	Repeatable *bool             `json:"repeatable,omitempty"`
	Timezone   *string           `json:"timezone,omitempty"`
}

type ListTimetablesRequest struct {
	Name       string
	OwnerID    *uuid.UUID
	Repeatable *bool
}
