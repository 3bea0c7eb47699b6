package dto

import (
	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
)

type CreateEventRequest struct {
	SlotID   uuid.UUID        `json:"slot_id" validate:"required"`
	Title    string           `json:"title" validate:"required"`
	Member   string           `json:"member" validate:"required"`
	Metadata coreEntity.JSONB `json:"metadata,omitempty"`
}

// TransitionRequest carries the optional audit fields shared by every
// lifecycle endpoint. An empty comment falls back to the transition default.
type TransitionRequest struct {
	Author  string `json:"author,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type RescheduleEventRequest struct {
	SlotID  uuid.UUID `json:"slot_id" validate:"required"`
	Author  string    `json:"author,omitempty"`
	Comment string    `json:"comment,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Author string `json:"author,omitempty"`
}

type ListEventsRequest struct {
	Statuses []string `query:"status"`
	SlotID   string   `query:"slot_id"`
	Member   string   `query:"member"`
	Title    string   `query:"title"`
}
