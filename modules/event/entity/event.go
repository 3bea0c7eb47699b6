package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
	"scheduling-api/core/errors"
	slotEntity "scheduling-api/modules/slot/entity"
)

type EventStatus string

const (
	StatusPendingUser      EventStatus = "pending-user"
	StatusPendingMember    EventStatus = "pending-member"
	StatusAccepted         EventStatus = "accepted"
	StatusDone             EventStatus = "done"
	StatusRejectedByUser   EventStatus = "rejected-by-user"
	StatusRejectedByMember EventStatus = "rejected-by-member"
	StatusCanceled         EventStatus = "canceled"
	// StatusArchived is an administrative sink reachable from any
	// non-terminal state via ChangeStatus.
	StatusArchived EventStatus = "archived"
)

// EventStatuses lists every status accepted by the API.
var EventStatuses = []EventStatus{
	StatusPendingUser,
	StatusPendingMember,
	StatusAccepted,
	StatusDone,
	StatusRejectedByUser,
	StatusRejectedByMember,
	StatusCanceled,
	StatusArchived,
}

func IsValidStatus(s EventStatus) bool {
	for _, known := range EventStatuses {
		if known == s {
			return true
		}
	}
	return false
}

// HistoryEntry is one append-only audit record of an event. Entries are
// never edited or removed.
type HistoryEntry struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	EventID   uuid.UUID        `db:"event_id" json:"event_id"`
	Author    string           `db:"author" json:"author"`
	Comment   string           `db:"comment" json:"comment"`
	Metadata  coreEntity.JSONB `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// Event is an appointment request bound to at most one slot at a time. The
// Slot field is a transient binding resolved by the service layer before a
// transition runs; the persisted reference is SlotID only, so a slot may
// outlive the event that once held it.
type Event struct {
	Status   EventStatus      `db:"status" json:"status"`
	SlotID   *uuid.UUID       `db:"slot_id" json:"slot_id,omitempty"`
	Title    string           `db:"title" json:"title"`
	Member   string           `db:"member" json:"member"`
	Metadata coreEntity.JSONB `db:"metadata" json:"metadata,omitempty"`
	History  []HistoryEntry   `db:"-" json:"history"`
	Slot     *slotEntity.Slot `db:"-" json:"-"`
	coreEntity.BaseEntity
}

// NewEvent claims the given slot and builds the pending-user event with its
// creation history entry. Fails without mutating the slot when it is taken.
func NewEvent(slot *slotEntity.Slot, title, member string, metadata coreEntity.JSONB) (*Event, *errors.AppError) {
	if appErr := slot.Reserve(); appErr != nil {
		return nil, appErr
	}

	event := &Event{
		Status:   StatusPendingUser,
		SlotID:   &slot.ID,
		Title:    title,
		Member:   member,
		Metadata: metadata,
		Slot:     slot,
	}
	event.appendHistory("system", "event created", nil)
	return event, nil
}

// guardTransition rejects transitions out of a settled status.
func (e *Event) guardTransition() *errors.AppError {
	switch e.Status {
	case StatusCanceled, StatusRejectedByUser, StatusRejectedByMember, StatusDone:
		return e.invalidTransition()
	}
	return nil
}

func (e *Event) invalidTransition() *errors.AppError {
	return errors.NewAppError(errors.ErrInvalidTransition,
		fmt.Sprintf("event status is %s", e.Status),
		map[string]any{"current_status": e.Status})
}

// Cancel frees the bound slot and settles the event as canceled.
func (e *Event) Cancel(author, comment string) *errors.AppError {
	if appErr := e.guardTransition(); appErr != nil {
		return appErr
	}
	if e.Slot != nil {
		e.Slot.Free()
	}
	e.Status = StatusCanceled
	if comment == "" {
		comment = "Event canceled"
	}
	e.appendHistory(author, comment, nil)
	return nil
}

// Actor identifies which side of the appointment performs a rejection.
type Actor string

const (
	ActorUser   Actor = "user"
	ActorMember Actor = "member"
)

// Reject frees the bound slot and settles the event as rejected by the
// given actor.
func (e *Event) Reject(author, comment string, by Actor) *errors.AppError {
	if appErr := e.guardTransition(); appErr != nil {
		return appErr
	}

	var target EventStatus
	switch by {
	case ActorUser:
		target = StatusRejectedByUser
	case ActorMember:
		target = StatusRejectedByMember
	default:
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("unknown rejecting actor %q", by), nil)
	}

	if e.Slot != nil {
		e.Slot.Free()
	}
	e.Status = target
	if comment == "" {
		comment = fmt.Sprintf("Event rejected-by-%s", by)
	}
	e.appendHistory(author, comment, nil)
	return nil
}

// Reschedule moves the event onto newSlot: the old slot is freed, the new
// one claimed, and the event goes back to pending-member. A taken new slot
// fails the whole transition before anything is mutated.
func (e *Event) Reschedule(newSlot *slotEntity.Slot, author, comment string) *errors.AppError {
	if appErr := e.guardTransition(); appErr != nil {
		return appErr
	}
	if newSlot.Taken {
		return errors.NewAppError(errors.ErrSlotTaken, "the new slot is taken", nil)
	}

	if e.Slot != nil {
		e.Slot.Free()
	}
	if appErr := newSlot.Reserve(); appErr != nil {
		return appErr
	}
	e.SlotID = &newSlot.ID
	e.Slot = newSlot
	e.Status = StatusPendingMember
	if comment == "" {
		comment = "Event rescheduled"
	}
	e.appendHistory(author, comment, nil)
	return nil
}

// Complete marks an accepted event done. Pending events cannot skip straight
// to completion; they must be accepted first. The slot is left as-is.
func (e *Event) Complete(author, comment string) *errors.AppError {
	if e.Status != StatusAccepted {
		return e.invalidTransition()
	}
	e.Status = StatusDone
	if comment == "" {
		comment = "Event completed"
	}
	e.appendHistory(author, comment, nil)
	return nil
}

// ChangeStatus is the administrative path: it bypasses transition guards and
// performs no slot side effects.
func (e *Event) ChangeStatus(status EventStatus, author string) *errors.AppError {
	if !IsValidStatus(status) {
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("unknown event status %q", status), nil)
	}
	e.Status = status
	e.appendHistory(author, fmt.Sprintf("Change status to %s", status), nil)
	return nil
}

func (e *Event) appendHistory(author, comment string, metadata coreEntity.JSONB) {
	e.History = append(e.History, HistoryEntry{
		EventID:  e.ID,
		Author:   author,
		Comment:  comment,
		Metadata: metadata,
	})
}
