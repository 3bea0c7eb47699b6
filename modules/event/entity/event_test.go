package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
	"scheduling-api/core/errors"
	slotEntity "scheduling-api/modules/slot/entity"
)

func takenSlot() *slotEntity.Slot {
	return &slotEntity.Slot{
		StartTime:  time.Now().Add(24 * time.Hour),
		EndTime:    time.Now().Add(25 * time.Hour),
		Taken:      true,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}
}

func freeSlot() *slotEntity.Slot {
	s := takenSlot()
	s.Taken = false
	return s
}

func boundEvent(status EventStatus) *Event {
	slot := takenSlot()
	return &Event{
		Status:     status,
		SlotID:     &slot.ID,
		Title:      "Test Event",
		Member:     "john-doe",
		Slot:       slot,
		History:    []HistoryEntry{{Author: "system", Comment: "event created"}},
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}
}

var settledStatuses = []EventStatus{
	StatusCanceled, StatusRejectedByUser, StatusRejectedByMember, StatusDone,
}

func TestNewEvent(t *testing.T) {
	slot := freeSlot()

	event, appErr := NewEvent(slot, "Checkup", "jane", coreEntity.JSONB{"kind": "meeting"})
	if appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.Status != StatusPendingUser {
		t.Fatalf("new event status = %s, expected %s", event.Status, StatusPendingUser)
	}
	if !slot.Taken {
		t.Fatalf("new event must reserve its slot")
	}
	if event.SlotID == nil || *event.SlotID != slot.ID {
		t.Fatalf("event must reference the claimed slot")
	}
	if len(event.History) != 1 || event.History[0].Comment != "event created" || event.History[0].Author != "system" {
		t.Fatalf("unexpected creation history: %+v", event.History)
	}
}

func TestNewEventSlotTaken(t *testing.T) {
	slot := takenSlot()

	_, appErr := NewEvent(slot, "Checkup", "jane", nil)
	if appErr == nil {
		t.Fatalf("expected error for taken slot")
	}
	if appErr.Code != errors.ErrSlotTaken {
		t.Fatalf("expected code %s, got %s", errors.ErrSlotTaken, appErr.Code)
	}
}

func TestCancel(t *testing.T) {
	for _, status := range []EventStatus{StatusPendingUser, StatusPendingMember, StatusAccepted} {
		event := boundEvent(status)

		if appErr := event.Cancel("user-123", "Changed my mind"); appErr != nil {
			t.Fatalf("cancel from %s: unexpected error: %s", status, appErr)
		}
		if event.Status != StatusCanceled {
			t.Fatalf("status = %s, expected %s", event.Status, StatusCanceled)
		}
		if event.Slot.Taken {
			t.Fatalf("cancel must free the bound slot")
		}
		if len(event.History) != 2 {
			t.Fatalf("cancel must append exactly one history entry, got %d", len(event.History))
		}
		if event.History[1].Author != "user-123" || event.History[1].Comment != "Changed my mind" {
			t.Fatalf("unexpected history entry: %+v", event.History[1])
		}
	}
}

func TestCancelDefaultComment(t *testing.T) {
	event := boundEvent(StatusPendingMember)

	if appErr := event.Cancel("member-456", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.History[1].Comment != "Event canceled" {
		t.Fatalf("expected default comment, got %q", event.History[1].Comment)
	}
}

func TestCancelWithoutSlot(t *testing.T) {
	event := boundEvent(StatusPendingUser)
	event.Slot = nil
	event.SlotID = nil

	if appErr := event.Cancel("user-123", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.Status != StatusCanceled {
		t.Fatalf("status = %s, expected %s", event.Status, StatusCanceled)
	}
}

func TestCancelFromSettledStatus(t *testing.T) {
	for _, status := range settledStatuses {
		event := boundEvent(status)

		appErr := event.Cancel("user-123", "")
		if appErr == nil {
			t.Fatalf("cancel from %s must fail", status)
		}
		if appErr.Code != errors.ErrInvalidTransition {
			t.Fatalf("expected code %s, got %s", errors.ErrInvalidTransition, appErr.Code)
		}
		if appErr.Message != "event status is "+string(status) {
			t.Fatalf("unexpected message %q", appErr.Message)
		}
		if len(event.History) != 1 {
			t.Fatalf("failed transition must not append history")
		}
	}
}

func TestReject(t *testing.T) {
	testDefs := []struct {
		by       Actor
		expected EventStatus
	}{
		{by: ActorUser, expected: StatusRejectedByUser},
		{by: ActorMember, expected: StatusRejectedByMember},
	}
	for _, testDef := range testDefs {
		event := boundEvent(StatusPendingUser)

		if appErr := event.Reject("someone", "", testDef.by); appErr != nil {
			t.Fatalf("unexpected error: %s", appErr)
		}
		if event.Status != testDef.expected {
			t.Fatalf("status = %s, expected %s", event.Status, testDef.expected)
		}
		if event.Slot.Taken {
			t.Fatalf("reject must free the bound slot")
		}
		expectedComment := "Event rejected-by-" + string(testDef.by)
		if event.History[1].Comment != expectedComment {
			t.Fatalf("expected default comment %q, got %q", expectedComment, event.History[1].Comment)
		}
	}
}

func TestRejectFromSettledStatus(t *testing.T) {
	for _, status := range settledStatuses {
		event := boundEvent(status)

		appErr := event.Reject("user-123", "", ActorUser)
		if appErr == nil {
			t.Fatalf("reject from %s must fail", status)
		}
		if appErr.Code != errors.ErrInvalidTransition {
			t.Fatalf("expected code %s, got %s", errors.ErrInvalidTransition, appErr.Code)
		}
	}
}

func TestReschedule(t *testing.T) {
	event := boundEvent(StatusAccepted)
	oldSlot := event.Slot
	newSlot := freeSlot()

	if appErr := event.Reschedule(newSlot, "admin-123", "Better time slot"); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if oldSlot.Taken {
		t.Fatalf("reschedule must free the old slot")
	}
	if !newSlot.Taken {
		t.Fatalf("reschedule must claim the new slot")
	}
	if *event.SlotID != newSlot.ID {
		t.Fatalf("event must reference the new slot")
	}
	if event.Status != StatusPendingMember {
		t.Fatalf("status = %s, expected %s", event.Status, StatusPendingMember)
	}
	if event.History[1].Comment != "Better time slot" {
		t.Fatalf("unexpected history entry: %+v", event.History[1])
	}
}

func TestRescheduleDefaultComment(t *testing.T) {
	event := boundEvent(StatusAccepted)

	if appErr := event.Reschedule(freeSlot(), "admin-123", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.History[1].Comment != "Event rescheduled" {
		t.Fatalf("expected default comment, got %q", event.History[1].Comment)
	}
}

func TestRescheduleWithoutCurrentSlot(t *testing.T) {
	event := boundEvent(StatusPendingUser)
	event.Slot = nil
	event.SlotID = nil
	newSlot := freeSlot()

	if appErr := event.Reschedule(newSlot, "admin-123", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if *event.SlotID != newSlot.ID {
		t.Fatalf("event must reference the new slot")
	}
	if event.Status != StatusPendingMember {
		t.Fatalf("status = %s, expected %s", event.Status, StatusPendingMember)
	}
}

func TestRescheduleOntoTakenSlot(t *testing.T) {
	event := boundEvent(StatusAccepted)
	oldSlot := event.Slot

	appErr := event.Reschedule(takenSlot(), "admin-123", "")
	if appErr == nil {
		t.Fatalf("expected error for taken new slot")
	}
	if appErr.Code != errors.ErrSlotTaken {
		t.Fatalf("expected code %s, got %s", errors.ErrSlotTaken, appErr.Code)
	}
	// Failure must leave the event untouched.
	if event.Status != StatusAccepted || !oldSlot.Taken || len(event.History) != 1 {
		t.Fatalf("failed reschedule must not mutate event or old slot")
	}
}

func TestRescheduleThenCancelFreesNewSlot(t *testing.T) {
	event := boundEvent(StatusAccepted)
	oldSlot := event.Slot
	newSlot := freeSlot()

	if appErr := event.Reschedule(newSlot, "admin", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	// Someone else books the original slot meanwhile.
	if appErr := oldSlot.Reserve(); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}

	if appErr := event.Cancel("user", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if newSlot.Taken {
		t.Fatalf("cancel must free the rescheduled slot")
	}
	if !oldSlot.Taken {
		t.Fatalf("cancel must not touch the original slot")
	}
}

func TestComplete(t *testing.T) {
	event := boundEvent(StatusAccepted)

	if appErr := event.Complete("member-123", "Meeting finished"); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.Status != StatusDone {
		t.Fatalf("status = %s, expected %s", event.Status, StatusDone)
	}
	if !event.Slot.Taken {
		t.Fatalf("complete must not free the slot")
	}
	if event.History[1].Comment != "Meeting finished" {
		t.Fatalf("unexpected history entry: %+v", event.History[1])
	}
}

func TestCompleteDefaultComment(t *testing.T) {
	event := boundEvent(StatusAccepted)

	if appErr := event.Complete("member-123", ""); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.History[1].Comment != "Event completed" {
		t.Fatalf("expected default comment, got %q", event.History[1].Comment)
	}
}

func TestCompleteOnlyFromAccepted(t *testing.T) {
	// Pending events cannot skip straight to done either.
	for _, status := range []EventStatus{
		StatusPendingUser, StatusPendingMember,
		StatusCanceled, StatusRejectedByUser, StatusRejectedByMember, StatusDone,
	} {
		event := boundEvent(status)

		appErr := event.Complete("member-123", "")
		if appErr == nil {
			t.Fatalf("complete from %s must fail", status)
		}
		if appErr.Code != errors.ErrInvalidTransition {
			t.Fatalf("expected code %s, got %s", errors.ErrInvalidTransition, appErr.Code)
		}
		if appErr.Message != "event status is "+string(status) {
			t.Fatalf("unexpected message %q", appErr.Message)
		}
	}
}

func TestChangeStatusBypassesGuards(t *testing.T) {
	event := boundEvent(StatusDone)

	if appErr := event.ChangeStatus(StatusArchived, "admin"); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
	if event.Status != StatusArchived {
		t.Fatalf("status = %s, expected %s", event.Status, StatusArchived)
	}
	if event.History[1].Comment != "Change status to archived" {
		t.Fatalf("unexpected history entry: %+v", event.History[1])
	}
	// No automatic slot side effect on the administrative path.
	if !event.Slot.Taken {
		t.Fatalf("ChangeStatus must not free the slot")
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	event := boundEvent(StatusPendingUser)

	if appErr := event.ChangeStatus("nonsense", "admin"); appErr == nil {
		t.Fatalf("expected error for unknown status")
	}
}
