package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"

	coreEntity "scheduling-api/core/entity"
)

// anchor is a Monday.
var anchor = time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

func newTimeTable(weekly WeeklyMap) *TimeTable {
	return &TimeTable{
		Name:       "test",
		OwnerID:    uuid.New(),
		Repeatable: true,
		Timezone:   "UTC",
		Weekly:     weekly,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}
}

func TestValidateAcceptsDisjointRanges(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"sat": {"9-14": {Interval: 15}},
		"sun": {"9-14": {Interval: 15}},
		"mon": {"9-14": {Interval: 15}},
		"tue": {"9-14": {Interval: 15}},
		"wed": {"9-14": {Interval: 15}},
		"thu": {"9-14": {Interval: 15}},
		"fri": {"9-14": {Interval: 15}},
	})
	if appErr := tt.Validate(); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
}

func TestValidateRejectsOverlappingRanges(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"sat": {
			"9-14":  {Interval: 15},
			"10-11": {Interval: 15},
		},
	})
	if appErr := tt.Validate(); appErr == nil {
		t.Fatalf("expected validation error for overlapping ranges")
	}
}

func TestValidateAdjacentRangesAreNotOverlapping(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"tue": {
			"10-11": {Interval: 30},
			"11-12": {Interval: 30},
		},
	})
	if appErr := tt.Validate(); appErr != nil {
		t.Fatalf("unexpected error: %s", appErr)
	}
}

func TestValidateRejectsMalformedRanges(t *testing.T) {
	testDefs := []struct {
		name   string
		weekly WeeklyMap
	}{
		{name: "bad key format", weekly: WeeklyMap{"mon": {"nine-ten": {Interval: 30}}}},
		{name: "missing dash", weekly: WeeklyMap{"mon": {"910": {Interval: 30}}}},
		{name: "start after end", weekly: WeeklyMap{"mon": {"14-9": {Interval: 30}}}},
		{name: "out of bounds", weekly: WeeklyMap{"mon": {"9-25": {Interval: 30}}}},
		{name: "zero interval", weekly: WeeklyMap{"mon": {"9-14": {Interval: 0}}}},
		{name: "interval above maximum", weekly: WeeklyMap{"mon": {"9-14": {Interval: 121}}}},
		{name: "unknown weekday", weekly: WeeklyMap{"monday": {"9-14": {Interval: 30}}}},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			if appErr := newTimeTable(testDef.weekly).Validate(); appErr == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestExpandSlotsHourlyIntervals(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"mon": {"9-17": {Interval: 60}},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 8 {
		t.Fatalf("expected 8 slots for 9-17 hourly, got %d", len(slots))
	}
	if slots[0].StartTime.Hour() != 9 || slots[0].EndTime.Hour() != 10 {
		t.Fatalf("first slot must be 09:00-10:00, got %s-%s", slots[0].StartTime, slots[0].EndTime)
	}
	if slots[7].StartTime.Hour() != 16 || slots[7].EndTime.Hour() != 17 {
		t.Fatalf("last slot must be 16:00-17:00, got %s-%s", slots[7].StartTime, slots[7].EndTime)
	}
	for _, slot := range slots {
		if slot.Taken {
			t.Fatalf("expanded slots must not be taken")
		}
		if slot.TimetableID == nil || *slot.TimetableID != tt.ID {
			t.Fatalf("expanded slots must carry the timetable id")
		}
	}
}

func TestExpandSlotsHalfHourIntervals(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"tue": {
			"10-11": {Interval: 30},
			"11-12": {Interval: 30},
		},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if slots[0].StartTime.Hour() != 10 || slots[0].StartTime.Minute() != 0 {
		t.Fatalf("first slot must start 10:00, got %s", slots[0].StartTime)
	}
	if slots[1].StartTime.Hour() != 10 || slots[1].StartTime.Minute() != 30 {
		t.Fatalf("second slot must start 10:30, got %s", slots[1].StartTime)
	}
	if slots[3].EndTime.Hour() != 12 {
		t.Fatalf("last slot must end at 12:00, got %s", slots[3].EndTime)
	}
}

func TestExpandSlotsQuarterHourIntervals(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"wed": {"14-15": {Interval: 15}},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.EndTime.Sub(slot.StartTime) != 15*time.Minute {
			t.Fatalf("slot duration must be 15m, got %s", slot.EndTime.Sub(slot.StartTime))
		}
	}
}

func TestExpandSlotsMultipleRangesPerDay(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"fri": {
			"9-11":  {Interval: 60},
			"14-16": {Interval: 60},
		},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	var morning, afternoon int
	for _, slot := range slots {
		if slot.StartTime.Hour() < 12 {
			morning++
		} else {
			afternoon++
		}
	}
	if morning != 2 || afternoon != 2 {
		t.Fatalf("expected 2 morning and 2 afternoon slots, got %d/%d", morning, afternoon)
	}
}

func TestExpandSlotsMultipleDays(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"mon": {"9-11": {Interval: 60}},
		"tue": {"10-12": {Interval: 60}},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
}

func TestExpandSlotsDropsOvershoot(t *testing.T) {
	// 90 minutes does not fit in a one-hour window.
	tt := newTimeTable(WeeklyMap{
		"thu": {"9-10": {Interval: 90}},
	})

	if slots := tt.ExpandSlots(anchor); len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestExpandSlotsExactFit(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"sat": {"10-12": {Interval: 120}},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 1 {
		t.Fatalf("expected exactly 1 slot, got %d", len(slots))
	}
	if slots[0].StartTime.Hour() != 10 || slots[0].EndTime.Hour() != 12 {
		t.Fatalf("slot must be 10:00-12:00, got %s-%s", slots[0].StartTime, slots[0].EndTime)
	}
}

func TestExpandSlotsPartialTailDropped(t *testing.T) {
	// 5 hours at 90 minutes: floor(300/90) = 3 slots, remainder dropped.
	tt := newTimeTable(WeeklyMap{
		"mon": {"9-14": {Interval: 90}},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	last := slots[2]
	if last.EndTime.Hour() != 13 || last.EndTime.Minute() != 30 {
		t.Fatalf("last slot must end 13:30, got %s", last.EndTime)
	}
}

func TestExpandSlotsSkipsMalformedEntries(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"mon": {
			"9-11":    {Interval: 60},
			"bad-key": {Interval: 60},
			"12-13":   {Interval: 0},
		},
	})

	slots := tt.ExpandSlots(anchor)

	if len(slots) != 2 {
		t.Fatalf("malformed entries must be skipped, expected 2 slots, got %d", len(slots))
	}
}

func TestExpandSlotsAdvancesToWeekday(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"wed": {"9-10": {Interval: 60}},
	})

	slots := tt.ExpandSlots(anchor) // anchor is a Monday

	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].StartTime.Weekday() != time.Wednesday {
		t.Fatalf("slot must fall on Wednesday, got %s", slots[0].StartTime.Weekday())
	}
	if got := slots[0].StartTime.Day(); got != anchor.Day()+2 {
		t.Fatalf("slot must be two days after the Monday anchor, got day %d", got)
	}
}

func TestExpandSlotsNeverOverlapWithinRange(t *testing.T) {
	tt := newTimeTable(WeeklyMap{
		"mon": {"8-18": {Interval: 45}},
	})

	slots := tt.ExpandSlots(anchor)

	for i := 1; i < len(slots); i++ {
		prev, curr := slots[i-1], slots[i]
		// Strict-interval check: consecutive generated slots share only an
		// endpoint, never interior time.
		if curr.StartTime.Before(prev.EndTime) {
			t.Fatalf("slot %d overlaps its predecessor: %s < %s", i, curr.StartTime, prev.EndTime)
		}
	}
}
