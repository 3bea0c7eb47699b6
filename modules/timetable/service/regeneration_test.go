package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	coreEntity "scheduling-api/core/entity"
	slotEntity "scheduling-api/modules/slot/entity"
	slotRepo "scheduling-api/modules/slot/repository"
	"scheduling-api/modules/timetable/entity"
	"scheduling-api/modules/timetable/repository"
)

// regenAnchor is a Monday at midnight; all expanded slots start after it.
var regenAnchor = time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

type fakeTimetableRepo struct {
	timetables []entity.TimeTable
}

func (f *fakeTimetableRepo) Create(ctx context.Context, t *entity.TimeTable) (*entity.TimeTable, error) {
	f.timetables = append(f.timetables, *t)
	return t, nil
}

func (f *fakeTimetableRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeTable, error) {
	for i := range f.timetables {
		if f.timetables[i].ID == id {
			return &f.timetables[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTimetableRepo) List(ctx context.Context, filter repository.ListFilter) ([]entity.TimeTable, error) {
	return f.timetables, nil
}

func (f *fakeTimetableRepo) ListRepeatable(ctx context.Context) ([]entity.TimeTable, error) {
	var out []entity.TimeTable
	for _, t := range f.timetables {
		if t.Repeatable {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTimetableRepo) Update(ctx context.Context, t *entity.TimeTable) (*entity.TimeTable, error) {
	return t, nil
}

func (f *fakeTimetableRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeSlotRepo struct {
	slots       map[uuid.UUID]slotEntity.Slot
	failPruneOn map[uuid.UUID]bool
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		slots:       map[uuid.UUID]slotEntity.Slot{},
		failPruneOn: map[uuid.UUID]bool{},
	}
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *slotEntity.Slot) (*slotEntity.Slot, error) {
	stored := *slot
	stored.ID = uuid.New()
	f.slots[stored.ID] = stored
	return &stored, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*slotEntity.Slot, error) {
	if slot, ok := f.slots[id]; ok {
		return &slot, nil
	}
	return nil, nil
}

func (f *fakeSlotRepo) List(ctx context.Context, filter slotRepo.ListFilter) ([]slotEntity.Slot, error) {
	var out []slotEntity.Slot
	for _, slot := range f.slots {
		out = append(out, slot)
	}
	return out, nil
}

func (f *fakeSlotRepo) GetByTimetableID(ctx context.Context, timetableID uuid.UUID) ([]slotEntity.Slot, error) {
	var out []slotEntity.Slot
	for _, slot := range f.slots {
		if slot.TimetableID != nil && *slot.TimetableID == timetableID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) Reserve(ctx context.Context, id uuid.UUID) (*slotEntity.Slot, bool, error) {
	slot, ok := f.slots[id]
	if !ok || slot.Taken {
		return nil, false, nil
	}
	slot.Taken = true
	f.slots[id] = slot
	return &slot, true, nil
}

func (f *fakeSlotRepo) ReserveTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error) {
	_, ok, err := f.Reserve(ctx, id)
	return ok, err
}

func (f *fakeSlotRepo) Free(ctx context.Context, id uuid.UUID) (*slotEntity.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	slot.Taken = false
	f.slots[id] = slot
	return &slot, nil
}

func (f *fakeSlotRepo) FreeTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	_, err := f.Free(ctx, id)
	return err
}

func (f *fakeSlotRepo) ExistsAt(ctx context.Context, timetableID uuid.UUID, start, end time.Time) (bool, error) {
	for _, slot := range f.slots {
		if slot.TimetableID != nil && *slot.TimetableID == timetableID &&
			slot.StartTime.Equal(start) && slot.EndTime.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) DeleteExpiredUntaken(ctx context.Context, timetableID uuid.UUID, cutoff time.Time) (int64, error) {
	if f.failPruneOn[timetableID] {
		return 0, fmt.Errorf("prune failed")
	}
	var deleted int64
	for id, slot := range f.slots {
		if slot.TimetableID != nil && *slot.TimetableID == timetableID &&
			!slot.Taken && slot.StartTime.Before(cutoff) && slot.EndTime.Before(cutoff) {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeSlotRepo) DeleteFutureUntaken(ctx context.Context, timetableID uuid.UUID, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, slot := range f.slots {
		if slot.TimetableID != nil && *slot.TimetableID == timetableID &&
			!slot.Taken && !slot.StartTime.Before(cutoff) {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func repeatableTimetable(weekly entity.WeeklyMap) entity.TimeTable {
	return entity.TimeTable{
		Name:       "office hours",
		OwnerID:    uuid.New(),
		Repeatable: true,
		Timezone:   "UTC",
		Weekly:     weekly,
		BaseEntity: coreEntity.BaseEntity{ID: uuid.New()},
	}
}

func TestRegenerateAllFillsHorizon(t *testing.T) {
	ttRepo := &fakeTimetableRepo{timetables: []entity.TimeTable{
		repeatableTimetable(entity.WeeklyMap{"mon": {"9-17": {Interval: 60}}}),
	}}
	slots := newFakeSlotRepo()
	svc := NewTimetableService(ttRepo, slots, nil, 2)

	outcomes := svc.RegenerateAll(context.Background(), regenAnchor)

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	// 8 hourly slots per Monday, two-week horizon.
	if outcomes[0].Created != 16 {
		t.Fatalf("expected 16 created slots, got %d", outcomes[0].Created)
	}
	if outcomes[0].Error != "" {
		t.Fatalf("unexpected outcome error: %s", outcomes[0].Error)
	}
}

func TestRegenerateAllIsIdempotent(t *testing.T) {
	ttRepo := &fakeTimetableRepo{timetables: []entity.TimeTable{
		repeatableTimetable(entity.WeeklyMap{"tue": {"10-12": {Interval: 30}}}),
	}}
	slots := newFakeSlotRepo()
	svc := NewTimetableService(ttRepo, slots, nil, 2)

	first := svc.RegenerateAll(context.Background(), regenAnchor)
	second := svc.RegenerateAll(context.Background(), regenAnchor)

	if first[0].Created == 0 {
		t.Fatalf("first pass must create slots")
	}
	if second[0].Created != 0 {
		t.Fatalf("second pass must create nothing, got %d", second[0].Created)
	}
}

func TestRegenerateAllPrunesExpiredUntakenOnly(t *testing.T) {
	timetable := repeatableTimetable(entity.WeeklyMap{"wed": {"9-10": {Interval: 60}}})
	ttRepo := &fakeTimetableRepo{timetables: []entity.TimeTable{timetable}}
	slots := newFakeSlotRepo()

	id := timetable.ID
	expired := slotEntity.Slot{
		TimetableID: &id,
		StartTime:   regenAnchor.AddDate(0, 0, -14),
		EndTime:     regenAnchor.AddDate(0, 0, -14).Add(time.Hour),
	}
	booked := expired
	booked.Taken = true
	if _, err := slots.Create(context.Background(), &expired); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := slots.Create(context.Background(), &booked); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	svc := NewTimetableService(ttRepo, slots, nil, 2)
	outcomes := svc.RegenerateAll(context.Background(), regenAnchor)

	if outcomes[0].Pruned != 1 {
		t.Fatalf("expected 1 pruned slot, got %d", outcomes[0].Pruned)
	}
	// The booked-but-past slot stays behind as history.
	remaining, _ := slots.GetByTimetableID(context.Background(), id)
	for _, slot := range remaining {
		if slot.StartTime.Before(regenAnchor) && !slot.Taken {
			t.Fatalf("expired untaken slot survived the prune")
		}
	}
}

func TestRegenerateAllIsolatesFailures(t *testing.T) {
	broken := repeatableTimetable(entity.WeeklyMap{"mon": {"9-11": {Interval: 60}}})
	healthy := repeatableTimetable(entity.WeeklyMap{"fri": {"9-11": {Interval: 60}}})
	ttRepo := &fakeTimetableRepo{timetables: []entity.TimeTable{broken, healthy}}

	slots := newFakeSlotRepo()
	slots.failPruneOn[broken.ID] = true

	svc := NewTimetableService(ttRepo, slots, nil, 1)
	outcomes := svc.RegenerateAll(context.Background(), regenAnchor)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Error == "" {
		t.Fatalf("broken timetable must record its error")
	}
	if outcomes[1].Error != "" || outcomes[1].Created != 2 {
		t.Fatalf("healthy timetable must still regenerate, got %+v", outcomes[1])
	}
}

func TestRegenerateAllSkipsNonRepeatable(t *testing.T) {
	oneOff := repeatableTimetable(entity.WeeklyMap{"mon": {"9-11": {Interval: 60}}})
	oneOff.Repeatable = false
	ttRepo := &fakeTimetableRepo{timetables: []entity.TimeTable{oneOff}}

	svc := NewTimetableService(ttRepo, newFakeSlotRepo(), nil, 2)
	outcomes := svc.RegenerateAll(context.Background(), regenAnchor)

	if len(outcomes) != 0 {
		t.Fatalf("non-repeatable timetables must be skipped, got %d outcomes", len(outcomes))
	}
}
