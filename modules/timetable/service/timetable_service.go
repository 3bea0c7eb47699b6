package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"scheduling-api/core/cache"
	"scheduling-api/core/errors"
	"scheduling-api/core/logger"
	"scheduling-api/core/utils"
	slotRepo "scheduling-api/modules/slot/repository"
	"scheduling-api/modules/timetable/dto"
	"scheduling-api/modules/timetable/entity"
	"scheduling-api/modules/timetable/repository"
)

const timetableCacheTTL = 5 * time.Minute

type TimetableServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTimetableRequest) (*entity.TimeTable, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeTable, *errors.AppError)
	List(ctx context.Context, req *dto.ListTimetablesRequest) ([]entity.TimeTable, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTimetableRequest) (*entity.TimeTable, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
	Expand(ctx context.Context, id uuid.UUID, anchor time.Time) ([]SlotPreview, *errors.AppError)
	RegenerateAll(ctx context.Context, now time.Time) []RegenerationOutcome
}

type TimetableService struct {
	repo         repository.TimetableRepositoryInterface
	slotRepo     slotRepo.SlotRepositoryInterface
	cache        cache.Cache
	horizonWeeks int
}

func NewTimetableService(repo repository.TimetableRepositoryInterface, slots slotRepo.SlotRepositoryInterface, c cache.Cache, horizonWeeks int) *TimetableService {
	if horizonWeeks <= 0 {
		horizonWeeks = 2
	}
	return &TimetableService{
		repo:         repo,
		slotRepo:     slots,
		cache:        c,
		horizonWeeks: horizonWeeks,
	}
}

func cacheKey(id uuid.UUID) string {
	return "timetable:" + id.String()
}

// Create validates and stores the timetable, then immediately expands the
// first horizon of slots for it.
func (s *TimetableService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTimetableRequest) (*entity.TimeTable, *errors.AppError) {
	logger.Info("TimetableService:Create:Start", "owner_id", ownerID, "name", req.Name)

	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "timetable name is required", nil)
	}

	timetable := &entity.TimeTable{
		Name:       req.Name,
		Slug:       fmt.Sprintf("%s-%s", slug.Make(req.Name), strings.ToLower(utils.GenerateID())),
		OwnerID:    ownerID,
		Repeatable: req.Repeatable,
		Timezone:   req.Timezone,
		Weekly:     req.Weekly,
	}
	if appErr := timetable.Validate(); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, timetable)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create timetable", nil)
	}

	generated := s.expandAndPersist(ctx, created, time.Now())
	logger.Info("TimetableService:Create:Success", "timetable_id", created.ID, "slots_created", generated)
	return created, nil
}

func (s *TimetableService) GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeTable, *errors.AppError) {
	if s.cache != nil {
		var cached entity.TimeTable
		if err := s.cache.Get(ctx, cacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load timetable", nil)
	}
	if timetable == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "timetable not found", nil)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(id), timetable, timetableCacheTTL); err != nil {
			logger.Warn("TimetableService:GetByID:CacheSet", "error", err)
		}
	}
	return timetable, nil
}

func (s *TimetableService) List(ctx context.Context, req *dto.ListTimetablesRequest) ([]entity.TimeTable, *errors.AppError) {
	timetables, err := s.repo.List(ctx, repository.ListFilter{
		Name:       req.Name,
		OwnerID:    req.OwnerID,
		Repeatable: req.Repeatable,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list timetables", nil)
	}
	return timetables, nil
}

// Update applies a partial edit. An edit that changes the weekly map prunes
// the timetable's future unbooked slots and re-expands the horizon from the
// new definition.
func (s *TimetableService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTimetableRequest) (*entity.TimeTable, *errors.AppError) {
	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load timetable", nil)
	}
	if timetable == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "timetable not found", nil)
	}

	weeklyChanged := false
	if req.Name != nil {
		timetable.Name = *req.Name
	}
	if req.Repeatable != nil {
		timetable.Repeatable = *req.Repeatable
	}
	if req.Timezone != nil {
		timetable.Timezone = *req.Timezone
	}
	if req.Weekly != nil {
		timetable.Weekly = *req.Weekly
		weeklyChanged = true
	}

	if appErr := timetable.Validate(); appErr != nil {
		return nil, appErr
	}

	updated, err := s.repo.Update(ctx, timetable)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update timetable", nil)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "timetable not found", nil)
	}

	if weeklyChanged {
		now := time.Now()
		pruned, err := s.slotRepo.DeleteFutureUntaken(ctx, updated.ID, now)
		if err != nil {
			logger.Error("TimetableService:Update:Prune", err)
		}
		generated := s.expandAndPersist(ctx, updated, now)
		logger.Info("TimetableService:Update:Reexpanded",
			"timetable_id", updated.ID, "pruned", pruned, "slots_created", generated)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
			logger.Warn("TimetableService:Update:CacheDelete", "error", err)
		}
	}
	return updated, nil
}

// Delete removes the timetable definition. Already generated slots stay
// behind; see the repository note on orphaning.
func (s *TimetableService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load timetable", nil)
	}
	if timetable == nil {
		return errors.NewAppError(errors.ErrNotFound, "timetable not found", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete timetable", nil)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
			logger.Warn("TimetableService:Delete:CacheDelete", "error", err)
		}
	}
	logger.Info("TimetableService:Delete", "timetable_id", id)
	return nil
}

// SlotPreview is an unpersisted expansion result.
type SlotPreview struct {
	TimetableID uuid.UUID `json:"timetable_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// Expand returns the slots the timetable would generate for the week
// anchored at anchor, without persisting anything.
func (s *TimetableService) Expand(ctx context.Context, id uuid.UUID, anchor time.Time) ([]SlotPreview, *errors.AppError) {
	timetable, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	slots := timetable.ExpandSlots(anchor)
	preview := make([]SlotPreview, len(slots))
	for i, slot := range slots {
		preview[i] = SlotPreview{
			TimetableID: id,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
		}
	}
	return preview, nil
}

// expandAndPersist stores one horizon of slots, one week-anchor at a time.
// Each candidate is checked slot-by-slot: already-existing windows and past
// starts are skipped.
func (s *TimetableService) expandAndPersist(ctx context.Context, timetable *entity.TimeTable, now time.Time) int {
	created := 0
	for week := 0; week < s.horizonWeeks; week++ {
		anchor := now.AddDate(0, 0, 7*week)
		for _, slot := range timetable.ExpandSlots(anchor) {
			if slot.StartTime.Before(now) {
				continue
			}
			exists, err := s.slotRepo.ExistsAt(ctx, timetable.ID, slot.StartTime, slot.EndTime)
			if err != nil {
				logger.Error("TimetableService:ExpandAndPersist:ExistsAt", err)
				continue
			}
			if exists {
				continue
			}
			persisted := slot
			if _, err := s.slotRepo.Create(ctx, &persisted); err != nil {
				logger.Error("TimetableService:ExpandAndPersist:Create", err)
				continue
			}
			created++
		}
	}
	return created
}
