package service

import (
	"context"

	"github.com/google/uuid"

	"scheduling-api/core/errors"
	"scheduling-api/core/logger"
	"scheduling-api/modules/slot/dto"
	"scheduling-api/modules/slot/entity"
	"scheduling-api/modules/slot/repository"
	timetableRepo "scheduling-api/modules/timetable/repository"
)

type SlotServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError)
	List(ctx context.Context, req *dto.ListSlotsRequest) ([]entity.Slot, *errors.AppError)
	Reserve(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError)
	Free(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError)
}

type SlotService struct {
	repo          repository.SlotRepositoryInterface
	timetableRepo timetableRepo.TimetableRepositoryInterface
}

func NewSlotService(repo repository.SlotRepositoryInterface, ttRepo timetableRepo.TimetableRepositoryInterface) *SlotService {
	return &SlotService{repo: repo, timetableRepo: ttRepo}
}

// Create adds a manual slot. When the slot belongs to a timetable it is
// checked against that timetable's existing slots with the closed-interval
// overlap predicate, so even a back-to-back neighbor is rejected.
func (s *SlotService) Create(ctx context.Context, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError) {
	if req.TimetableID != nil {
		timetable, err := s.timetableRepo.GetByID(ctx, *req.TimetableID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up timetable", nil)
		}
		if timetable == nil {
			return nil, errors.NewAppError(errors.ErrNotFound, "timetable not found", nil)
		}
	}

	slot, appErr := entity.NewSlot(req.TimetableID, req.StartTime, req.EndTime, req.Metadata)
	if appErr != nil {
		return nil, appErr
	}

	if req.TimetableID != nil {
		existing, err := s.repo.GetByTimetableID(ctx, *req.TimetableID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load timetable slots", nil)
		}
		for i := range existing {
			if slot.Overlaps(&existing[i]) {
				return nil, errors.NewAppError(errors.ErrValidation, "slot overlaps with existing slot", nil)
			}
		}
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create slot", nil)
	}

	logger.Info("SlotService:Create", "slot_id", created.ID, "start", created.StartTime)
	return created, nil
}

func (s *SlotService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", nil)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	return slot, nil
}

func (s *SlotService) List(ctx context.Context, req *dto.ListSlotsRequest) ([]entity.Slot, *errors.AppError) {
	slots, err := s.repo.List(ctx, repository.ListFilter{
		TimetableID:  req.TimetableID,
		Taken:        req.Taken,
		MinStartTime: req.MinStartTime,
		MaxStartTime: req.MaxStartTime,
		MinEndTime:   req.MinEndTime,
		MaxEndTime:   req.MaxEndTime,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list slots", nil)
	}
	return slots, nil
}

// Reserve claims the slot through the store's conditional update; under
// concurrent calls exactly one caller gets the slot and the rest observe
// SLOT_TAKEN.
func (s *SlotService) Reserve(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	slot, reserved, err := s.repo.Reserve(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to reserve slot", nil)
	}
	if reserved {
		logger.Info("SlotService:Reserve", "slot_id", id)
		return slot, nil
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", nil)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	return nil, errors.NewAppError(errors.ErrSlotTaken, "slot is already taken", nil)
}

func (s *SlotService) Free(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	slot, err := s.repo.Free(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to free slot", nil)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	logger.Info("SlotService:Free", "slot_id", id)
	return slot, nil
}
