package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scheduling-api/core/database"
	coreEntity "scheduling-api/core/entity"
	"scheduling-api/core/errors"
	"scheduling-api/core/logger"
	"scheduling-api/core/params"
	"scheduling-api/modules/event/dto"
	"scheduling-api/modules/event/entity"
	"scheduling-api/modules/event/repository"
	slotRepo "scheduling-api/modules/slot/repository"
)

type EventServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError)
	List(ctx context.Context, req *dto.ListEventsRequest, qp params.QueryParams) (*coreEntity.Pagination[entity.Event], *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError)
	Reject(ctx context.Context, id uuid.UUID, by entity.Actor, req *dto.TransitionRequest) (*entity.Event, *errors.AppError)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleEventRequest) (*entity.Event, *errors.AppError)
	Accept(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError)
	Complete(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError)
	Archive(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type EventService struct {
	db       database.IDatabase
	repo     repository.EventRepositoryInterface
	slotRepo slotRepo.SlotRepositoryInterface
}

func NewEventService(db database.IDatabase, repo repository.EventRepositoryInterface, slots slotRepo.SlotRepositoryInterface) *EventService {
	return &EventService{db: db, repo: repo, slotRepo: slots}
}

func authorOrDefault(author string) string {
	if author == "" {
		return "system"
	}
	return author
}

// Create claims the requested slot and inserts the pending-user event with
// its creation history entry, all inside one transaction. The slot claim is
// a conditional update, so under concurrent creates exactly one event wins
// and the rest observe SLOT_TAKEN.
func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError) {
	logger.Info("EventService:Create:Start", "slot_id", req.SlotID, "member", req.Member)

	slot, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", nil)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}

	event, appErr := entity.NewEvent(slot, req.Title, req.Member, req.Metadata)
	if appErr != nil {
		return nil, appErr
	}

	var txAppErr *errors.AppError
	err = s.db.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		reserved, err := s.slotRepo.ReserveTx(ctx, tx, slot.ID)
		if err != nil {
			return err
		}
		if !reserved {
			txAppErr = errors.NewAppError(errors.ErrSlotTaken, "slot is already taken", nil)
			return txAppErr
		}

		created, err := s.repo.CreateTx(ctx, tx, event)
		if err != nil {
			return err
		}
		history := event.History
		event = created
		event.Slot = slot
		for i := range history {
			history[i].EventID = created.ID
			if err := s.repo.AppendHistoryTx(ctx, tx, &history[i]); err != nil {
				return err
			}
		}
		event.History = history
		return nil
	})
	if err != nil {
		if txAppErr != nil {
			return nil, txAppErr
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", nil)
	}

	logger.Info("EventService:Create:Done", "event_id", event.ID, "slot_id", slot.ID)
	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, req *dto.ListEventsRequest, qp params.QueryParams) (*coreEntity.Pagination[entity.Event], *errors.AppError) {
	filter := repository.ListFilter{
		Member: req.Member,
		Title:  req.Title,
		Limit:  qp.Limit,
		Offset: qp.Offset(),
	}
	for _, raw := range req.Statuses {
		status := entity.EventStatus(raw)
		if !entity.IsValidStatus(status) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown event status "+raw, nil)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if req.SlotID != "" {
		slotID, err := uuid.Parse(req.SlotID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid slot_id", nil)
		}
		filter.SlotID = &slotID
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", nil)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count events", nil)
	}
	return coreEntity.NewPagination(events, total, qp.Page, qp.Limit), nil
}

// Cancel settles the event as canceled and frees its slot.
func (s *EventService) Cancel(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, id, "Cancel", func(event *entity.Event) *errors.AppError {
		return event.Cancel(authorOrDefault(req.Author), req.Comment)
	})
}

// Reject settles the event as rejected by the given actor and frees its slot.
func (s *EventService) Reject(ctx context.Context, id uuid.UUID, by entity.Actor, req *dto.TransitionRequest) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, id, "Reject", func(event *entity.Event) *errors.AppError {
		return event.Reject(authorOrDefault(req.Author), req.Comment, by)
	})
}

// Reschedule moves the event onto a new slot: the current slot is freed, the
// new one claimed, and the event returns to pending-member. The new slot's
// claim runs through the same conditional update as Create, so losing a race
// for it rolls the whole transition back.
func (s *EventService) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleEventRequest) (*entity.Event, *errors.AppError) {
	newSlot, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", nil)
	}
	if newSlot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}

	return s.transition(ctx, id, "Reschedule", func(event *entity.Event) *errors.AppError {
		return event.Reschedule(newSlot, authorOrDefault(req.Author), req.Comment)
	})
}

// Accept confirms a pending event. It is the administrative status change to
// accepted; the slot stays claimed.
func (s *EventService) Accept(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, id, "Accept", func(event *entity.Event) *errors.AppError {
		if appErr := event.ChangeStatus(entity.StatusAccepted, authorOrDefault(req.Author)); appErr != nil {
			return appErr
		}
		return nil
	})
}

// Complete marks an accepted event done.
func (s *EventService) Complete(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, id, "Complete", func(event *entity.Event) *errors.AppError {
		return event.Complete(authorOrDefault(req.Author), req.Comment)
	})
}

// Archive moves the event into the administrative archived status without
// touching its slot.
func (s *EventService) Archive(ctx context.Context, id uuid.UUID, req *dto.TransitionRequest) (*entity.Event, *errors.AppError) {
	return s.transition(ctx, id, "Archive", func(event *entity.Event) *errors.AppError {
		return event.ChangeStatus(entity.StatusArchived, authorOrDefault(req.Author))
	})
}

// Delete removes the event together with its history and frees any slot it
// still holds, so the slot becomes bookable again.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	event, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return appErr
	}

	err := s.db.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if event.SlotID != nil {
			if err := s.slotRepo.FreeTx(ctx, tx, *event.SlotID); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(ctx, tx, event.ID)
	})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", nil)
	}

	logger.Info("EventService:Delete", "event_id", id)
	return nil
}

// transition loads the event with its bound slot, runs the in-memory
// transition, and persists the result in one transaction. Writes are ordered
// slot first, then the event row, then history, so a partially applied
// transition can never leave a claimed slot unaccounted for.
func (s *EventService) transition(ctx context.Context, id uuid.UUID, name string, apply func(*entity.Event) *errors.AppError) (*entity.Event, *errors.AppError) {
	logger.Info("EventService:"+name+":Start", "event_id", id)

	event, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if event.SlotID != nil {
		slot, err := s.slotRepo.GetByID(ctx, *event.SlotID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", nil)
		}
		event.Slot = slot
	}

	prevSlotID := event.SlotID
	historyMark := len(event.History)

	if appErr := apply(event); appErr != nil {
		return nil, appErr
	}

	var txAppErr *errors.AppError
	err := s.db.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if appErr := s.persistSlotChanges(ctx, tx, event, prevSlotID); appErr != nil {
			txAppErr = appErr
			return appErr
		}
		if err := s.repo.UpdateTx(ctx, tx, event); err != nil {
			return err
		}
		for i := historyMark; i < len(event.History); i++ {
			event.History[i].EventID = event.ID
			if err := s.repo.AppendHistoryTx(ctx, tx, &event.History[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if txAppErr != nil {
			return nil, txAppErr
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to apply event transition", nil)
	}

	logger.Info("EventService:"+name+":Done", "event_id", event.ID, "status", event.Status)
	return event, nil
}

// persistSlotChanges mirrors the in-memory slot mutations into the store:
// a freed previous slot and, on reschedule, a conditional claim of the new
// one.
func (s *EventService) persistSlotChanges(ctx context.Context, tx *sqlx.Tx, event *entity.Event, prevSlotID *uuid.UUID) *errors.AppError {
	slotChanged := prevSlotID != nil && (event.SlotID == nil || *event.SlotID != *prevSlotID)
	slotFreed := event.Slot != nil && event.SlotID != nil && *event.SlotID == event.Slot.ID && !event.Slot.Taken

	if slotChanged || slotFreed {
		freeID := *prevSlotID
		if slotFreed {
			freeID = *event.SlotID
		}
		if err := s.slotRepo.FreeTx(ctx, tx, freeID); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to free slot", nil)
		}
	}

	if slotChanged && event.SlotID != nil {
		reserved, err := s.slotRepo.ReserveTx(ctx, tx, *event.SlotID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to reserve slot", nil)
		}
		if !reserved {
			return errors.NewAppError(errors.ErrSlotTaken, "the new slot is taken", nil)
		}
	}
	return nil
}
