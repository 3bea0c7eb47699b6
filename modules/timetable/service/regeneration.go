package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"scheduling-api/core/logger"
)

// RegenerationOutcome reports what happened to one timetable during a
// regeneration pass.
type RegenerationOutcome struct {
	TimetableID uuid.UUID `json:"timetable_id"`
	Pruned      int64     `json:"pruned"`
	Created     int       `json:"created"`
	Error       string    `json:"error,omitempty"`
}

// RegenerateAll maintains the rolling slot horizon for every repeatable
// timetable: expired unbooked slots are pruned first, then the timetable is
// re-expanded forward. Timetables are processed independently; one failure
// is recorded in its outcome and never aborts the rest.
func (s *TimetableService) RegenerateAll(ctx context.Context, now time.Time) []RegenerationOutcome {
	timetables, err := s.repo.ListRepeatable(ctx)
	if err != nil {
		logger.Error("TimetableService:RegenerateAll:List", err)
		return nil
	}

	outcomes := make([]RegenerationOutcome, 0, len(timetables))
	for i := range timetables {
		timetable := &timetables[i]
		outcome := RegenerationOutcome{TimetableID: timetable.ID}

		pruned, err := s.slotRepo.DeleteExpiredUntaken(ctx, timetable.ID, now)
		if err != nil {
			outcome.Error = err.Error()
			logger.Error("TimetableService:RegenerateAll:Prune",
				"timetable_id", timetable.ID, "error", err)
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.Pruned = pruned

		outcome.Created = s.expandAndPersist(ctx, timetable, now)
		outcomes = append(outcomes, outcome)

		logger.Info("TimetableService:RegenerateAll:Timetable",
			"timetable_id", timetable.ID,
			"pruned", outcome.Pruned,
			"created", outcome.Created,
		)
	}

	logger.Info("TimetableService:RegenerateAll:Done", "timetables", len(outcomes))
	return outcomes
}

// HandleRegenerationTask is the asynq handler behind the periodic
// regeneration schedule.
func (s *TimetableService) HandleRegenerationTask(ctx context.Context, _ *asynq.Task) error {
	s.RegenerateAll(ctx, time.Now())
	return nil
}
