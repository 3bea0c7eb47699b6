package timetable

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/cache"
	"scheduling-api/core/config"
	"scheduling-api/core/database"
	"scheduling-api/core/middleware"
	slotRepository "scheduling-api/modules/slot/repository"
	"scheduling-api/modules/timetable/controller"
	"scheduling-api/modules/timetable/repository"
	"scheduling-api/modules/timetable/router"
	"scheduling-api/modules/timetable/service"
)

// Init wires the timetable module and returns its service for use by the
// background regeneration worker.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, cfg *config.Config) *service.TimetableService {
	repo := repository.NewTimetableRepository(db)
	slotRepo := slotRepository.NewSlotRepository(db)
	svc := service.NewTimetableService(repo, slotRepo, c, cfg.Scheduler.HorizonWeeks)

	ctrl := controller.NewTimetableController(svc)
	mw := middleware.NewMiddleware(cfg.Auth)
	router.NewTimetableRouter(ctrl).Setup(e, mw)
	return svc
}
