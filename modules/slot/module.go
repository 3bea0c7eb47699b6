package slot

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/config"
	"scheduling-api/core/database"
	"scheduling-api/core/middleware"
	"scheduling-api/modules/slot/controller"
	"scheduling-api/modules/slot/repository"
	"scheduling-api/modules/slot/router"
	"scheduling-api/modules/slot/service"
	timetableRepository "scheduling-api/modules/timetable/repository"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	repo := repository.NewSlotRepository(db)
	timetableRepo := timetableRepository.NewTimetableRepository(db)
	svc := service.NewSlotService(repo, timetableRepo)

	ctrl := controller.NewSlotController(svc)
	mw := middleware.NewMiddleware(cfg.Auth)
	router.NewSlotRouter(ctrl).Setup(e, mw)
}
