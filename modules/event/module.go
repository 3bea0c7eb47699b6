package event

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/config"
	"scheduling-api/core/database"
	"scheduling-api/core/middleware"
	"scheduling-api/modules/event/controller"
	"scheduling-api/modules/event/repository"
	"scheduling-api/modules/event/router"
	"scheduling-api/modules/event/service"
	slotRepository "scheduling-api/modules/slot/repository"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	repo := repository.NewEventRepository(db)
	slotRepo := slotRepository.NewSlotRepository(db)
	svc := service.NewEventService(db, repo, slotRepo)

	ctrl := controller.NewEventController(svc)
	mw := middleware.NewMiddleware(cfg.Auth)
	router.NewEventRouter(ctrl).Setup(e, mw)
}
