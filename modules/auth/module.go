package auth

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/config"
	"scheduling-api/core/database"
	"scheduling-api/core/middleware"
	"scheduling-api/modules/auth/controller"
	"scheduling-api/modules/auth/repository"
	"scheduling-api/modules/auth/router"
	"scheduling-api/modules/auth/service"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo, cfg.Auth)

	ctrl := controller.NewAuthController(svc)
	mw := middleware.NewMiddleware(cfg.Auth)
	router.NewAuthRouter(ctrl).Setup(e, mw)
}
