package router

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/middleware"
	"scheduling-api/modules/auth/controller"
)

type AuthRouter struct {
	Controller *controller.AuthController
}

func NewAuthRouter(ctrl *controller.AuthController) *AuthRouter {
	return &AuthRouter{Controller: ctrl}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", r.Controller.PublicRegister)
	auth.POST("/login", r.Controller.PublicLogin)

	priv := v1.Group("/private", mw.AuthMiddleware())
	priv.GET("/auth/me", r.Controller.PrivateMe)
}
