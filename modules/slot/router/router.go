package router

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/middleware"
	"scheduling-api/modules/slot/controller"
)

type SlotRouter struct {
	Controller *controller.SlotController
}

func NewSlotRouter(ctrl *controller.SlotController) *SlotRouter {
	return &SlotRouter{Controller: ctrl}
}

func (r *SlotRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	slots := priv.Group("/slots")
	slots.POST("", r.Controller.PrivateCreate)
	slots.GET("", r.Controller.PrivateList)
	slots.GET("/:id", r.Controller.PrivateGetById)
	slots.POST("/:id/reserve", r.Controller.PrivateReserve)
	slots.POST("/:id/free", r.Controller.PrivateFree)
}
