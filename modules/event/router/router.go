package router

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/middleware"
	"scheduling-api/modules/event/controller"
)

type EventRouter struct {
	Controller *controller.EventController
}

func NewEventRouter(ctrl *controller.EventController) *EventRouter {
	return &EventRouter{Controller: ctrl}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	events := priv.Group("/events")
	events.POST("", r.Controller.PrivateCreate)
	events.GET("", r.Controller.PrivateList)
	events.GET("/:id", r.Controller.PrivateGetById)
	events.DELETE("/:id", r.Controller.PrivateDelete)
	events.POST("/:id/cancel", r.Controller.PrivateCancel)
	events.POST("/:id/reject-by-user", r.Controller.PrivateRejectByUser)
	events.POST("/:id/reject-by-member", r.Controller.PrivateRejectByMember)
	events.POST("/:id/reschedule", r.Controller.PrivateReschedule)
	events.POST("/:id/accept", r.Controller.PrivateAccept)
	events.POST("/:id/done", r.Controller.PrivateDone)
	events.POST("/:id/archive", r.Controller.PrivateArchive)
}
