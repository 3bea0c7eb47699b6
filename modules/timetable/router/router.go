package router

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/middleware"
	"scheduling-api/modules/timetable/controller"
)

type TimetableRouter struct {
	Controller *controller.TimetableController
}

func NewTimetableRouter(ctrl *controller.TimetableController) *TimetableRouter {
	return &TimetableRouter{Controller: ctrl}
}

func (r *TimetableRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())

	timetables := priv.Group("/timetables")
	timetables.POST("", r.Controller.PrivateCreate)
	timetables.GET("", r.Controller.PrivateList)
	timetables.GET("/:id", r.Controller.PrivateGetById)
	timetables.PATCH("/:id", r.Controller.PrivateUpdate)
	timetables.DELETE("/:id", r.Controller.PrivateDelete)
	timetables.GET("/:id/expand", r.Controller.PrivateExpand)
	timetables.POST("/regenerate", r.Controller.PrivateRegenerate)
}
