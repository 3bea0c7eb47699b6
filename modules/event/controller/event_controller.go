package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"scheduling-api/core/controller"
	"scheduling-api/core/errors"
	"scheduling-api/core/params"
	"scheduling-api/core/utils"
	"scheduling-api/modules/event/dto"
	"scheduling-api/modules/event/entity"
	"scheduling-api/modules/event/service"
)

type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (ctrl *EventController) PrivateCreate(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.CreateEventRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	if requestData.SlotID == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "slot_id is required", nil)
	}

	event, appErr := ctrl.EventService.Create(ctx, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "create event success")
}

func (ctrl *EventController) PrivateGetById(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.GetByID(ctx, id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "get event success")
}

func (ctrl *EventController) PrivateList(c echo.Context) error {
	ctx := c.Request().Context()

	req := &dto.ListEventsRequest{
		Statuses: c.QueryParams()["status"],
		SlotID:   c.QueryParam("slot_id"),
		Member:   c.QueryParam("member"),
		Title:    c.QueryParam("title"),
	}

	events, appErr := ctrl.EventService.List(ctx, req, params.FromContext(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, events, "list events success")
}

// bindTransition tolerates an empty body; every field is optional.
func (ctrl *EventController) bindTransition(c echo.Context) *dto.TransitionRequest {
	requestData := new(dto.TransitionRequest)
	if err := c.Bind(requestData); err != nil {
		return &dto.TransitionRequest{}
	}
	return requestData
}

func (ctrl *EventController) PrivateCancel(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.Cancel(ctx, id, ctrl.bindTransition(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "cancel event success")
}

func (ctrl *EventController) PrivateRejectByUser(c echo.Context) error {
	return ctrl.reject(c, entity.ActorUser)
}

func (ctrl *EventController) PrivateRejectByMember(c echo.Context) error {
	return ctrl.reject(c, entity.ActorMember)
}

func (ctrl *EventController) reject(c echo.Context, by entity.Actor) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.Reject(ctx, id, by, ctrl.bindTransition(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "reject event success")
}

func (ctrl *EventController) PrivateReschedule(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.RescheduleEventRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	if requestData.SlotID == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "slot_id is required", nil)
	}

	event, appErr := ctrl.EventService.Reschedule(ctx, id, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "reschedule event success")
}

func (ctrl *EventController) PrivateAccept(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.Accept(ctx, id, ctrl.bindTransition(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "accept event success")
}

func (ctrl *EventController) PrivateDone(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.Complete(ctx, id, ctrl.bindTransition(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "complete event success")
}

func (ctrl *EventController) PrivateArchive(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctrl.EventService.Archive(ctx, id, ctrl.bindTransition(c))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, event, "archive event success")
}

func (ctrl *EventController) PrivateDelete(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	if appErr := ctrl.EventService.Delete(ctx, id); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "delete event success")
}
