package controller

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"scheduling-api/core/constants"
	"scheduling-api/core/controller"
	"scheduling-api/core/errors"
	"scheduling-api/core/utils"
	"scheduling-api/modules/timetable/dto"
	"scheduling-api/modules/timetable/service"
)

type TimetableController struct {
	controller.BaseController
	TimetableService service.TimetableServiceInterface
}

func NewTimetableController(svc service.TimetableServiceInterface) *TimetableController {
	return &TimetableController{
		BaseController:   controller.NewBaseController(),
		TimetableService: svc,
	}
}

func (ctrl *TimetableController) ownerID(c echo.Context) (uuid.UUID, bool) {
	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func (ctrl *TimetableController) PrivateCreate(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := ctrl.ownerID(c)
	if !ok {
		return ctrl.Unauthorized(errors.ErrUnauthorized, "missing token data")
	}

	requestData := new(dto.CreateTimetableRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	timetable, appErr := ctrl.TimetableService.Create(ctx, ownerID, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, timetable, "create timetable success")
}

func (ctrl *TimetableController) PrivateGetById(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid timetable id", nil)
	}

	timetable, appErr := ctrl.TimetableService.GetByID(ctx, id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, timetable, "get timetable success")
}

func (ctrl *TimetableController) PrivateList(c echo.Context) error {
	ctx := c.Request().Context()

	req := dto.ListTimetablesRequest{Name: c.QueryParam("name")}
	if raw := c.QueryParam("owner_id"); raw != "" {
		ownerID := utils.ToUUID(raw)
		if ownerID == uuid.Nil {
			return ctrl.BadRequest(errors.ErrInvalidInput, "invalid owner_id", nil)
		}
		req.OwnerID = &ownerID
	}
	if raw := c.QueryParam("repeatable"); raw != "" {
		repeatable := raw == "true"
		req.Repeatable = &repeatable
	}

	timetables, appErr := ctrl.TimetableService.List(ctx, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, timetables, "list timetables success")
}

func (ctrl *TimetableController) PrivateUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid timetable id", nil)
	}

	requestData := new(dto.UpdateTimetableRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	timetable, appErr := ctrl.TimetableService.Update(ctx, id, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, timetable, "update timetable success")
}

func (ctrl *TimetableController) PrivateDelete(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid timetable id", nil)
	}

	if appErr := ctrl.TimetableService.Delete(ctx, id); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, nil, "delete timetable success")
}

// PrivateExpand previews the slots a timetable would produce for the week of
// the given anchor, without persisting anything.
func (ctrl *TimetableController) PrivateExpand(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid timetable id", nil)
	}

	anchor := time.Now().UTC()
	if raw := c.QueryParam("anchor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ctrl.BadRequest(errors.ErrInvalidInput, "anchor must be RFC3339", nil)
		}
		anchor = parsed
	}

	slots, appErr := ctrl.TimetableService.Expand(ctx, id, anchor)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slots, "expand timetable success")
}

// PrivateRegenerate triggers the horizon maintenance pass on demand, the
// same work the scheduled task performs.
func (ctrl *TimetableController) PrivateRegenerate(c echo.Context) error {
	ctx := c.Request().Context()

	outcomes := ctrl.TimetableService.RegenerateAll(ctx, time.Now().UTC())
	return ctrl.SuccessResponse(c, outcomes, "regenerate slots success")
}
