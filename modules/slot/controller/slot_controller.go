package controller

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"scheduling-api/core/controller"
	"scheduling-api/core/errors"
	"scheduling-api/core/utils"
	"scheduling-api/modules/slot/dto"
	"scheduling-api/modules/slot/service"
)

type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface
}

func NewSlotController(svc service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		SlotService:    svc,
	}
}

func (ctrl *SlotController) PrivateCreate(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.CreateSlotRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	slot, appErr := ctrl.SlotService.Create(ctx, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slot, "create slot success")
}

func (ctrl *SlotController) PrivateGetById(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid slot id", nil)
	}

	slot, appErr := ctrl.SlotService.GetByID(ctx, id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slot, "get slot success")
}

func (ctrl *SlotController) PrivateList(c echo.Context) error {
	ctx := c.Request().Context()

	req := dto.ListSlotsRequest{}
	if raw := c.QueryParam("timetable_id"); raw != "" {
		id := utils.ToUUID(raw)
		if id == uuid.Nil {
			return ctrl.BadRequest(errors.ErrInvalidInput, "invalid timetable_id", nil)
		}
		req.TimetableID = &id
	}
	if raw := c.QueryParam("taken"); raw != "" {
		taken := raw == "true"
		req.Taken = &taken
	}
	var parseErr *echo.HTTPError
	timeParam := func(name string) *time.Time {
		raw := c.QueryParam(name)
		if raw == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parseErr = ctrl.BadRequest(errors.ErrInvalidInput, name+" must be RFC3339", nil)
			return nil
		}
		return &parsed
	}
	req.MinStartTime = timeParam("min_start_time")
	req.MaxStartTime = timeParam("max_start_time")
	req.MinEndTime = timeParam("min_end_time")
	req.MaxEndTime = timeParam("max_end_time")
	if parseErr != nil {
		return parseErr
	}

	slots, appErr := ctrl.SlotService.List(ctx, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slots, "list slots success")
}

// PrivateReserve claims a slot directly, outside the event lifecycle. At
// most one concurrent caller succeeds; the rest get SLOT_TAKEN.
func (ctrl *SlotController) PrivateReserve(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid slot id", nil)
	}

	slot, appErr := ctrl.SlotService.Reserve(ctx, id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slot, "reserve slot success")
}

func (ctrl *SlotController) PrivateFree(c echo.Context) error {
	ctx := c.Request().Context()

	id := utils.ToUUID(c.Param("id"))
	if id == uuid.Nil {
		return ctrl.BadRequest(errors.ErrInvalidInput, "invalid slot id", nil)
	}

	slot, appErr := ctrl.SlotService.Free(ctx, id)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, slot, "free slot success")
}
