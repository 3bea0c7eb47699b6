package controller

import (
	"github.com/labstack/echo/v4"

	"scheduling-api/core/constants"
	"scheduling-api/core/controller"
	"scheduling-api/core/errors"
	"scheduling-api/core/utils"
	"scheduling-api/modules/auth/dto"
	"scheduling-api/modules/auth/service"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

func (ctrl *AuthController) PublicRegister(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	if requestData.Email == "" || requestData.Password == "" {
		return ctrl.BadRequest(errors.ErrInvalidInput, "email and password are required", nil)
	}

	result, appErr := ctrl.AuthService.Register(ctx, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, result, "register success")
}

func (ctrl *AuthController) PublicLogin(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	result, appErr := ctrl.AuthService.Login(ctx, requestData)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, result, "login success")
}

func (ctrl *AuthController) PrivateMe(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return ctrl.Unauthorized(errors.ErrUnauthorized, "missing token data")
	}

	user, appErr := ctrl.AuthService.GetUserByID(ctx, claims.UserID)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.SuccessResponse(c, user, "get profile success")
}
