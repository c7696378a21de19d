package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/services"
	"inventario/pkg/api"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	response, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Sesión iniciada", response)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	response, err := ctrl.authService.RefreshToken(c.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Tokens renovados", response)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.authService.Logout(c.Request().Context(), userID); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Sesión cerrada", struct{}{})
}
