package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/services"
	"inventario/pkg/api"
	apperrors "inventario/pkg/errors"
)

type UsuarioController struct {
	usuarioService services.UsuarioServiceInterface
	logger         *zap.Logger
}

func NewUsuarioController(usuarioService services.UsuarioServiceInterface, logger *zap.Logger) *UsuarioController {
	return &UsuarioController{usuarioService: usuarioService, logger: logger}
}

func (ctrl *UsuarioController) GetUsuarios(c echo.Context) error {
	usuarios, err := ctrl.usuarioService.GetAll(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Usuarios", usuarios, uint64(len(usuarios)))
}

func (ctrl *UsuarioController) GetUsuario(c echo.Context) error {
	usuario, err := ctrl.usuarioService.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Usuario", usuario)
}

func (ctrl *UsuarioController) GetRoles(c echo.Context) error {
	roles, err := ctrl.usuarioService.GetRoles(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Roles", roles, uint64(len(roles)))
}

func (ctrl *UsuarioController) CreateUsuario(c echo.Context) error {
	var payload dto.CreateUsuarioDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	usuario, err := ctrl.usuarioService.Create(c.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Usuario creado", usuario)
}

func (ctrl *UsuarioController) UpdateUsuario(c echo.Context) error {
	var payload dto.UpdateUsuarioDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	usuario, err := ctrl.usuarioService.Update(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Usuario actualizado", usuario)
}

func (ctrl *UsuarioController) DeleteUsuario(c echo.Context) error {
	if err := ctrl.usuarioService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Usuario eliminado", struct{}{})
}
