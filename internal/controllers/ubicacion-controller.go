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

type UbicacionController struct {
	ubicacionService services.UbicacionServiceInterface
	logger           *zap.Logger
}

func NewUbicacionController(ubicacionService services.UbicacionServiceInterface, logger *zap.Logger) *UbicacionController {
	return &UbicacionController{ubicacionService: ubicacionService, logger: logger}
}

func (ctrl *UbicacionController) GetUbicaciones(c echo.Context) error {
	var ubicaciones []dto.UbicacionDTO
	var err error

	if c.QueryParam("activas") == "true" {
		ubicaciones, err = ctrl.ubicacionService.GetActivas(c.Request().Context())
	} else {
		ubicaciones, err = ctrl.ubicacionService.GetAll(c.Request().Context())
	}
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Ubicaciones", ubicaciones, uint64(len(ubicaciones)))
}

func (ctrl *UbicacionController) GetUbicacion(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ubicacion, err := ctrl.ubicacionService.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ubicación", ubicacion)
}

func (ctrl *UbicacionController) CreateUbicacion(c echo.Context) error {
	var payload dto.CreateUbicacionDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ubicacion, err := ctrl.ubicacionService.Create(c.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Ubicación creada", ubicacion)
}

func (ctrl *UbicacionController) UpdateUbicacion(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateUbicacionDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ubicacion, err := ctrl.ubicacionService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ubicación actualizada", ubicacion)
}

func (ctrl *UbicacionController) DeleteUbicacion(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.ubicacionService.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ubicación eliminada", struct{}{})
}
