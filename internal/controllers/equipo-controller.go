package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/services"
	"inventario/pkg/api"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/types"
	"inventario/pkg/utils"
)

type EquipoController struct {
	equipoService services.EquipoServiceInterface
	logger        *zap.Logger
}

func NewEquipoController(equipoService services.EquipoServiceInterface, logger *zap.Logger) *EquipoController {
	return &EquipoController{equipoService: equipoService, logger: logger}
}

func (ctrl *EquipoController) GetEquipos(c echo.Context) error {
	var filter types.Filter
	filter.Search = c.QueryParam("search")
	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.Offset = offset
		}
	}

	equipos, total, err := ctrl.equipoService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Equipos", equipos, total)
}

func (ctrl *EquipoController) GetEquipo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	equipo, err := ctrl.equipoService.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Equipo", equipo)
}

func (ctrl *EquipoController) GetEquiposByUbicacion(c echo.Context) error {
	ubicacionID, err := strconv.ParseUint(c.Param("ubicacionId"), 10, 64)
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("el id de ubicación no es válido"), ctrl.logger)
	}

	equipos, err := ctrl.equipoService.ListByUbicacion(c.Request().Context(), ubicacionID)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Equipos de la ubicación", equipos, uint64(len(equipos)))
}

func (ctrl *EquipoController) GetEquiposByEstado(c echo.Context) error {
	estado := c.Param("estado")
	if estado == "" {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("el estado es obligatorio"), ctrl.logger)
	}

	equipos, err := ctrl.equipoService.ListByEstado(c.Request().Context(), estado)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Equipos por estado", equipos, uint64(len(equipos)))
}

func (ctrl *EquipoController) CreateEquipo(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateEquipoDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	equipo, err := ctrl.equipoService.Create(c.Request().Context(), userID, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Equipo creado", equipo)
}

func (ctrl *EquipoController) UpdateEquipo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateEquipoDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	equipo, err := ctrl.equipoService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Equipo actualizado", equipo)
}

func (ctrl *EquipoController) DeleteEquipo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.equipoService.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Equipo eliminado", struct{}{})
}
