package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/services"
	"inventario/pkg/api"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/utils"
)

type FichaAveriaController struct {
	fichaService services.FichaAveriaServiceInterface
	logger       *zap.Logger
}

func NewFichaAveriaController(fichaService services.FichaAveriaServiceInterface, logger *zap.Logger) *FichaAveriaController {
	return &FichaAveriaController{fichaService: fichaService, logger: logger}
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewInvalidInputError("el id %q no es válido", c.Param("id"))
	}
	return id, nil
}

func (ctrl *FichaAveriaController) GetFichas(c echo.Context) error {
	filter, err := ctrl.parseFilter(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	fichas, err := ctrl.fichaService.Filter(c.Request().Context(), *filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Fichas de avería", fichas, uint64(len(fichas)))
}

// parseFilter lee los criterios opcionales de la query string. Los criterios
// se combinan en conjunción; incluir_resueltas=false excluye las resueltas.
func (ctrl *FichaAveriaController) parseFilter(c echo.Context) (*dto.FichaAveriaFilterDTO, error) {
	var filter dto.FichaAveriaFilterDTO

	if v := c.QueryParam("equipo_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("equipo_id %q no es válido", v)
		}
		filter.EquipoID = &id
	}
	if v := c.QueryParam("estado"); v != "" {
		filter.Estado = &v
	}
	if v := c.QueryParam("usuario_reporte_id"); v != "" {
		filter.UsuarioReporteID = &v
	}
	if v := c.QueryParam("usuario_asignado_id"); v != "" {
		filter.UsuarioAsignadoID = &v
	}
	if v := c.QueryParam("prioridad"); v != "" {
		filter.Prioridad = &v
	}
	if v := c.QueryParam("fecha_inicio"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("fecha_inicio %q no es válida", v)
		}
		filter.FechaInicio = &t
	}
	if v := c.QueryParam("fecha_fin"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("fecha_fin %q no es válida", v)
		}
		filter.FechaFin = &t
	}
	if v := c.QueryParam("incluir_resueltas"); v != "" {
		incluir, err := strconv.ParseBool(v)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("incluir_resueltas %q no es válido", v)
		}
		filter.IncluirResueltas = &incluir
	}
	return &filter, nil
}

func (ctrl *FichaAveriaController) GetFicha(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ficha, err := ctrl.fichaService.FindByID(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ficha de avería", ficha)
}

func (ctrl *FichaAveriaController) GetFichasByEquipo(c echo.Context) error {
	equipoID, err := strconv.ParseUint(c.Param("equipoId"), 10, 64)
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("el id de equipo no es válido"), ctrl.logger)
	}

	fichas, err := ctrl.fichaService.ListByEquipo(c.Request().Context(), equipoID)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Fichas del equipo", fichas, uint64(len(fichas)))
}

// GetMisFichas devuelve las fichas reportadas por el usuario autenticado.
func (ctrl *FichaAveriaController) GetMisFichas(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	fichas, err := ctrl.fichaService.ListByUsuarioReporte(c.Request().Context(), userID)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Mis fichas", fichas, uint64(len(fichas)))
}

// GetFichasAsignadas devuelve las fichas asignadas al usuario autenticado.
func (ctrl *FichaAveriaController) GetFichasAsignadas(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	fichas, err := ctrl.fichaService.ListByUsuarioAsignado(c.Request().Context(), userID)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Fichas asignadas", fichas, uint64(len(fichas)))
}

func (ctrl *FichaAveriaController) CreateFicha(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateFichaAveriaDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ficha, err := ctrl.fichaService.Create(c.Request().Context(), userID, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Ficha de avería creada", ficha)
}

func (ctrl *FichaAveriaController) UpdateFicha(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateFichaAveriaDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ficha, err := ctrl.fichaService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ficha de avería actualizada", ficha)
}

func (ctrl *FichaAveriaController) AsignarTecnico(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.AsignarTecnicoDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ficha, err := ctrl.fichaService.AsignarTecnico(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Técnico asignado", ficha)
}

func (ctrl *FichaAveriaController) CambiarEstado(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CambiarEstadoDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewInvalidInputError("cuerpo de la petición no válido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	ficha, err := ctrl.fichaService.CambiarEstado(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Estado actualizado", ficha)
}

func (ctrl *FichaAveriaController) DeleteFicha(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.fichaService.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Ficha de avería eliminada", struct{}{})
}
