package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/services"
	"inventario/pkg/api"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReporteController struct {
	reporteService services.ReporteServiceInterface
	logger         *zap.Logger
}

func NewReporteController(reporteService services.ReporteServiceInterface, logger *zap.Logger) *ReporteController {
	return &ReporteController{reporteService: reporteService, logger: logger}
}

func (ctrl *ReporteController) ExportEquipos(c echo.Context) error {
	buf, err := ctrl.reporteService.ExportEquipos(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="equipos.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (ctrl *ReporteController) ExportFichas(c echo.Context) error {
	var filter dto.FichaAveriaFilterDTO
	if v := c.QueryParam("estado"); v != "" {
		filter.Estado = &v
	}
	if v := c.QueryParam("prioridad"); v != "" {
		filter.Prioridad = &v
	}

	buf, err := ctrl.reporteService.ExportFichas(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="fichas_averia.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
