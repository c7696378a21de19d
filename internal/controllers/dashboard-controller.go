package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/internal/services"
	"inventario/pkg/api"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(dashboardService services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

func (ctrl *DashboardController) GetResumen(c echo.Context) error {
	resumen, err := ctrl.dashboardService.GetResumen(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Resumen del panel", resumen)
}
