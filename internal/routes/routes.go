package routes

import (
	"github.com/labstack/echo/v4"

	"inventario/internal/controllers"
	"inventario/pkg/constants"
	"inventario/pkg/middleware"
)

// Controllers agrupa los controladores que monta el router.
type Controllers struct {
	Auth        *controllers.AuthController
	Usuario     *controllers.UsuarioController
	Ubicacion   *controllers.UbicacionController
	Equipo      *controllers.EquipoController
	FichaAveria *controllers.FichaAveriaController
	Dashboard   *controllers.DashboardController
	Reporte     *controllers.ReporteController
}

// InitRouter monta todas las rutas de la API bajo /api/v1. Todo salvo el
// login y el refresh requiere un access token válido; las operaciones de
// escritura quedan además restringidas por rol.
func InitRouter(e *echo.Echo, ctrls Controllers, auth *middleware.AuthMiddleware) {
	v1 := e.Group("/api/v1")

	runAuthRouter(v1, ctrls.Auth, auth)

	secure := v1.Group("", auth.Auth)
	runUsuarioRouter(secure, ctrls.Usuario, auth)
	runUbicacionRouter(secure, ctrls.Ubicacion, auth)
	runEquipoRouter(secure, ctrls.Equipo, auth)
	runFichaAveriaRouter(secure, ctrls.FichaAveria, auth)
	runDashboardRouter(secure, ctrls.Dashboard, auth)
	runReporteRouter(secure, ctrls.Reporte, auth)
}

func runAuthRouter(g *echo.Group, ctrl *controllers.AuthController, auth *middleware.AuthMiddleware) {
	grupo := g.Group("/auth")
	grupo.POST("/login", ctrl.Login)
	grupo.POST("/refresh", ctrl.RefreshToken)
	grupo.POST("/logout", ctrl.Logout, auth.Auth)
}

func runUsuarioRouter(g *echo.Group, ctrl *controllers.UsuarioController, auth *middleware.AuthMiddleware) {
	admin := auth.RequireRoles(constants.RolAdministrador)

	grupo := g.Group("/usuarios")
	grupo.GET("", ctrl.GetUsuarios, admin)
	grupo.GET("/roles", ctrl.GetRoles, admin)
	grupo.GET("/:id", ctrl.GetUsuario, admin)
	grupo.POST("", ctrl.CreateUsuario, admin)
	grupo.PUT("/:id", ctrl.UpdateUsuario, admin)
	grupo.DELETE("/:id", ctrl.DeleteUsuario, admin)
}

func runUbicacionRouter(g *echo.Group, ctrl *controllers.UbicacionController, auth *middleware.AuthMiddleware) {
	gestion := auth.RequireRoles(constants.RolAdministrador, constants.RolSupervisor)

	grupo := g.Group("/ubicaciones")
	grupo.GET("", ctrl.GetUbicaciones)
	grupo.GET("/:id", ctrl.GetUbicacion)
	grupo.POST("", ctrl.CreateUbicacion, gestion)
	grupo.PUT("/:id", ctrl.UpdateUbicacion, gestion)
	grupo.DELETE("/:id", ctrl.DeleteUbicacion, auth.RequireRoles(constants.RolAdministrador))
}

func runEquipoRouter(g *echo.Group, ctrl *controllers.EquipoController, auth *middleware.AuthMiddleware) {
	gestion := auth.RequireRoles(constants.RolAdministrador, constants.RolSupervisor)

	grupo := g.Group("/equipos")
	grupo.GET("", ctrl.GetEquipos)
	grupo.GET("/:id", ctrl.GetEquipo)
	grupo.GET("/ubicacion/:ubicacionId", ctrl.GetEquiposByUbicacion)
	grupo.GET("/estado/:estado", ctrl.GetEquiposByEstado)
	grupo.POST("", ctrl.CreateEquipo, gestion)
	grupo.PUT("/:id", ctrl.UpdateEquipo, gestion)
	grupo.DELETE("/:id", ctrl.DeleteEquipo, auth.RequireRoles(constants.RolAdministrador))
}

func runFichaAveriaRouter(g *echo.Group, ctrl *controllers.FichaAveriaController, auth *middleware.AuthMiddleware) {
	tecnicos := auth.RequireRoles(constants.RolAdministrador, constants.RolSupervisor, constants.RolTecnico)
	supervision := auth.RequireRoles(constants.RolAdministrador, constants.RolSupervisor)

	grupo := g.Group("/fichas")
	grupo.GET("", ctrl.GetFichas)
	grupo.GET("/mias", ctrl.GetMisFichas)
	grupo.GET("/asignadas", ctrl.GetFichasAsignadas)
	grupo.GET("/equipo/:equipoId", ctrl.GetFichasByEquipo)
	grupo.GET("/:id", ctrl.GetFicha)
	grupo.POST("", ctrl.CreateFicha)
	grupo.PUT("/:id", ctrl.UpdateFicha, tecnicos)
	grupo.PUT("/:id/asignar", ctrl.AsignarTecnico, supervision)
	grupo.PUT("/:id/estado", ctrl.CambiarEstado, tecnicos)
	grupo.DELETE("/:id", ctrl.DeleteFicha, auth.RequireRoles(constants.RolAdministrador))
}

func runDashboardRouter(g *echo.Group, ctrl *controllers.DashboardController, auth *middleware.AuthMiddleware) {
	grupo := g.Group("/dashboard")
	grupo.GET("/resumen", ctrl.GetResumen)
}

func runReporteRouter(g *echo.Group, ctrl *controllers.ReporteController, auth *middleware.AuthMiddleware) {
	supervision := auth.RequireRoles(constants.RolAdministrador, constants.RolSupervisor)

	grupo := g.Group("/reportes")
	grupo.GET("/equipos", ctrl.ExportEquipos, supervision)
	grupo.GET("/fichas", ctrl.ExportFichas, supervision)
}
