package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inventario/internal/controllers"
	"inventario/internal/listeners"
	"inventario/internal/repositories"
	"inventario/internal/routes"
	"inventario/internal/services"
	"inventario/pkg/config"
	"inventario/pkg/database/postgresql"
	"inventario/pkg/eventbus"
	"inventario/pkg/logger"
	"inventario/pkg/middleware"
	"inventario/pkg/service"
	"inventario/pkg/utils"
)

func main() {
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	cfg := config.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgresql.RunMigrations(cfg.Postgres.DSN, log)
	pool := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, log)
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis no disponible, la caché del panel quedará inactiva", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Repositorios.
	txManager := repositories.NewTxManager(pool)
	fichaRepo := repositories.NewFichaAveriaRepository(pool, log)
	equipoRepo := repositories.NewEquipoRepository(pool, log)
	ubicacionRepo := repositories.NewUbicacionRepository(pool, log)
	usuarioRepo := repositories.NewUsuarioRepository(pool, log)
	rolRepo := repositories.NewRolRepository(pool, log)
	dashboardRepo := repositories.NewDashboardRepository(pool, log)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Bus de eventos y notificaciones.
	bus := eventbus.New(log)
	notificationService := services.NewNotificationService(cfg.SMTP, log)
	listeners.NewNotificationListener(notificationService, log).Register(bus)

	// Servicios.
	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, log)
	authService := services.NewAuthService(usuarioRepo, jwtService, cfg.Auth, log)
	usuarioService := services.NewUsuarioService(usuarioRepo, rolRepo, log)
	ubicacionService := services.NewUbicacionService(ubicacionRepo, equipoRepo, log)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, cfg.Cache.DashboardTTL, log)
	equipoService := services.NewEquipoService(equipoRepo, ubicacionRepo, fichaRepo, dashboardService, log)
	fichaService := services.NewFichaAveriaService(fichaRepo, equipoRepo, usuarioRepo, txManager, bus, dashboardService, log)
	reporteService := services.NewReporteService(equipoService, fichaRepo, log)

	// HTTP.
	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator(validator.New())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(log))

	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	routes.InitRouter(e, routes.Controllers{
		Auth:        controllers.NewAuthController(authService, log),
		Usuario:     controllers.NewUsuarioController(usuarioService, log),
		Ubicacion:   controllers.NewUbicacionController(ubicacionService, log),
		Equipo:      controllers.NewEquipoController(equipoService, log),
		FichaAveria: controllers.NewFichaAveriaController(fichaService, log),
		Dashboard:   controllers.NewDashboardController(dashboardService, log),
		Reporte:     controllers.NewReporteController(reporteService, log),
	}, authMiddleware)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("el servidor HTTP se detuvo", zap.Error(err))
		}
	}()
	log.Info("servidor iniciado", zap.String("puerto", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("error al apagar el servidor", zap.Error(err))
	}
	log.Info("servidor detenido")
}
