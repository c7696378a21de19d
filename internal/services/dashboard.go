package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/repositories"
	"inventario/pkg/constants"
)

const dashboardCacheKey = "dashboard:resumen"

type DashboardServiceInterface interface {
	GetResumen(ctx context.Context) (*dto.ResumenDTO, error)
	InvalidateCache(ctx context.Context)
}

// DashboardService sirve los contadores del panel desde Redis cuando puede;
// los conteos se recalculan sólo al expirar el TTL o al invalidar la caché.
type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	cache         repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

func (s *DashboardService) GetResumen(ctx context.Context) (*dto.ResumenDTO, error) {
	if cached, err := s.cache.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
		var resumen dto.ResumenDTO
		if err := json.Unmarshal([]byte(cached), &resumen); err == nil {
			return &resumen, nil
		}
		s.logger.Warn("entrada de caché del panel corrupta, se recalcula")
	}

	equipos, err := s.dashboardRepo.CountEquiposPorEstado(ctx)
	if err != nil {
		return nil, err
	}
	fichas, err := s.dashboardRepo.CountFichasPorEstado(ctx)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenDTO{
		EquiposPorEstado: equipos,
		FichasPorEstado:  fichas,
	}
	for _, n := range equipos {
		resumen.TotalEquipos += n
	}
	for estado, n := range fichas {
		resumen.TotalFichas += n
		if estado != constants.FichaEstadoResuelta {
			resumen.FichasAbiertas += n
		}
	}

	if data, err := json.Marshal(resumen); err == nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, data, s.cacheTTL); err != nil {
			s.logger.Warn("no se pudo guardar el resumen en caché", zap.Error(err))
		}
	}
	return resumen, nil
}

func (s *DashboardService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Del(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("no se pudo invalidar la caché del panel", zap.Error(err))
	}
}
