package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventario/internal/repositories"
	"inventario/pkg/constants"
)

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakeDashboardRepo struct {
	equipos map[string]uint64
	fichas  map[string]uint64
	calls   int
}

func (f *fakeDashboardRepo) CountEquiposPorEstado(ctx context.Context) (map[string]uint64, error) {
	f.calls++
	return f.equipos, nil
}

func (f *fakeDashboardRepo) CountFichasPorEstado(ctx context.Context) (map[string]uint64, error) {
	return f.fichas, nil
}

var _ repositories.CacheRepositoryInterface = (*fakeCache)(nil)
var _ repositories.DashboardRepositoryInterface = (*fakeDashboardRepo)(nil)

func TestGetResumenAgregaTotales(t *testing.T) {
	repo := &fakeDashboardRepo{
		equipos: map[string]uint64{
			constants.EquipoEstadoDisponible:   7,
			constants.EquipoEstadoEnReparacion: 2,
		},
		fichas: map[string]uint64{
			constants.FichaEstadoReportada: 3,
			constants.FichaEstadoEnProceso: 1,
			constants.FichaEstadoResuelta:  5,
		},
	}
	svc := NewDashboardService(repo, newFakeCache(), time.Minute, zap.NewNop())

	resumen, err := svc.GetResumen(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(9), resumen.TotalEquipos)
	assert.Equal(t, uint64(9), resumen.TotalFichas)
	// Las resueltas no cuentan como abiertas.
	assert.Equal(t, uint64(4), resumen.FichasAbiertas)
}

func TestGetResumenUsaLaCache(t *testing.T) {
	repo := &fakeDashboardRepo{
		equipos: map[string]uint64{constants.EquipoEstadoDisponible: 1},
		fichas:  map[string]uint64{},
	}
	cache := newFakeCache()
	svc := NewDashboardService(repo, cache, time.Minute, zap.NewNop())

	_, err := svc.GetResumen(context.Background())
	require.NoError(t, err)
	_, err = svc.GetResumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	svc.InvalidateCache(context.Background())
	_, err = svc.GetResumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
