package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/pkg/constants"
	apperrors "inventario/pkg/errors"
)

type equipoFixture struct {
	service     EquipoServiceInterface
	equipos     *fakeEquipoRepo
	ubicaciones *fakeUbicacionRepo
	fichas      *fakeFichaRepo
	cache       *fakeCache
	ubicacionID uint64
}

func newEquipoFixture(t *testing.T) *equipoFixture {
	t.Helper()

	usuarios := newFakeUsuarioRepo()
	usuarios.add("u-reporter", "Laura", "laura@example.com")

	equipos := newFakeEquipoRepo()
	ubicaciones := newFakeUbicacionRepo()
	fichas := newFakeFichaRepo(usuarios, equipos)

	ubicacionID, err := ubicaciones.Create(context.Background(), entities.Ubicacion{
		Nombre: "Sala de medios",
		Activo: true,
	})
	require.NoError(t, err)

	logger := zap.NewNop()
	cache := newFakeCache()
	dashboard := NewDashboardService(&fakeDashboardRepo{}, cache, time.Minute, logger)
	svc := NewEquipoService(equipos, ubicaciones, fichas, dashboard, logger)
	return &equipoFixture{
		service:     svc,
		equipos:     equipos,
		ubicaciones: ubicaciones,
		fichas:      fichas,
		cache:       cache,
		ubicacionID: ubicacionID,
	}
}

func TestCreateEquipoEstadoPorDefecto(t *testing.T) {
	fx := newEquipoFixture(t)

	equipo, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateEquipoDTO{
		Nombre:      "Proyector",
		NumeroSerie: "SN-001",
		FechaCompra: time.Now(),
		UbicacionID: fx.ubicacionID,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoDisponible, equipo.Estado)
	assert.Equal(t, fx.ubicacionID, equipo.Ubicacion.ID)
	assert.Zero(t, equipo.FichasAbiertas)
}

func TestCreateEquipoUbicacionInexistente(t *testing.T) {
	fx := newEquipoFixture(t)

	_, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateEquipoDTO{
		Nombre:      "Proyector",
		NumeroSerie: "SN-002",
		FechaCompra: time.Now(),
		UbicacionID: 999,
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteEquipoConFichasAbiertas(t *testing.T) {
	fx := newEquipoFixture(t)

	equipo, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateEquipoDTO{
		Nombre:      "Mesa de sonido",
		NumeroSerie: "SN-003",
		FechaCompra: time.Now(),
		UbicacionID: fx.ubicacionID,
	})
	require.NoError(t, err)

	fichaID, err := fx.fichas.Create(context.Background(), nil, entities.FichaAveria{
		EquipoID:         equipo.ID,
		Titulo:           "Canal 3 muerto",
		Estado:           constants.FichaEstadoReportada,
		FechaReporte:     time.Now(),
		UsuarioReporteID: "u-reporter",
	})
	require.NoError(t, err)

	err = fx.service.Delete(context.Background(), equipo.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	// Resuelta la ficha, la baja procede.
	ficha := fx.fichas.fichas[fichaID]
	ficha.Estado = constants.FichaEstadoResuelta
	fx.fichas.fichas[fichaID] = ficha

	require.NoError(t, fx.service.Delete(context.Background(), equipo.ID))
}

func TestCreateEquipoInvalidaLaCacheDelPanel(t *testing.T) {
	fx := newEquipoFixture(t)
	require.NoError(t, fx.cache.Set(context.Background(), dashboardCacheKey, "resumen", time.Minute))

	_, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateEquipoDTO{
		Nombre:      "Grabador de campo",
		NumeroSerie: "SN-005",
		FechaCompra: time.Now(),
		UbicacionID: fx.ubicacionID,
	})
	require.NoError(t, err)
	assert.NotContains(t, fx.cache.data, dashboardCacheKey)
}

func TestUpdateEquipoParcial(t *testing.T) {
	fx := newEquipoFixture(t)

	equipo, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateEquipoDTO{
		Nombre:      "Micrófono inalámbrico",
		NumeroSerie: "SN-004",
		Marca:       "Genérica",
		FechaCompra: time.Now(),
		UbicacionID: fx.ubicacionID,
	})
	require.NoError(t, err)

	nuevoEstado := constants.EquipoEstadoEnUso
	actualizado, err := fx.service.Update(context.Background(), equipo.ID, dto.UpdateEquipoDTO{
		Estado: &nuevoEstado,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoEnUso, actualizado.Estado)
	assert.Equal(t, equipo.Nombre, actualizado.Nombre)
	assert.Equal(t, equipo.Marca, actualizado.Marca)
}
