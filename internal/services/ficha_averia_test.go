package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/internal/repositories"
	"inventario/pkg/constants"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/eventbus"
	"inventario/pkg/types"
)

// --- dobles en memoria -------------------------------------------------------

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeFichaRepo struct {
	fichas   map[uint64]entities.FichaAveria
	usuarios *fakeUsuarioRepo
	equipos  *fakeEquipoRepo
	nextID   uint64
}

func newFakeFichaRepo(usuarios *fakeUsuarioRepo, equipos *fakeEquipoRepo) *fakeFichaRepo {
	return &fakeFichaRepo{
		fichas:   make(map[uint64]entities.FichaAveria),
		usuarios: usuarios,
		equipos:  equipos,
		nextID:   1,
	}
}

func (f *fakeFichaRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.FichaAveria, error) {
	ficha, ok := f.fichas[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &ficha, nil
}

func (f *fakeFichaRepo) toDTO(ficha entities.FichaAveria) dto.FichaAveriaDTO {
	result := dto.FichaAveriaDTO{
		ID:           ficha.ID,
		EquipoID:     ficha.EquipoID,
		Titulo:       ficha.Titulo,
		Descripcion:  ficha.Descripcion,
		Estado:       ficha.Estado,
		FechaReporte: ficha.FechaReporte,
	}
	if ficha.FechaResolucion != nil {
		result.FechaResolucion = null.TimeFrom(*ficha.FechaResolucion)
	}
	if ficha.SolucionAplicada != nil {
		result.SolucionAplicada = null.StringFrom(*ficha.SolucionAplicada)
	}
	if ficha.Comentarios != nil {
		result.Comentarios = null.StringFrom(*ficha.Comentarios)
	}
	if ficha.Prioridad != nil {
		result.Prioridad = null.StringFrom(*ficha.Prioridad)
	}
	if u, ok := f.usuarios.usuarios[ficha.UsuarioReporteID]; ok {
		result.UsuarioReporte = dto.ShortUsuarioDTO{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
	}
	if ficha.UsuarioAsignadoID != nil {
		if u, ok := f.usuarios.usuarios[*ficha.UsuarioAsignadoID]; ok {
			result.UsuarioAsignado = &dto.ShortUsuarioDTO{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
		}
	}
	if e, ok := f.equipos.equipos[ficha.EquipoID]; ok {
		result.Equipo = &dto.ShortEquipoDTO{ID: e.ID, Nombre: e.Nombre, Estado: e.Estado}
	}
	return result
}

func (f *fakeFichaRepo) FindDTOByID(ctx context.Context, id uint64) (*dto.FichaAveriaDTO, error) {
	ficha, ok := f.fichas[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := f.toDTO(ficha)
	return &result, nil
}

func (f *fakeFichaRepo) Filter(ctx context.Context, filter dto.FichaAveriaFilterDTO) ([]dto.FichaAveriaDTO, error) {
	result := make([]dto.FichaAveriaDTO, 0)
	for _, ficha := range f.fichas {
		if filter.EquipoID != nil && ficha.EquipoID != *filter.EquipoID {
			continue
		}
		if filter.Estado != nil && ficha.Estado != *filter.Estado {
			continue
		}
		if filter.UsuarioReporteID != nil && ficha.UsuarioReporteID != *filter.UsuarioReporteID {
			continue
		}
		if filter.UsuarioAsignadoID != nil &&
			(ficha.UsuarioAsignadoID == nil || *ficha.UsuarioAsignadoID != *filter.UsuarioAsignadoID) {
			continue
		}
		if filter.Prioridad != nil && (ficha.Prioridad == nil || *ficha.Prioridad != *filter.Prioridad) {
			continue
		}
		if filter.FechaInicio != nil && ficha.FechaReporte.Before(*filter.FechaInicio) {
			continue
		}
		if filter.FechaFin != nil && ficha.FechaReporte.After(*filter.FechaFin) {
			continue
		}
		if filter.IncluirResueltas != nil && !*filter.IncluirResueltas &&
			ficha.Estado == constants.FichaEstadoResuelta {
			continue
		}
		result = append(result, f.toDTO(ficha))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FechaReporte.After(result[j].FechaReporte)
	})
	return result, nil
}

func (f *fakeFichaRepo) Create(ctx context.Context, tx pgx.Tx, ficha entities.FichaAveria) (uint64, error) {
	ficha.ID = f.nextID
	f.nextID++
	f.fichas[ficha.ID] = ficha
	return ficha.ID, nil
}

func (f *fakeFichaRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, ficha entities.FichaAveria) error {
	if _, ok := f.fichas[id]; !ok {
		return apperrors.ErrNotFound
	}
	ficha.ID = id
	f.fichas[id] = ficha
	return nil
}

func (f *fakeFichaRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.fichas[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.fichas, id)
	return nil
}

func (f *fakeFichaRepo) CountAbiertasByEquipo(ctx context.Context, equipoID uint64) (uint64, error) {
	var count uint64
	for _, ficha := range f.fichas {
		if ficha.EquipoID == equipoID && ficha.Estado != constants.FichaEstadoResuelta {
			count++
		}
	}
	return count, nil
}

type fakeEquipoRepo struct {
	equipos map[uint64]entities.Equipo
	nextID  uint64
}

func newFakeEquipoRepo() *fakeEquipoRepo {
	return &fakeEquipoRepo{equipos: make(map[uint64]entities.Equipo), nextID: 1}
}

func (f *fakeEquipoRepo) add(nombre, estado string) uint64 {
	id := f.nextID
	f.nextID++
	f.equipos[id] = entities.Equipo{ID: id, Nombre: nombre, Estado: estado, UbicacionID: 1}
	return id
}

func (f *fakeEquipoRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipo, uint64, error) {
	result := make([]entities.Equipo, 0, len(f.equipos))
	for _, e := range f.equipos {
		result = append(result, e)
	}
	return result, uint64(len(result)), nil
}

func (f *fakeEquipoRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipo, error) {
	e, ok := f.equipos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (f *fakeEquipoRepo) ListByUbicacion(ctx context.Context, ubicacionID uint64) ([]entities.Equipo, error) {
	result := make([]entities.Equipo, 0)
	for _, e := range f.equipos {
		if e.UbicacionID == ubicacionID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEquipoRepo) ListByEstado(ctx context.Context, estado string) ([]entities.Equipo, error) {
	result := make([]entities.Equipo, 0)
	for _, e := range f.equipos {
		if e.Estado == estado {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEquipoRepo) Create(ctx context.Context, equipo entities.Equipo) (uint64, error) {
	equipo.ID = f.nextID
	f.nextID++
	f.equipos[equipo.ID] = equipo
	return equipo.ID, nil
}

func (f *fakeEquipoRepo) Update(ctx context.Context, id uint64, equipo entities.Equipo) error {
	if _, ok := f.equipos[id]; !ok {
		return apperrors.ErrNotFound
	}
	equipo.ID = id
	f.equipos[id] = equipo
	return nil
}

func (f *fakeEquipoRepo) UpdateEstado(ctx context.Context, tx pgx.Tx, id uint64, estado string) error {
	e, ok := f.equipos[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Estado = estado
	f.equipos[id] = e
	return nil
}

func (f *fakeEquipoRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.equipos[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.equipos, id)
	return nil
}

func (f *fakeEquipoRepo) CountByUbicacion(ctx context.Context, ubicacionID uint64) (uint64, error) {
	var count uint64
	for _, e := range f.equipos {
		if e.UbicacionID == ubicacionID {
			count++
		}
	}
	return count, nil
}

type fakeUsuarioRepo struct {
	usuarios map[string]entities.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[string]entities.Usuario)}
}

func (f *fakeUsuarioRepo) add(id, nombre, email string) {
	f.usuarios[id] = entities.Usuario{ID: id, Nombre: nombre, Email: email, Activo: true}
}

func (f *fakeUsuarioRepo) GetAll(ctx context.Context) ([]entities.Usuario, error) {
	result := make([]entities.Usuario, 0, len(f.usuarios))
	for _, u := range f.usuarios {
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUsuarioRepo) FindByID(ctx context.Context, id string) (*entities.Usuario, error) {
	u, ok := f.usuarios[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsuarioRepo) FindByEmail(ctx context.Context, email string) (*entities.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUsuarioRepo) Create(ctx context.Context, usuario entities.Usuario, rolIDs []uint64) error {
	f.usuarios[usuario.ID] = usuario
	return nil
}

func (f *fakeUsuarioRepo) Update(ctx context.Context, id string, usuario entities.Usuario) error {
	if _, ok := f.usuarios[id]; !ok {
		return apperrors.ErrNotFound
	}
	usuario.ID = id
	f.usuarios[id] = usuario
	return nil
}

func (f *fakeUsuarioRepo) SetRoles(ctx context.Context, id string, rolIDs []uint64) error {
	return nil
}

func (f *fakeUsuarioRepo) RegisterFailedLogin(ctx context.Context, id string, count int, lockoutEnd *time.Time) error {
	u, ok := f.usuarios[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.AccessFailedCount = count
	u.LockoutEnd = lockoutEnd
	f.usuarios[id] = u
	return nil
}

func (f *fakeUsuarioRepo) ResetAccessFailed(ctx context.Context, id string) error {
	u, ok := f.usuarios[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.AccessFailedCount = 0
	u.LockoutEnd = nil
	f.usuarios[id] = u
	return nil
}

func (f *fakeUsuarioRepo) SaveRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	u, ok := f.usuarios[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshToken = token
	u.RefreshTokenExpiry = expiry
	f.usuarios[id] = u
	return nil
}

func (f *fakeUsuarioRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.usuarios[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.usuarios, id)
	return nil
}

var _ repositories.FichaAveriaRepositoryInterface = (*fakeFichaRepo)(nil)
var _ repositories.EquipoRepositoryInterface = (*fakeEquipoRepo)(nil)
var _ repositories.UsuarioRepositoryInterface = (*fakeUsuarioRepo)(nil)
var _ repositories.TxManagerInterface = (*fakeTxManager)(nil)

// --- preparación -------------------------------------------------------------

type fichaFixture struct {
	service  FichaAveriaServiceInterface
	fichas   *fakeFichaRepo
	equipos  *fakeEquipoRepo
	usuarios *fakeUsuarioRepo
	cache    *fakeCache
}

func newFichaFixture(t *testing.T) *fichaFixture {
	t.Helper()

	usuarios := newFakeUsuarioRepo()
	usuarios.add("u-reporter", "Laura", "laura@example.com")
	usuarios.add("u-tecnico", "Marcos", "marcos@example.com")

	equipos := newFakeEquipoRepo()
	fichas := newFakeFichaRepo(usuarios, equipos)

	logger := zap.NewNop()
	cache := newFakeCache()
	dashboard := NewDashboardService(&fakeDashboardRepo{}, cache, time.Minute, logger)
	svc := NewFichaAveriaService(fichas, equipos, usuarios, &fakeTxManager{}, eventbus.New(logger), dashboard, logger)

	return &fichaFixture{service: svc, fichas: fichas, equipos: equipos, usuarios: usuarios, cache: cache}
}

// --- pruebas -----------------------------------------------------------------

func TestCreateFichaPoneEquipoEnReparacion(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Proyector aula 3", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "No enciende",
		Descripcion: "El proyector no da señal de vida",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.FichaEstadoReportada, ficha.Estado)
	assert.False(t, ficha.FechaReporte.IsZero())
	assert.False(t, ficha.FechaResolucion.Valid)
	assert.Equal(t, "u-reporter", ficha.UsuarioReporte.ID)

	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoEnReparacion, equipo.Estado)
}

func TestCreateFichaEquipoInexistente(t *testing.T) {
	fx := newFichaFixture(t)

	_, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    999,
		Titulo:      "Avería fantasma",
		Descripcion: "De un equipo que no existe",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, fx.fichas.fichas)
}

func TestCreateFichaUsuarioInexistente(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Mesa de mezclas", constants.EquipoEstadoDisponible)

	_, err := fx.service.Create(context.Background(), "u-desconocido", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Canal muerto",
		Descripcion: "El canal 4 no suena",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAsignarTecnicoPasaAEnProceso(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Cámara", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Lente rayada",
		Descripcion: "Se ve borroso",
	})
	require.NoError(t, err)

	asignada, err := fx.service.AsignarTecnico(context.Background(), ficha.ID, dto.AsignarTecnicoDTO{
		TecnicoID: "u-tecnico",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.FichaEstadoEnProceso, asignada.Estado)
	require.NotNil(t, asignada.UsuarioAsignado)
	assert.Equal(t, "u-tecnico", asignada.UsuarioAsignado.ID)
}

func TestAsignarTecnicoInexistente(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Micrófono", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Acoples",
		Descripcion: "Acopla en cuanto se sube el canal",
	})
	require.NoError(t, err)

	_, err = fx.service.AsignarTecnico(context.Background(), ficha.ID, dto.AsignarTecnicoDTO{
		TecnicoID: "u-fantasma",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	sinCambios, err := fx.service.FindByID(context.Background(), ficha.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.FichaEstadoReportada, sinCambios.Estado)
	assert.Nil(t, sinCambios.UsuarioAsignado)
}

func TestCambiarEstadoResueltaLiberaEquipo(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Altavoz", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Cono roto",
		Descripcion: "Distorsiona a volumen medio",
	})
	require.NoError(t, err)

	solucion := "Cono sustituido"
	resuelta, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado:   constants.FichaEstadoResuelta,
		Solucion: &solucion,
	})
	require.NoError(t, err)

	assert.Equal(t, constants.FichaEstadoResuelta, resuelta.Estado)
	assert.True(t, resuelta.FechaResolucion.Valid)
	assert.Equal(t, solucion, resuelta.SolucionAplicada.String)

	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoDisponible, equipo.Estado)
}

func TestCambiarEstadoResueltaNoMueveLaFecha(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Pantalla", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Píxeles muertos",
		Descripcion: "Una franja vertical sin imagen",
	})
	require.NoError(t, err)

	primera, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)
	require.True(t, primera.FechaResolucion.Valid)

	segunda, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)
	assert.Equal(t, primera.FechaResolucion.Time, segunda.FechaResolucion.Time)
}

func TestReabrirYResolverConservaLaFecha(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Monitor de estudio", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Zumbido en el tweeter",
		Descripcion: "Se oye con la mesa en silencio",
	})
	require.NoError(t, err)

	primera, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)
	require.True(t, primera.FechaResolucion.Valid)

	// Se reabre y se vuelve a resolver: la fecha original no se mueve y el
	// equipo, ya disponible, no vuelve a tocarse.
	_, err = fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoReportada,
	})
	require.NoError(t, err)

	segunda, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)
	assert.Equal(t, primera.FechaResolucion.Time, segunda.FechaResolucion.Time)

	// Por la vía de Update pasa lo mismo.
	estado := constants.FichaEstadoReportada
	_, err = fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{Estado: &estado})
	require.NoError(t, err)

	estado = constants.FichaEstadoResuelta
	tercera, err := fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{Estado: &estado})
	require.NoError(t, err)
	assert.Equal(t, primera.FechaResolucion.Time, tercera.FechaResolucion.Time)
}

func TestCambiarEstadoEnProcesoVuelveAReparacion(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Trípode", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Pata suelta",
		Descripcion: "No bloquea la altura",
	})
	require.NoError(t, err)

	_, err = fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)

	// Se reabre: el equipo tiene que volver a reparación.
	_, err = fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoEnProceso,
	})
	require.NoError(t, err)

	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoEnReparacion, equipo.Estado)
}

func TestCambiarEstadoAdmiteCualquierCadena(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Foco", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Parpadeo",
		Descripcion: "Parpadea al 50% de intensidad",
	})
	require.NoError(t, err)

	actualizada, err := fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: "Esperando Piezas",
	})
	require.NoError(t, err)
	assert.Equal(t, "Esperando Piezas", actualizada.Estado)
	assert.False(t, actualizada.FechaResolucion.Valid)

	// Un estado libre no toca el equipo.
	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoEnReparacion, equipo.Estado)
}

func TestUpdateParcialConservaElResto(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Grabadora", constants.EquipoEstadoDisponible)

	prioridad := constants.PrioridadMedia
	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Botón rec atascado",
		Descripcion: "Hay que apretar muy fuerte",
		Prioridad:   &prioridad,
	})
	require.NoError(t, err)

	nuevoTitulo := "Botón de grabación atascado"
	actualizada, err := fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{
		Titulo: &nuevoTitulo,
	})
	require.NoError(t, err)

	assert.Equal(t, nuevoTitulo, actualizada.Titulo)
	assert.Equal(t, ficha.Descripcion, actualizada.Descripcion)
	assert.Equal(t, constants.PrioridadMedia, actualizada.Prioridad.String)
	assert.Equal(t, constants.FichaEstadoReportada, actualizada.Estado)
}

func TestUpdateAsignadoInexistenteEsErrorDeEntrada(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Router", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Sin red",
		Descripcion: "No reparte DHCP",
	})
	require.NoError(t, err)

	desconocido := "u-inexistente"
	_, err = fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{
		UsuarioAsignadoID: &desconocido,
	})

	var invalidInput *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalidInput)
}

func TestUpdateConEstadoResueltaLiberaEquipo(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Amplificador", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Canal derecho mudo",
		Descripcion: "Sólo suena el izquierdo",
	})
	require.NoError(t, err)

	// Un Update que incluye el estado arrastra los mismos efectos que
	// CambiarEstado.
	estado := constants.FichaEstadoResuelta
	solucion := "Relé de salida sustituido"
	actualizada, err := fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{
		Estado:           &estado,
		SolucionAplicada: &solucion,
	})
	require.NoError(t, err)
	assert.True(t, actualizada.FechaResolucion.Valid)

	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoDisponible, equipo.Estado)
}

func TestUpdateEnProcesoNoTocaElEquipo(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Etapa de potencia", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Se apaga sola",
		Descripcion: "Salta la protección térmica",
	})
	require.NoError(t, err)

	_, err = fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)

	// A diferencia de CambiarEstado, un Update con "En Proceso" sólo cambia
	// el estado de la ficha.
	estado := constants.FichaEstadoEnProceso
	actualizada, err := fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{
		Estado: &estado,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.FichaEstadoEnProceso, actualizada.Estado)

	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoDisponible, equipo.Estado)
}

func TestUpdateIgnoraCadenasVacias(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Mesa de luces", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Canal DMX intermitente",
		Descripcion: "El canal 12 va y viene",
	})
	require.NoError(t, err)

	_, err = fx.service.AsignarTecnico(context.Background(), ficha.ID, dto.AsignarTecnicoDTO{
		TecnicoID: "u-tecnico",
	})
	require.NoError(t, err)

	vacio := ""
	actualizada, err := fx.service.Update(context.Background(), ficha.ID, dto.UpdateFichaAveriaDTO{
		Estado:            &vacio,
		UsuarioAsignadoID: &vacio,
	})
	require.NoError(t, err)

	// Las cadenas vacías no sobrescriben: ni el estado ni el asignado cambian.
	assert.Equal(t, constants.FichaEstadoEnProceso, actualizada.Estado)
	require.NotNil(t, actualizada.UsuarioAsignado)
	assert.Equal(t, "u-tecnico", actualizada.UsuarioAsignado.ID)
}

func TestCambiarEstadoInvalidaLaCacheDelPanel(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Codificador", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Pierde frames",
		Descripcion: "Congela la emisión cada pocos minutos",
	})
	require.NoError(t, err)

	require.NoError(t, fx.cache.Set(context.Background(), dashboardCacheKey, "resumen", time.Minute))

	_, err = fx.service.CambiarEstado(context.Background(), ficha.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)
	assert.NotContains(t, fx.cache.data, dashboardCacheKey)
}

func TestFilterConjuntivoYOrdenado(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Mezclador", constants.EquipoEstadoDisponible)
	otroEquipoID := fx.equipos.add("Emisora", constants.EquipoEstadoDisponible)

	alta := constants.PrioridadAlta
	baja := constants.PrioridadBaja

	primera, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID: equipoID, Titulo: "Fader roto", Descripcion: "Canal 2", Prioridad: &alta,
	})
	require.NoError(t, err)

	_, err = fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID: otroEquipoID, Titulo: "Ruido de fondo", Descripcion: "Zumbido", Prioridad: &baja,
	})
	require.NoError(t, err)

	segunda, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID: equipoID, Titulo: "Led fundido", Descripcion: "VU meter", Prioridad: &alta,
	})
	require.NoError(t, err)

	// La segunda ficha de prioridad alta se resuelve.
	_, err = fx.service.CambiarEstado(context.Background(), segunda.ID, dto.CambiarEstadoDTO{
		Estado: constants.FichaEstadoResuelta,
	})
	require.NoError(t, err)

	incluir := false
	abiertas, err := fx.service.Filter(context.Background(), dto.FichaAveriaFilterDTO{
		Prioridad:        &alta,
		IncluirResueltas: &incluir,
	})
	require.NoError(t, err)
	require.Len(t, abiertas, 1)
	assert.Equal(t, primera.ID, abiertas[0].ID)

	// Sin el flag entran también las resueltas, ordenadas de más a menos reciente.
	todas, err := fx.service.Filter(context.Background(), dto.FichaAveriaFilterDTO{Prioridad: &alta})
	require.NoError(t, err)
	require.Len(t, todas, 2)
	for i := 1; i < len(todas); i++ {
		assert.False(t, todas[i-1].FechaReporte.Before(todas[i].FechaReporte))
	}
}

func TestDeleteNoTocaElEquipo(t *testing.T) {
	fx := newFichaFixture(t)
	equipoID := fx.equipos.add("Antena", constants.EquipoEstadoDisponible)

	ficha, err := fx.service.Create(context.Background(), "u-reporter", dto.CreateFichaAveriaDTO{
		EquipoID:    equipoID,
		Titulo:      "Conector oxidado",
		Descripcion: "Pierde señal con lluvia",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.Delete(context.Background(), ficha.ID))

	_, err = fx.service.FindByID(context.Background(), ficha.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// El borrado es definitivo y no revierte el estado del equipo.
	equipo, err := fx.equipos.FindByID(context.Background(), nil, equipoID)
	require.NoError(t, err)
	assert.Equal(t, constants.EquipoEstadoEnReparacion, equipo.Estado)
}
