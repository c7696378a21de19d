package services

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/internal/repositories"
	"inventario/pkg/constants"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/types"
)

type EquipoServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipoDTO, uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.EquipoDTO, error)
	ListByUbicacion(ctx context.Context, ubicacionID uint64) ([]dto.EquipoDTO, error)
	ListByEstado(ctx context.Context, estado string) ([]dto.EquipoDTO, error)
	Create(ctx context.Context, usuarioID string, payload dto.CreateEquipoDTO) (*dto.EquipoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateEquipoDTO) (*dto.EquipoDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type EquipoService struct {
	equipoRepo    repositories.EquipoRepositoryInterface
	ubicacionRepo repositories.UbicacionRepositoryInterface
	fichaRepo     repositories.FichaAveriaRepositoryInterface
	dashboard     DashboardServiceInterface
	logger        *zap.Logger
}

func NewEquipoService(
	equipoRepo repositories.EquipoRepositoryInterface,
	ubicacionRepo repositories.UbicacionRepositoryInterface,
	fichaRepo repositories.FichaAveriaRepositoryInterface,
	dashboard DashboardServiceInterface,
	logger *zap.Logger,
) EquipoServiceInterface {
	return &EquipoService{
		equipoRepo:    equipoRepo,
		ubicacionRepo: ubicacionRepo,
		fichaRepo:     fichaRepo,
		dashboard:     dashboard,
		logger:        logger,
	}
}

func (s *EquipoService) toDTO(ctx context.Context, equipo entities.Equipo) (*dto.EquipoDTO, error) {
	result := &dto.EquipoDTO{
		ID:          equipo.ID,
		Nombre:      equipo.Nombre,
		Descripcion: equipo.Descripcion,
		NumeroSerie: equipo.NumeroSerie,
		Modelo:      equipo.Modelo,
		Marca:       equipo.Marca,
		FechaCompra: equipo.FechaCompra,
		Estado:      equipo.Estado,
	}
	if equipo.FechaFinGarantia != nil {
		result.FechaFinGarantia = null.TimeFrom(*equipo.FechaFinGarantia)
	}

	ubicacion, err := s.ubicacionRepo.FindByID(ctx, equipo.UbicacionID)
	if err != nil {
		return nil, fmt.Errorf("error al cargar la ubicación del equipo %d: %w", equipo.ID, err)
	}
	result.Ubicacion = dto.ShortUbicacionDTO{ID: ubicacion.ID, Nombre: ubicacion.Nombre}

	abiertas, err := s.fichaRepo.CountAbiertasByEquipo(ctx, equipo.ID)
	if err != nil {
		return nil, err
	}
	result.FichasAbiertas = abiertas
	return result, nil
}

func (s *EquipoService) toDTOs(ctx context.Context, equipos []entities.Equipo) ([]dto.EquipoDTO, error) {
	result := make([]dto.EquipoDTO, 0, len(equipos))
	for _, equipo := range equipos {
		item, err := s.toDTO(ctx, equipo)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, nil
}

func (s *EquipoService) GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipoDTO, uint64, error) {
	equipos, total, err := s.equipoRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.toDTOs(ctx, equipos)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *EquipoService) FindByID(ctx context.Context, id uint64) (*dto.EquipoDTO, error) {
	equipo, err := s.equipoRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, *equipo)
}

func (s *EquipoService) ListByUbicacion(ctx context.Context, ubicacionID uint64) ([]dto.EquipoDTO, error) {
	if _, err := s.ubicacionRepo.FindByID(ctx, ubicacionID); err != nil {
		return nil, err
	}
	equipos, err := s.equipoRepo.ListByUbicacion(ctx, ubicacionID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, equipos)
}

func (s *EquipoService) ListByEstado(ctx context.Context, estado string) ([]dto.EquipoDTO, error) {
	equipos, err := s.equipoRepo.ListByEstado(ctx, estado)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, equipos)
}

func (s *EquipoService) Create(ctx context.Context, usuarioID string, payload dto.CreateEquipoDTO) (*dto.EquipoDTO, error) {
	if _, err := s.ubicacionRepo.FindByID(ctx, payload.UbicacionID); err != nil {
		return nil, fmt.Errorf("la ubicación %d no existe: %w", payload.UbicacionID, err)
	}

	estado := constants.EquipoEstadoDisponible
	if payload.Estado != nil && *payload.Estado != "" {
		estado = *payload.Estado
	}

	equipo := entities.Equipo{
		Nombre:           payload.Nombre,
		Descripcion:      payload.Descripcion,
		NumeroSerie:      payload.NumeroSerie,
		Modelo:           payload.Modelo,
		Marca:            payload.Marca,
		FechaCompra:      payload.FechaCompra,
		FechaFinGarantia: payload.FechaFinGarantia,
		Estado:           estado,
		UbicacionID:      payload.UbicacionID,
	}
	if usuarioID != "" {
		equipo.UsuarioCreacionID = &usuarioID
	}

	newID, err := s.equipoRepo.Create(ctx, equipo)
	if err != nil {
		return nil, err
	}
	s.dashboard.InvalidateCache(ctx)
	return s.FindByID(ctx, newID)
}

func (s *EquipoService) Update(ctx context.Context, id uint64, payload dto.UpdateEquipoDTO) (*dto.EquipoDTO, error) {
	equipo, err := s.equipoRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if payload.Nombre != nil {
		equipo.Nombre = *payload.Nombre
	}
	if payload.Descripcion != nil {
		equipo.Descripcion = *payload.Descripcion
	}
	if payload.NumeroSerie != nil {
		equipo.NumeroSerie = *payload.NumeroSerie
	}
	if payload.Modelo != nil {
		equipo.Modelo = *payload.Modelo
	}
	if payload.Marca != nil {
		equipo.Marca = *payload.Marca
	}
	if payload.FechaCompra != nil {
		equipo.FechaCompra = *payload.FechaCompra
	}
	if payload.FechaFinGarantia != nil {
		equipo.FechaFinGarantia = payload.FechaFinGarantia
	}
	if payload.Estado != nil {
		equipo.Estado = *payload.Estado
	}
	if payload.UbicacionID != nil {
		if _, err := s.ubicacionRepo.FindByID(ctx, *payload.UbicacionID); err != nil {
			return nil, fmt.Errorf("la ubicación %d no existe: %w", *payload.UbicacionID, err)
		}
		equipo.UbicacionID = *payload.UbicacionID
	}

	if err := s.equipoRepo.Update(ctx, id, *equipo); err != nil {
		return nil, err
	}
	s.dashboard.InvalidateCache(ctx)
	return s.FindByID(ctx, id)
}

// Delete rechaza la baja si el equipo tiene fichas de avería sin resolver.
func (s *EquipoService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.equipoRepo.FindByID(ctx, nil, id); err != nil {
		return err
	}

	abiertas, err := s.fichaRepo.CountAbiertasByEquipo(ctx, id)
	if err != nil {
		return err
	}
	if abiertas > 0 {
		return fmt.Errorf("el equipo tiene %d fichas de avería abiertas: %w", abiertas, apperrors.ErrConflict)
	}
	if err := s.equipoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.dashboard.InvalidateCache(ctx)
	return nil
}
