package services

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/internal/repositories"
	apperrors "inventario/pkg/errors"
)

type UbicacionServiceInterface interface {
	GetAll(ctx context.Context) ([]dto.UbicacionDTO, error)
	GetActivas(ctx context.Context) ([]dto.UbicacionDTO, error)
	FindByID(ctx context.Context, id uint64) (*dto.UbicacionDTO, error)
	Create(ctx context.Context, payload dto.CreateUbicacionDTO) (*dto.UbicacionDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateUbicacionDTO) (*dto.UbicacionDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type UbicacionService struct {
	ubicacionRepo repositories.UbicacionRepositoryInterface
	equipoRepo    repositories.EquipoRepositoryInterface
	logger        *zap.Logger
}

func NewUbicacionService(
	ubicacionRepo repositories.UbicacionRepositoryInterface,
	equipoRepo repositories.EquipoRepositoryInterface,
	logger *zap.Logger,
) UbicacionServiceInterface {
	return &UbicacionService{
		ubicacionRepo: ubicacionRepo,
		equipoRepo:    equipoRepo,
		logger:        logger,
	}
}

func toUbicacionDTO(u entities.Ubicacion, totalEquipos uint64) dto.UbicacionDTO {
	result := dto.UbicacionDTO{
		ID:           u.ID,
		Nombre:       u.Nombre,
		Descripcion:  u.Descripcion,
		Activo:       u.Activo,
		TotalEquipos: totalEquipos,
	}
	if u.Direccion != nil {
		result.Direccion = null.StringFrom(*u.Direccion)
	}
	return result
}

func (s *UbicacionService) GetAll(ctx context.Context) ([]dto.UbicacionDTO, error) {
	ubicaciones, conteos, err := s.ubicacionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UbicacionDTO, 0, len(ubicaciones))
	for _, u := range ubicaciones {
		result = append(result, toUbicacionDTO(u, conteos[u.ID]))
	}
	return result, nil
}

func (s *UbicacionService) GetActivas(ctx context.Context) ([]dto.UbicacionDTO, error) {
	ubicaciones, err := s.ubicacionRepo.GetActivas(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UbicacionDTO, 0, len(ubicaciones))
	for _, u := range ubicaciones {
		total, err := s.equipoRepo.CountByUbicacion(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, toUbicacionDTO(u, total))
	}
	return result, nil
}

func (s *UbicacionService) FindByID(ctx context.Context, id uint64) (*dto.UbicacionDTO, error) {
	ubicacion, err := s.ubicacionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.equipoRepo.CountByUbicacion(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toUbicacionDTO(*ubicacion, total)
	return &result, nil
}

// Create rechaza nombres duplicados sin distinguir mayúsculas.
func (s *UbicacionService) Create(ctx context.Context, payload dto.CreateUbicacionDTO) (*dto.UbicacionDTO, error) {
	exists, err := s.ubicacionRepo.ExistsByNombre(ctx, payload.Nombre, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("ya existe una ubicación llamada %q: %w", payload.Nombre, apperrors.ErrConflict)
	}

	ubicacion := entities.Ubicacion{
		Nombre:      payload.Nombre,
		Descripcion: payload.Descripcion,
		Direccion:   payload.Direccion,
		Activo:      true,
	}
	if payload.Activo != nil {
		ubicacion.Activo = *payload.Activo
	}

	newID, err := s.ubicacionRepo.Create(ctx, ubicacion)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, newID)
}

func (s *UbicacionService) Update(ctx context.Context, id uint64, payload dto.UpdateUbicacionDTO) (*dto.UbicacionDTO, error) {
	ubicacion, err := s.ubicacionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.ubicacionRepo.ExistsByNombre(ctx, payload.Nombre, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("ya existe una ubicación llamada %q: %w", payload.Nombre, apperrors.ErrConflict)
	}

	ubicacion.Nombre = payload.Nombre
	if payload.Descripcion != nil {
		ubicacion.Descripcion = *payload.Descripcion
	}
	if payload.Direccion != nil {
		ubicacion.Direccion = payload.Direccion
	}
	if payload.Activo != nil {
		ubicacion.Activo = *payload.Activo
	}

	if err := s.ubicacionRepo.Update(ctx, id, *ubicacion); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Delete rechaza la baja si la ubicación todavía tiene equipos asignados.
func (s *UbicacionService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.ubicacionRepo.FindByID(ctx, id); err != nil {
		return err
	}

	total, err := s.equipoRepo.CountByUbicacion(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return fmt.Errorf("la ubicación tiene %d equipos asignados: %w", total, apperrors.ErrConflict)
	}
	return s.ubicacionRepo.Delete(ctx, id)
}
