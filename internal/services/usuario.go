package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/internal/repositories"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/utils"
)

type UsuarioServiceInterface interface {
	GetAll(ctx context.Context) ([]dto.UsuarioDTO, error)
	FindByID(ctx context.Context, id string) (*dto.UsuarioDTO, error)
	Create(ctx context.Context, payload dto.CreateUsuarioDTO) (*dto.UsuarioDTO, error)
	Update(ctx context.Context, id string, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error)
	Delete(ctx context.Context, id string) error
	GetRoles(ctx context.Context) ([]entities.Rol, error)
}

type UsuarioService struct {
	usuarioRepo repositories.UsuarioRepositoryInterface
	rolRepo     repositories.RolRepositoryInterface
	logger      *zap.Logger
}

func NewUsuarioService(
	usuarioRepo repositories.UsuarioRepositoryInterface,
	rolRepo repositories.RolRepositoryInterface,
	logger *zap.Logger,
) UsuarioServiceInterface {
	return &UsuarioService{usuarioRepo: usuarioRepo, rolRepo: rolRepo, logger: logger}
}

func toUsuarioDTO(u entities.Usuario) dto.UsuarioDTO {
	return dto.UsuarioDTO{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Apellidos: u.Apellidos,
		Activo:    u.Activo,
		Roles:     u.Roles,
	}
}

func (s *UsuarioService) GetAll(ctx context.Context) ([]dto.UsuarioDTO, error) {
	usuarios, err := s.usuarioRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UsuarioDTO, 0, len(usuarios))
	for _, u := range usuarios {
		result = append(result, toUsuarioDTO(u))
	}
	return result, nil
}

func (s *UsuarioService) FindByID(ctx context.Context, id string) (*dto.UsuarioDTO, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUsuarioDTO(*usuario)
	return &result, nil
}

func (s *UsuarioService) resolveRoles(ctx context.Context, nombres []string) ([]uint64, error) {
	rolIDs, err := s.rolRepo.FindIDsByNombres(ctx, nombres)
	if err != nil {
		return nil, err
	}
	if len(rolIDs) != len(nombres) {
		return nil, apperrors.NewInvalidInputError("uno o más roles no existen: %v", nombres)
	}
	return rolIDs, nil
}

func (s *UsuarioService) Create(ctx context.Context, payload dto.CreateUsuarioDTO) (*dto.UsuarioDTO, error) {
	rolIDs, err := s.resolveRoles(ctx, payload.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, fmt.Errorf("error al cifrar la contraseña: %w", err)
	}

	usuario := entities.Usuario{
		ID:        uuid.NewString(),
		Email:     payload.Email,
		Nombre:    payload.Nombre,
		Apellidos: payload.Apellidos,
		Password:  hash,
		Activo:    true,
	}

	if err := s.usuarioRepo.Create(ctx, usuario, rolIDs); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, usuario.ID)
}

func (s *UsuarioService) Update(ctx context.Context, id string, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Email != nil {
		usuario.Email = *payload.Email
	}
	if payload.Nombre != nil {
		usuario.Nombre = *payload.Nombre
	}
	if payload.Apellidos != nil {
		usuario.Apellidos = *payload.Apellidos
	}
	if payload.Activo != nil {
		usuario.Activo = *payload.Activo
	}

	if err := s.usuarioRepo.Update(ctx, id, *usuario); err != nil {
		return nil, err
	}

	if payload.Roles != nil {
		rolIDs, err := s.resolveRoles(ctx, payload.Roles)
		if err != nil {
			return nil, err
		}
		if err := s.usuarioRepo.SetRoles(ctx, id, rolIDs); err != nil {
			return nil, err
		}
	}
	return s.FindByID(ctx, id)
}

func (s *UsuarioService) Delete(ctx context.Context, id string) error {
	return s.usuarioRepo.Delete(ctx, id)
}

func (s *UsuarioService) GetRoles(ctx context.Context) ([]entities.Rol, error) {
	return s.rolRepo.GetAll(ctx)
}
