package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/repositories"
	"inventario/pkg/config"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/service"
	"inventario/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error)
	Logout(ctx context.Context, usuarioID string) error
}

// AuthService implementa el login con bloqueo temporal: tras varios intentos
// fallidos seguidos la cuenta queda bloqueada durante un tiempo configurable.
// Un login correcto reinicia el contador.
type AuthService struct {
	usuarioRepo repositories.UsuarioRepositoryInterface
	jwtService  service.JWTService
	authConfig  config.AuthConfig
	logger      *zap.Logger
}

func NewAuthService(
	usuarioRepo repositories.UsuarioRepositoryInterface,
	jwtService service.JWTService,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		usuarioRepo: usuarioRepo,
		jwtService:  jwtService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	usuario, err := s.usuarioRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		// Mismo mensaje exista o no el email, para no filtrar qué cuentas hay.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !usuario.Activo {
		return nil, apperrors.ErrAccountInactive
	}

	if usuario.LockoutEnd != nil && usuario.LockoutEnd.After(time.Now()) {
		return nil, apperrors.ErrAccountLocked
	}

	if err := utils.CheckPasswordHash(usuario.Password, payload.Password); err != nil {
		count := usuario.AccessFailedCount + 1
		var lockoutEnd *time.Time
		if count >= s.authConfig.MaxLoginAttempts {
			end := time.Now().Add(s.authConfig.LockoutDuration)
			lockoutEnd = &end
			count = 0
			s.logger.Warn("cuenta bloqueada por intentos fallidos",
				zap.String("usuario_id", usuario.ID),
				zap.Time("hasta", end),
			)
		}
		if err := s.usuarioRepo.RegisterFailedLogin(ctx, usuario.ID, count, lockoutEnd); err != nil {
			s.logger.Error("no se pudo registrar el intento fallido", zap.Error(err))
		}
		if lockoutEnd != nil {
			return nil, apperrors.ErrAccountLocked
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if usuario.AccessFailedCount > 0 || usuario.LockoutEnd != nil {
		if err := s.usuarioRepo.ResetAccessFailed(ctx, usuario.ID); err != nil {
			s.logger.Error("no se pudo reiniciar el contador de fallos", zap.Error(err))
		}
	}

	return s.issueTokens(ctx, usuario.ID)
}

func (s *AuthService) issueTokens(ctx context.Context, usuarioID string) (*dto.AuthResponseDTO, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(usuario.ID, usuario.Roles)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.jwtService.GetRefreshTokenTTL())
	if err := s.usuarioRepo.SaveRefreshToken(ctx, usuario.ID, &refreshToken, &expiry); err != nil {
		return nil, err
	}

	return &dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Usuario:      toUsuarioDTO(*usuario),
	}, nil
}

// RefreshToken emite tokens nuevos a cambio de un refresh token válido. El
// token tiene que coincidir con el guardado para el usuario: emitir uno nuevo
// invalida el anterior.
func (s *AuthService) RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	usuario, err := s.usuarioRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if !usuario.Activo {
		return nil, apperrors.ErrAccountInactive
	}
	if usuario.RefreshToken == nil || *usuario.RefreshToken != payload.RefreshToken {
		return nil, apperrors.ErrInvalidToken
	}
	if usuario.RefreshTokenExpiry != nil && usuario.RefreshTokenExpiry.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return s.issueTokens(ctx, usuario.ID)
}

func (s *AuthService) Logout(ctx context.Context, usuarioID string) error {
	return s.usuarioRepo.SaveRefreshToken(ctx, usuarioID, nil, nil)
}
