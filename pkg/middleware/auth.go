package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventario/pkg/api"
	"inventario/pkg/contextkeys"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/service"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth valida el access token y deja el id y los roles del usuario en el
// contexto de la petición.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return api.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return api.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token rechazado", zap.Error(err))
			return api.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			return api.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserRolesKey, claims.Roles)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRoles permite el acceso sólo a usuarios con alguno de los roles
// indicados. Debe encadenarse después de Auth.
func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles, _ := c.Request().Context().Value(contextkeys.UserRolesKey).([]string)
			for _, r := range userRoles {
				if allowed[r] {
					return next(c)
				}
			}
			m.logger.Warn("acceso denegado por rol",
				zap.Strings("roles_usuario", userRoles),
				zap.Strings("roles_requeridos", roles),
			)
			return api.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
