package utils

import (
	"context"

	"inventario/pkg/contextkeys"
	apperrors "inventario/pkg/errors"
)

// GetUserIDFromCtx devuelve el id del usuario autenticado que el middleware
// de autenticación dejó en el contexto.
func GetUserIDFromCtx(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRolesFromCtx(ctx context.Context) []string {
	roles, ok := ctx.Value(contextkeys.UserRolesKey).([]string)
	if !ok {
		return nil
	}
	return roles
}
