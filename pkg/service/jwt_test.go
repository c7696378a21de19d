package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "inventario/pkg/errors"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := NewJWTService("clave-de-prueba", time.Hour, 24*time.Hour, zap.NewNop())

	access, refresh, err := svc.GenerateTokens("u-1", []string{"Administrador", "Tecnico"})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, []string{"Administrador", "Tecnico"}, claims.Roles)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
	// El refresh token no lleva roles.
	assert.Empty(t, refreshClaims.Roles)
}

func TestValidateTokenConOtraClave(t *testing.T) {
	emisor := NewJWTService("clave-a", time.Hour, 24*time.Hour, zap.NewNop())
	receptor := NewJWTService("clave-b", time.Hour, 24*time.Hour, zap.NewNop())

	access, _, err := emisor.GenerateTokens("u-1", nil)
	require.NoError(t, err)

	_, err = receptor.ValidateToken(access)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenExpirado(t *testing.T) {
	svc := NewJWTService("clave-de-prueba", -time.Minute, 24*time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens("u-1", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	require.Error(t, err)
}

func TestValidateTokenBasura(t *testing.T) {
	svc := NewJWTService("clave-de-prueba", time.Hour, 24*time.Hour, zap.NewNop())

	_, err := svc.ValidateToken("no.es.un.jwt")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
