package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "inventario/pkg/errors"
)

type JwtCustomClaim struct {
	UserID         string   `json:"userId"`
	Roles          []string `json:"roles"`
	IsRefreshToken bool     `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(userID string, roles []string) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	secretKey       string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	logger          *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:       secretKey,
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
		logger:          logger,
	}
}

func (s *jwtService) GenerateTokens(userID string, roles []string) (string, string, error) {
	now := time.Now()

	accessClaims := &JwtCustomClaim{
		UserID:         userID,
		Roles:          roles,
		IsRefreshToken: false,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExp)),
		},
	}

	refreshClaims := &JwtCustomClaim{
		UserID:         userID,
		IsRefreshToken: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenExp)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, accessClaims).SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, refreshClaims).SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		s.logger.Warn("error al validar el token", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return claims, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.refreshTokenExp
}
