package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inventario/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List  []T    `json:"list"`
	Total uint64 `json:"total"`
}

// SuccessOne devuelve un único objeto.
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

// SuccessList devuelve una lista con su total.
func SuccessList[T any](c echo.Context, message string, list []T, total uint64) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    ListBody[T]{List: list, Total: total},
	})
}

// ErrorResponse traduce los errores de la capa de servicio a respuestas HTTP.
// La taxonomía es la de pkg/errors: NotFound -> 404, InvalidInput/BadRequest
// -> 400, Conflict -> 409, Unauthorized -> 401, Forbidden -> 403.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		resp := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			resp["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, resp)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("el campo '%s' no cumple la regla '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "error de validación: " + strings.Join(msgs, "; "),
		})
	}

	var invalidInput *apperrors.InvalidInputError
	code := http.StatusInternalServerError
	message := "error interno del servidor"

	switch {
	case errors.As(err, &invalidInput):
		code, message = http.StatusBadRequest, invalidInput.Message
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		code, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrBadRequest):
		code, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrUnauthorized):
		code, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		code, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrAccountLocked),
		errors.Is(err, apperrors.ErrAccountInactive):
		code, message = http.StatusForbidden, err.Error()
	default:
		logger.Error("unexpected error", zap.Error(err))
	}

	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}
