package errors

import "fmt"

var (
	// JWT y tokens
	ErrInvalidSigningMethod = fmt.Errorf("método de firma del token no válido")
	ErrInvalidToken         = fmt.Errorf("token no válido")
	ErrTokenExpired         = fmt.Errorf("el token ha expirado")
	ErrTokenNotYetValid     = fmt.Errorf("el token todavía no es válido")
	ErrTokenIsNotRefresh    = fmt.Errorf("el token no es un refresh token")
	ErrTokenIsNotAccess     = fmt.Errorf("el token no es un access token")

	// Autenticación
	ErrEmptyAuthHeader    = fmt.Errorf("falta la cabecera de autorización")
	ErrInvalidAuthHeader  = fmt.Errorf("formato de cabecera de autorización no válido")
	ErrInvalidCredentials = fmt.Errorf("credenciales no válidas")
	ErrAccountLocked      = fmt.Errorf("la cuenta está bloqueada temporalmente")
	ErrAccountInactive    = fmt.Errorf("la cuenta está desactivada")
	ErrUnauthorized       = fmt.Errorf("no autenticado")
	ErrForbidden          = fmt.Errorf("acceso denegado")

	// Contexto
	ErrUserIDNotFoundInContext = fmt.Errorf("no se encontró el UserID en el contexto de la petición")

	// Generales
	ErrNotFound   = fmt.Errorf("registro no encontrado")
	ErrConflict   = fmt.Errorf("el registro ya existe")
	ErrBadRequest = fmt.Errorf("petición no válida")
)

// HttpError agrupa el código HTTP y el mensaje para el cliente junto con el
// error interno y los detalles opcionales para el log.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// InvalidInputError señala un fallo de precondición referencial, por ejemplo
// asignar un técnico que no existe.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
