package entities

import (
	"time"

	"inventario/pkg/types"
)

type Usuario struct {
	ID        string `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Nombre    string `json:"nombre" db:"nombre"`
	Apellidos string `json:"apellidos" db:"apellidos"`

	Password string `json:"-" db:"password"`

	Activo             bool       `json:"activo" db:"activo"`
	AccessFailedCount  int        `json:"-" db:"access_failed_count"`
	LockoutEnd         *time.Time `json:"-" db:"lockout_end"`
	RefreshToken       *string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiry *time.Time `json:"-" db:"refresh_token_expiry"`

	types.BaseEntity

	// Roles del usuario, cargados desde usuario_roles.
	Roles []string `json:"roles" db:"-"`
}
