package entities

import (
	"inventario/pkg/types"
)

type Ubicacion struct {
	ID          uint64  `json:"id" db:"id"`
	Nombre      string  `json:"nombre" db:"nombre"`
	Descripcion string  `json:"descripcion" db:"descripcion"`
	Direccion   *string `json:"direccion" db:"direccion"`
	Activo      bool    `json:"activo" db:"activo"`

	types.BaseEntity
}
