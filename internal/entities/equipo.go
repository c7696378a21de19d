package entities

import (
	"time"

	"inventario/pkg/types"
)

type Equipo struct {
	ID                uint64     `json:"id" db:"id"`
	Nombre            string     `json:"nombre" db:"nombre"`
	Descripcion       string     `json:"descripcion" db:"descripcion"`
	NumeroSerie       string     `json:"numero_serie" db:"numero_serie"`
	Modelo            string     `json:"modelo" db:"modelo"`
	Marca             string     `json:"marca" db:"marca"`
	FechaCompra       time.Time  `json:"fecha_compra" db:"fecha_compra"`
	FechaFinGarantia  *time.Time `json:"fecha_fin_garantia" db:"fecha_fin_garantia"`
	Estado            string     `json:"estado" db:"estado"`
	UbicacionID       uint64     `json:"ubicacion_id" db:"ubicacion_id"`
	UsuarioCreacionID *string    `json:"usuario_creacion_id" db:"usuario_creacion_id"`

	types.BaseEntity

	// Datos relacionados, no son columnas de la tabla.
	Ubicacion *Ubicacion `json:"-" db:"-"`
}
