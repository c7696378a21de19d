package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ShortUbicacionDTO struct {
	ID     uint64 `json:"id"`
	Nombre string `json:"nombre"`
}

type EquipoDTO struct {
	ID               uint64    `json:"id"`
	Nombre           string    `json:"nombre"`
	Descripcion      string    `json:"descripcion"`
	NumeroSerie      string    `json:"numero_serie"`
	Modelo           string    `json:"modelo"`
	Marca            string    `json:"marca"`
	FechaCompra      time.Time `json:"fecha_compra"`
	FechaFinGarantia null.Time `json:"fecha_fin_garantia"`
	Estado           string    `json:"estado"`

	Ubicacion ShortUbicacionDTO `json:"ubicacion"`

	FichasAbiertas uint64 `json:"fichas_abiertas"`
}

type CreateEquipoDTO struct {
	Nombre           string     `json:"nombre" validate:"required,max=200"`
	Descripcion      string     `json:"descripcion"`
	NumeroSerie      string     `json:"numero_serie" validate:"required,max=100"`
	Modelo           string     `json:"modelo"`
	Marca            string     `json:"marca"`
	FechaCompra      time.Time  `json:"fecha_compra" validate:"required"`
	FechaFinGarantia *time.Time `json:"fecha_fin_garantia,omitempty"`
	Estado           *string    `json:"estado,omitempty"`
	UbicacionID      uint64     `json:"ubicacion_id" validate:"required"`
}

type UpdateEquipoDTO struct {
	Nombre           *string    `json:"nombre,omitempty" validate:"omitempty,max=200"`
	Descripcion      *string    `json:"descripcion,omitempty"`
	NumeroSerie      *string    `json:"numero_serie,omitempty" validate:"omitempty,max=100"`
	Modelo           *string    `json:"modelo,omitempty"`
	Marca            *string    `json:"marca,omitempty"`
	FechaCompra      *time.Time `json:"fecha_compra,omitempty"`
	FechaFinGarantia *time.Time `json:"fecha_fin_garantia,omitempty"`
	Estado           *string    `json:"estado,omitempty"`
	UbicacionID      *uint64    `json:"ubicacion_id,omitempty"`
}
