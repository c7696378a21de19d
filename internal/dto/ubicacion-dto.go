package dto

import "github.com/aarondl/null/v8"

type UbicacionDTO struct {
	ID           uint64      `json:"id"`
	Nombre       string      `json:"nombre"`
	Descripcion  string      `json:"descripcion"`
	Direccion    null.String `json:"direccion"`
	Activo       bool        `json:"activo"`
	TotalEquipos uint64      `json:"total_equipos"`
}

type CreateUbicacionDTO struct {
	Nombre      string  `json:"nombre" validate:"required,max=200"`
	Descripcion string  `json:"descripcion"`
	Direccion   *string `json:"direccion,omitempty"`
	Activo      *bool   `json:"activo,omitempty"`
}

type UpdateUbicacionDTO struct {
	Nombre      string  `json:"nombre" validate:"required,max=200"`
	Descripcion *string `json:"descripcion,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
	Activo      *bool   `json:"activo,omitempty"`
}
