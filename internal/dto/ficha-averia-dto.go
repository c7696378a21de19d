package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ShortUsuarioDTO struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type ShortEquipoDTO struct {
	ID     uint64 `json:"id"`
	Nombre string `json:"nombre"`
	Estado string `json:"estado"`
}

type FichaAveriaDTO struct {
	ID               uint64      `json:"id"`
	EquipoID         uint64      `json:"equipo_id"`
	Titulo           string      `json:"titulo"`
	Descripcion      string      `json:"descripcion"`
	Estado           string      `json:"estado"`
	FechaReporte     time.Time   `json:"fecha_reporte"`
	FechaResolucion  null.Time   `json:"fecha_resolucion"`
	SolucionAplicada null.String `json:"solucion_aplicada"`
	Comentarios      null.String `json:"comentarios"`
	Prioridad        null.String `json:"prioridad"`

	UsuarioReporte  ShortUsuarioDTO  `json:"usuario_reporte"`
	UsuarioAsignado *ShortUsuarioDTO `json:"usuario_asignado,omitempty"`
	Equipo          *ShortEquipoDTO  `json:"equipo,omitempty"`
}

type CreateFichaAveriaDTO struct {
	EquipoID    uint64  `json:"equipo_id" validate:"required"`
	Titulo      string  `json:"titulo" validate:"required,max=200"`
	Descripcion string  `json:"descripcion" validate:"required"`
	Prioridad   *string `json:"prioridad,omitempty"`
	Comentarios *string `json:"comentarios,omitempty"`
}

// UpdateFichaAveriaDTO aplica semántica de actualización parcial: sólo los
// campos no nulos sobrescriben el valor existente.
type UpdateFichaAveriaDTO struct {
	Titulo            *string `json:"titulo,omitempty" validate:"omitempty,max=200"`
	Descripcion       *string `json:"descripcion,omitempty"`
	Estado            *string `json:"estado,omitempty"`
	SolucionAplicada  *string `json:"solucion_aplicada,omitempty"`
	Comentarios       *string `json:"comentarios,omitempty"`
	Prioridad         *string `json:"prioridad,omitempty"`
	UsuarioAsignadoID *string `json:"usuario_asignado_id,omitempty"`
}

type AsignarTecnicoDTO struct {
	TecnicoID string `json:"tecnico_id" validate:"required"`
}

type CambiarEstadoDTO struct {
	Estado   string  `json:"estado" validate:"required"`
	Solucion *string `json:"solucion,omitempty"`
}

// FichaAveriaFilterDTO agrupa los criterios de filtrado, todos opcionales y
// conjuntivos. IncluirResueltas por defecto es true.
type FichaAveriaFilterDTO struct {
	EquipoID          *uint64    `json:"equipo_id,omitempty"`
	Estado            *string    `json:"estado,omitempty"`
	UsuarioReporteID  *string    `json:"usuario_reporte_id,omitempty"`
	UsuarioAsignadoID *string    `json:"usuario_asignado_id,omitempty"`
	Prioridad         *string    `json:"prioridad,omitempty"`
	FechaInicio       *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin          *time.Time `json:"fecha_fin,omitempty"`
	IncluirResueltas  *bool      `json:"incluir_resueltas,omitempty"`
}
