package entities

import (
	"time"

	"inventario/pkg/types"
)

// FichaAveria es un parte de avería abierto contra un equipo. El equipo al
// que pertenece no cambia una vez creada la ficha; fecha_resolucion se fija
// una única vez, en la primera transición a "Resuelta".
type FichaAveria struct {
	ID                uint64     `json:"id" db:"id"`
	EquipoID          uint64     `json:"equipo_id" db:"equipo_id"`
	Titulo            string     `json:"titulo" db:"titulo"`
	Descripcion       string     `json:"descripcion" db:"descripcion"`
	Estado            string     `json:"estado" db:"estado"`
	FechaReporte      time.Time  `json:"fecha_reporte" db:"fecha_reporte"`
	FechaResolucion   *time.Time `json:"fecha_resolucion" db:"fecha_resolucion"`
	SolucionAplicada  *string    `json:"solucion_aplicada" db:"solucion_aplicada"`
	Comentarios       *string    `json:"comentarios" db:"comentarios"`
	Prioridad         *string    `json:"prioridad" db:"prioridad"`
	UsuarioReporteID  string     `json:"usuario_reporte_id" db:"usuario_reporte_id"`
	UsuarioAsignadoID *string    `json:"usuario_asignado_id" db:"usuario_asignado_id"`

	types.BaseEntity
}
