package events

import "time"

const (
	FichaCreadaName   = "ficha.creada"
	FichaAsignadaName = "ficha.asignada"
	FichaResueltaName = "ficha.resuelta"
)

// FichaCreada se publica al registrar una avería nueva.
type FichaCreada struct {
	FichaID      uint64
	EquipoID     uint64
	Titulo       string
	ReportadaPor string
	FechaReporte time.Time
}

func (e FichaCreada) Name() string { return FichaCreadaName }

// FichaAsignada se publica cuando una ficha pasa a manos de un técnico.
type FichaAsignada struct {
	FichaID       uint64
	EquipoID      uint64
	Titulo        string
	TecnicoID     string
	TecnicoEmail  string
	TecnicoNombre string
}

func (e FichaAsignada) Name() string { return FichaAsignadaName }

// FichaResuelta se publica en la primera transición a estado resuelto.
type FichaResuelta struct {
	FichaID         uint64
	EquipoID        uint64
	Titulo          string
	ReporteEmail    string
	FechaResolucion time.Time
}

func (e FichaResuelta) Name() string { return FichaResueltaName }
