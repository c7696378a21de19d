package dto

// ResumenDTO agrupa los contadores del panel: equipos por estado y fichas de
// avería por estado.
type ResumenDTO struct {
	EquiposPorEstado map[string]uint64 `json:"equipos_por_estado"`
	FichasPorEstado  map[string]uint64 `json:"fichas_por_estado"`
	TotalEquipos     uint64            `json:"total_equipos"`
	TotalFichas      uint64            `json:"total_fichas"`
	FichasAbiertas   uint64            `json:"fichas_abiertas"`
}
