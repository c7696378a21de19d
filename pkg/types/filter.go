package types

// Filter agrupa los parámetros de búsqueda y paginación de los listados.
type Filter struct {
	Search string `json:"search,omitempty"`
	Limit  uint64 `json:"limit"`
	Offset uint64 `json:"offset"`
}
