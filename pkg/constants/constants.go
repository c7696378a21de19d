package constants

// Estados de una ficha de avería. El campo estado es una cadena abierta: la
// API acepta cualquier valor, estos son los que participan en el workflow.
const (
	FichaEstadoReportada = "Reportada"
	FichaEstadoEnProceso = "En Proceso"
	FichaEstadoResuelta  = "Resuelta"
)

// Estados de un equipo.
const (
	EquipoEstadoDisponible   = "Disponible"
	EquipoEstadoEnUso        = "En Uso"
	EquipoEstadoEnReparacion = "En Reparación"
	EquipoEstadoBaja         = "Baja"
)

// Prioridades de una ficha de avería.
const (
	PrioridadBaja    = "Baja"
	PrioridadMedia   = "Media"
	PrioridadAlta    = "Alta"
	PrioridadCritica = "Crítica"
)

// Roles del sistema.
const (
	RolAdministrador = "Administrador"
	RolSupervisor    = "Supervisor"
	RolTecnico       = "Tecnico"
	RolUsuario       = "Usuario"
)
