package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/internal/events"
	"inventario/internal/repositories"
	"inventario/pkg/constants"
	apperrors "inventario/pkg/errors"
	"inventario/pkg/eventbus"
)

type FichaAveriaServiceInterface interface {
	GetAll(ctx context.Context) ([]dto.FichaAveriaDTO, error)
	FindByID(ctx context.Context, id uint64) (*dto.FichaAveriaDTO, error)
	Filter(ctx context.Context, filter dto.FichaAveriaFilterDTO) ([]dto.FichaAveriaDTO, error)
	ListByEquipo(ctx context.Context, equipoID uint64) ([]dto.FichaAveriaDTO, error)
	ListByUsuarioReporte(ctx context.Context, usuarioID string) ([]dto.FichaAveriaDTO, error)
	ListByUsuarioAsignado(ctx context.Context, usuarioID string) ([]dto.FichaAveriaDTO, error)
	Create(ctx context.Context, usuarioID string, payload dto.CreateFichaAveriaDTO) (*dto.FichaAveriaDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateFichaAveriaDTO) (*dto.FichaAveriaDTO, error)
	AsignarTecnico(ctx context.Context, id uint64, payload dto.AsignarTecnicoDTO) (*dto.FichaAveriaDTO, error)
	CambiarEstado(ctx context.Context, id uint64, payload dto.CambiarEstadoDTO) (*dto.FichaAveriaDTO, error)
	Delete(ctx context.Context, id uint64) error
}

// FichaAveriaService implementa el ciclo de vida de las fichas de avería. Las
// transiciones que afectan al estado del equipo se hacen en una transacción
// para que ficha y equipo nunca queden a medias.
type FichaAveriaService struct {
	fichaRepo   repositories.FichaAveriaRepositoryInterface
	equipoRepo  repositories.EquipoRepositoryInterface
	usuarioRepo repositories.UsuarioRepositoryInterface
	txManager   repositories.TxManagerInterface
	bus         *eventbus.Bus
	dashboard   DashboardServiceInterface
	logger      *zap.Logger
}

func NewFichaAveriaService(
	fichaRepo repositories.FichaAveriaRepositoryInterface,
	equipoRepo repositories.EquipoRepositoryInterface,
	usuarioRepo repositories.UsuarioRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	dashboard DashboardServiceInterface,
	logger *zap.Logger,
) FichaAveriaServiceInterface {
	return &FichaAveriaService{
		fichaRepo:   fichaRepo,
		equipoRepo:  equipoRepo,
		usuarioRepo: usuarioRepo,
		txManager:   txManager,
		bus:         bus,
		dashboard:   dashboard,
		logger:      logger,
	}
}

func (s *FichaAveriaService) GetAll(ctx context.Context) ([]dto.FichaAveriaDTO, error) {
	return s.fichaRepo.Filter(ctx, dto.FichaAveriaFilterDTO{})
}

func (s *FichaAveriaService) FindByID(ctx context.Context, id uint64) (*dto.FichaAveriaDTO, error) {
	return s.fichaRepo.FindDTOByID(ctx, id)
}

func (s *FichaAveriaService) Filter(ctx context.Context, filter dto.FichaAveriaFilterDTO) ([]dto.FichaAveriaDTO, error) {
	return s.fichaRepo.Filter(ctx, filter)
}

func (s *FichaAveriaService) ListByEquipo(ctx context.Context, equipoID uint64) ([]dto.FichaAveriaDTO, error) {
	return s.fichaRepo.Filter(ctx, dto.FichaAveriaFilterDTO{EquipoID: &equipoID})
}

func (s *FichaAveriaService) ListByUsuarioReporte(ctx context.Context, usuarioID string) ([]dto.FichaAveriaDTO, error) {
	return s.fichaRepo.Filter(ctx, dto.FichaAveriaFilterDTO{UsuarioReporteID: &usuarioID})
}

func (s *FichaAveriaService) ListByUsuarioAsignado(ctx context.Context, usuarioID string) ([]dto.FichaAveriaDTO, error) {
	return s.fichaRepo.Filter(ctx, dto.FichaAveriaFilterDTO{UsuarioAsignadoID: &usuarioID})
}

// Create registra la avería y pone el equipo en reparación en la misma
// transacción. La ficha nace siempre en estado "Reportada" con la fecha de
// reporte del servidor, venga lo que venga en el payload.
func (s *FichaAveriaService) Create(ctx context.Context, usuarioID string, payload dto.CreateFichaAveriaDTO) (*dto.FichaAveriaDTO, error) {
	if _, err := s.usuarioRepo.FindByID(ctx, usuarioID); err != nil {
		return nil, fmt.Errorf("el usuario que reporta no existe: %w", err)
	}

	var fichaID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipo, err := s.equipoRepo.FindByID(ctx, tx, payload.EquipoID)
		if err != nil {
			return fmt.Errorf("el equipo %d no existe: %w", payload.EquipoID, err)
		}

		ficha := entities.FichaAveria{
			EquipoID:         equipo.ID,
			Titulo:           payload.Titulo,
			Descripcion:      payload.Descripcion,
			Estado:           constants.FichaEstadoReportada,
			FechaReporte:     time.Now(),
			Prioridad:        payload.Prioridad,
			Comentarios:      payload.Comentarios,
			UsuarioReporteID: usuarioID,
		}

		fichaID, err = s.fichaRepo.Create(ctx, tx, ficha)
		if err != nil {
			return err
		}

		if equipo.Estado != constants.EquipoEstadoEnReparacion {
			if err := s.equipoRepo.UpdateEstado(ctx, tx, equipo.ID, constants.EquipoEstadoEnReparacion); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dashboard.InvalidateCache(ctx)

	result, err := s.fichaRepo.FindDTOByID(ctx, fichaID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.FichaCreada{
		FichaID:      result.ID,
		EquipoID:     result.EquipoID,
		Titulo:       result.Titulo,
		ReportadaPor: usuarioID,
		FechaReporte: result.FechaReporte,
	})
	return result, nil
}

// Update aplica una actualización parcial: sólo sobrescriben los campos
// presentes y no vacíos del payload; una cadena vacía en estado o en el
// asignado se ignora. Cambiar el técnico asignado a un usuario que no existe
// es un error de entrada, no un 404 de la ficha. Si el payload trae la
// primera transición a "Resuelta", fija la fecha de resolución y libera el
// equipo en la misma transacción, igual que CambiarEstado.
func (s *FichaAveriaService) Update(ctx context.Context, id uint64, payload dto.UpdateFichaAveriaDTO) (*dto.FichaAveriaDTO, error) {
	if payload.UsuarioAsignadoID != nil && *payload.UsuarioAsignadoID != "" {
		if _, err := s.usuarioRepo.FindByID(ctx, *payload.UsuarioAsignadoID); err != nil {
			return nil, apperrors.NewInvalidInputError(
				"el usuario asignado %s no existe", *payload.UsuarioAsignadoID)
		}
	}

	var resuelta bool
	var fechaResolucion time.Time

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ficha, err := s.fichaRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if payload.Titulo != nil {
			ficha.Titulo = *payload.Titulo
		}
		if payload.Descripcion != nil {
			ficha.Descripcion = *payload.Descripcion
		}
		if payload.SolucionAplicada != nil {
			ficha.SolucionAplicada = payload.SolucionAplicada
		}
		if payload.Comentarios != nil {
			ficha.Comentarios = payload.Comentarios
		}
		if payload.Prioridad != nil {
			ficha.Prioridad = payload.Prioridad
		}
		if payload.UsuarioAsignadoID != nil && *payload.UsuarioAsignadoID != "" {
			ficha.UsuarioAsignadoID = payload.UsuarioAsignadoID
		}
		if payload.Estado != nil && *payload.Estado != "" {
			ficha.Estado = *payload.Estado

			// La fecha de resolución se fija una sola vez: una ficha reabierta
			// y vuelta a resolver la conserva.
			if *payload.Estado == constants.FichaEstadoResuelta && ficha.FechaResolucion == nil {
				now := time.Now()
				ficha.FechaResolucion = &now
				resuelta = true
				fechaResolucion = now

				if err := s.equipoRepo.UpdateEstado(ctx, tx, ficha.EquipoID, constants.EquipoEstadoDisponible); err != nil {
					return err
				}
			}
		}

		return s.fichaRepo.Update(ctx, tx, id, *ficha)
	})
	if err != nil {
		return nil, err
	}

	s.dashboard.InvalidateCache(ctx)

	result, err := s.fichaRepo.FindDTOByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if resuelta {
		s.bus.Publish(ctx, events.FichaResuelta{
			FichaID:         result.ID,
			EquipoID:        result.EquipoID,
			Titulo:          result.Titulo,
			ReporteEmail:    result.UsuarioReporte.Email,
			FechaResolucion: fechaResolucion,
		})
	}
	return result, nil
}

// AsignarTecnico pone la ficha en manos de un técnico y la pasa a
// "En Proceso" sea cual sea su estado actual. No toca el equipo.
func (s *FichaAveriaService) AsignarTecnico(ctx context.Context, id uint64, payload dto.AsignarTecnicoDTO) (*dto.FichaAveriaDTO, error) {
	ficha, err := s.fichaRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	tecnico, err := s.usuarioRepo.FindByID(ctx, payload.TecnicoID)
	if err != nil {
		return nil, fmt.Errorf("el técnico %s no existe: %w", payload.TecnicoID, err)
	}

	ficha.UsuarioAsignadoID = &tecnico.ID
	ficha.Estado = constants.FichaEstadoEnProceso

	if err := s.fichaRepo.Update(ctx, nil, id, *ficha); err != nil {
		return nil, err
	}

	s.dashboard.InvalidateCache(ctx)

	result, err := s.fichaRepo.FindDTOByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.FichaAsignada{
		FichaID:       result.ID,
		EquipoID:      result.EquipoID,
		Titulo:        result.Titulo,
		TecnicoID:     tecnico.ID,
		TecnicoEmail:  tecnico.Email,
		TecnicoNombre: tecnico.Nombre,
	})
	return result, nil
}

// CambiarEstado acepta cualquier cadena de estado. Sólo dos valores tienen
// efectos laterales: pasar a "Resuelta" con la fecha de resolución aún sin
// fijar la fija y devuelve el equipo a "Disponible"; "En Proceso" vuelve a
// poner el equipo en reparación. La fecha de resolución nunca se borra ni se
// mueve: reabrir la ficha y volver a resolverla conserva la original.
func (s *FichaAveriaService) CambiarEstado(ctx context.Context, id uint64, payload dto.CambiarEstadoDTO) (*dto.FichaAveriaDTO, error) {
	var resuelta bool
	var fechaResolucion time.Time

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ficha, err := s.fichaRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}

		ficha.Estado = payload.Estado
		if payload.Solucion != nil {
			ficha.SolucionAplicada = payload.Solucion
		}

		switch payload.Estado {
		case constants.FichaEstadoResuelta:
			if ficha.FechaResolucion == nil {
				now := time.Now()
				ficha.FechaResolucion = &now
				resuelta = true
				fechaResolucion = now

				if err := s.equipoRepo.UpdateEstado(ctx, tx, ficha.EquipoID, constants.EquipoEstadoDisponible); err != nil {
					return err
				}
			}
		case constants.FichaEstadoEnProceso:
			if err := s.equipoRepo.UpdateEstado(ctx, tx, ficha.EquipoID, constants.EquipoEstadoEnReparacion); err != nil {
				return err
			}
		}

		return s.fichaRepo.Update(ctx, tx, id, *ficha)
	})
	if err != nil {
		return nil, err
	}

	s.dashboard.InvalidateCache(ctx)

	result, err := s.fichaRepo.FindDTOByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if resuelta {
		s.bus.Publish(ctx, events.FichaResuelta{
			FichaID:         result.ID,
			EquipoID:        result.EquipoID,
			Titulo:          result.Titulo,
			ReporteEmail:    result.UsuarioReporte.Email,
			FechaResolucion: fechaResolucion,
		})
	}
	return result, nil
}

// Delete elimina la ficha de forma definitiva. El estado del equipo queda
// como esté: borrar una ficha abierta no devuelve el equipo a disponible.
func (s *FichaAveriaService) Delete(ctx context.Context, id uint64) error {
	if err := s.fichaRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.dashboard.InvalidateCache(ctx)
	return nil
}
