package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inventario/internal/events"
	"inventario/internal/services"
	"inventario/pkg/eventbus"
)

// NotificationListener traduce los eventos del workflow de fichas a correos.
type NotificationListener struct {
	notifications services.NotificationServiceInterface
	logger        *zap.Logger
}

func NewNotificationListener(notifications services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notifications: notifications, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.FichaAsignadaName, l.handleFichaAsignada)
	bus.Subscribe(events.FichaResueltaName, l.handleFichaResuelta)
}

func (l *NotificationListener) handleFichaAsignada(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.FichaAsignada)
	if !ok {
		return fmt.Errorf("tipo de evento inesperado: %T", event)
	}
	if e.TecnicoEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Ficha #%d asignada: %s", e.FichaID, e.Titulo)
	body := fmt.Sprintf(
		"Hola %s,\n\nSe te ha asignado la ficha de avería #%d (%s) del equipo %d.\n",
		e.TecnicoNombre, e.FichaID, e.Titulo, e.EquipoID,
	)
	return l.notifications.Send(ctx, e.TecnicoEmail, subject, body)
}

func (l *NotificationListener) handleFichaResuelta(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.FichaResuelta)
	if !ok {
		return fmt.Errorf("tipo de evento inesperado: %T", event)
	}
	if e.ReporteEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Ficha #%d resuelta: %s", e.FichaID, e.Titulo)
	body := fmt.Sprintf(
		"La ficha de avería #%d (%s) fue marcada como resuelta el %s.\n",
		e.FichaID, e.Titulo, e.FechaResolucion.Format("02/01/2006 15:04"),
	)
	return l.notifications.Send(ctx, e.ReporteEmail, subject, body)
}
