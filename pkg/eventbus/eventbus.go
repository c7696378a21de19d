package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event es cualquier evento del sistema.
type Event interface {
	Name() string
}

// Listener es un manejador de eventos.
type Listener func(ctx context.Context, event Event) error

// Bus es la cola de eventos en proceso.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish entrega el evento a todos los suscriptores en goroutines propias.
// Cada listener recibe un contexto con timeout para no dejar goroutines
// colgadas.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		go func(l Listener) {
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("error en el manejador de evento",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}
