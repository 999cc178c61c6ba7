package dispatcher

import (
	"context"

	"github.com/farhandwi/dots/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo names a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// ActivityLogHandler writes every event it receives to logger as a structured entry
func ActivityLogHandler(logger Logger) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		logger.Info("Transaction activity", evt.KeyValues()...)
		return nil
	}
}
