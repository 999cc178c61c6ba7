package port

import (
	"context"
	"io"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/event"
)

// TokenVerifier resolves a BPMS bearer token to the user it was issued for
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.User, error)
}

// QueueRow is one transaction line of an exported approval queue
type QueueRow struct {
	Group       string
	Transaction *entity.Transaction
	StatusLabel string
	Amount      string
}

// ReportWriter renders approval queue rows into a spreadsheet
type ReportWriter interface {
	WriteQueue(ctx context.Context, w io.Writer, rows []QueueRow) error
}

// EventPublisher delivers domain events to subscribers once a change is committed.
// Publishing never fails the change that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event)
}
