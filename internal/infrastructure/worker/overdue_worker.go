package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/event"
	"github.com/farhandwi/dots/internal/domain/status"
	"go.uber.org/zap"
)

// SystemActor is recorded as the actor of events raised by background workers
const SystemActor = "system"

// OverdueConfig holds the overdue reminder schedule
type OverdueConfig struct {
	CheckInterval time.Duration
	OverdueAfter  time.Duration
}

// DefaultOverdueConfig returns the default schedule
func DefaultOverdueConfig() OverdueConfig {
	return OverdueConfig{
		CheckInterval: time.Hour,
		OverdueAfter:  72 * time.Hour,
	}
}

// OverdueReminder publishes an approval-overdue event for every transaction that has been
// waiting on an approver longer than OverdueAfter. A transaction is reminded about once per
// status it waits in.
type OverdueReminder struct {
	config OverdueConfig
	txRepo port.TransactionRepository
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	reminded map[string]string
}

// NewOverdueReminder creates a new overdue approval reminder
func NewOverdueReminder(
	config OverdueConfig,
	txRepo port.TransactionRepository,
	events port.EventPublisher,
	logger *zap.Logger,
) *OverdueReminder {
	defaults := DefaultOverdueConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.OverdueAfter <= 0 {
		config.OverdueAfter = defaults.OverdueAfter
	}

	return &OverdueReminder{
		config:   config,
		txRepo:   txRepo,
		events:   events,
		logger:   logger,
		now:      time.Now,
		reminded: make(map[string]string),
	}
}

// Name returns the worker name
func (w *OverdueReminder) Name() string {
	return "overdue-approval-reminder"
}

// Run checks once immediately and then on every tick until ctx is cancelled
func (w *OverdueReminder) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	for {
		if _, err := w.Check(ctx); err != nil {
			w.logger.Error("Overdue check failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Check publishes reminders for newly overdue transactions and returns how many were sent
func (w *OverdueReminder) Check(ctx context.Context) (int, error) {
	txs, err := w.txRepo.List(ctx, entity.TransactionFilter{Statuses: status.AwaitingAction()})
	if err != nil {
		return 0, fmt.Errorf("list pending transactions: %w", err)
	}

	now := w.now()
	cutoff := now.Add(-w.config.OverdueAfter)

	w.mu.Lock()
	defer w.mu.Unlock()

	pending := make(map[string]struct{}, len(txs))
	sent := 0
	for _, tx := range txs {
		pending[tx.DotsNumber] = struct{}{}

		if w.reminded[tx.DotsNumber] == tx.Status {
			continue
		}
		if !tx.UpdatedAt.Before(cutoff) {
			continue
		}

		w.events.Publish(ctx, event.New(event.TypeApprovalOverdue, tx.DotsNumber, SystemActor, now, map[string]interface{}{
			event.KeyStatus:       tx.Status,
			event.KeyWaitingSince: tx.UpdatedAt.UTC().Format(time.RFC3339),
		}))
		w.reminded[tx.DotsNumber] = tx.Status
		sent++
	}

	// forget transactions that left the approval chain
	for dotsNumber := range w.reminded {
		if _, ok := pending[dotsNumber]; !ok {
			delete(w.reminded, dotsNumber)
		}
	}

	if sent > 0 {
		w.logger.Info("Overdue approval reminders published",
			zap.Int("count", sent),
			zap.Duration("overdue_after", w.config.OverdueAfter))
	}

	return sent, nil
}
