package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Worker is a background job run by the Manager until its context is cancelled
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

// Manager runs registered workers in their own goroutines and waits for them on Stop
type Manager struct {
	workers []Worker
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	errs    []error
}

// NewManager creates a new worker manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		workers: make([]Worker, 0),
		logger:  logger,
	}
}

// Register adds a worker. Workers registered after Start are not run.
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered",
		zap.String("worker", w.Name()),
		zap.Int("total_workers", len(m.workers)))
}

// Start launches every registered worker
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("workers already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.errs = nil

	m.logger.Info("Starting workers", zap.Int("count", len(m.workers)))

	for _, w := range m.workers {
		m.wg.Add(1)
		go m.run(runCtx, w)
	}

	return nil
}

func (m *Manager) run(ctx context.Context, w Worker) {
	defer m.wg.Done()

	err := w.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Error("Worker exited with error", zap.String("worker", w.Name()), zap.Error(err))
		m.mu.Lock()
		m.errs = append(m.errs, fmt.Errorf("%s: %w", w.Name(), err))
		m.mu.Unlock()
		return
	}
	m.logger.Info("Worker stopped", zap.String("worker", w.Name()))
}

// Stop cancels every worker and waits for them to return. The returned error joins the
// failures of workers that exited abnormally.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errs) > 0 {
		return errors.Join(m.errs...)
	}

	m.logger.Info("All workers stopped")
	return nil
}

// Count returns the number of registered workers
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers)
}

// IsRunning reports whether Start was called without a matching Stop
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
