// Package container wires the DOTS runtime: database, repositories, storage, event
// dispatcher, application services and background workers. Components start in
// dependency order and are torn down in reverse.
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/farhandwi/dots/internal/application/dispatcher"
	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/application/service"
	"github.com/farhandwi/dots/internal/config"
	"github.com/farhandwi/dots/internal/infrastructure/worker"
	"github.com/farhandwi/dots/pkg/database"
)

// Container owns every runtime component and its lifecycle
type Container struct {
	config *config.Config
	logger *zap.Logger

	db           *database.DB
	txManager    port.TransactionManager
	repositories *RepositoryBundle
	storage      port.FileStorage

	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle
	workers    *worker.Manager

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups the repositories
type RepositoryBundle struct {
	Transaction port.TransactionRepository
	History     port.StatusHistoryRepository
	Material    port.MaterialRepository
	GLAccount   port.GLAccountRepository
	Attachment  port.AttachmentRepository
}

// ServiceBundle groups the application services
type ServiceBundle struct {
	Transactions service.TransactionService
	Dashboard    service.DashboardService
	MasterData   service.MasterDataService
	Attachments  service.AttachmentService
}

// NewContainer creates a container for cfg. Nothing is opened until Start.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes the components in order:
// 1. Database, migrations and repositories
// 2. Attachment storage
// 3. Event dispatcher
// 4. Application services
// 5. Workers
// A failed step releases whatever the earlier steps opened.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container")

	db, err := ProvideDatabase(ctx, c.config.Database, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db
	c.txManager = provideTxManager(db.DB, c.logger)
	c.repositories = ProvideRepositories(db.DB, c.logger)

	c.storage = provideStorage(c.config.Storage, c.logger)

	c.dispatcher = ProvideDispatcher(c.logger)

	c.services = ProvideServices(ServiceDeps{
		Config:       c.config,
		Repositories: c.repositories,
		TxManager:    c.txManager,
		Storage:      c.storage,
		Events:       c.dispatcher,
		Logger:       c.logger,
	})

	// workers outlive the Start call; only cancellation through Close stops them
	c.workers = ProvideWorkers(c.config.Worker, c.repositories, c.dispatcher, c.logger)
	if err := c.workers.Start(context.WithoutCancel(ctx)); err != nil {
		c.release()
		return fmt.Errorf("failed to start workers: %w", err)
	}

	c.ready.Store(true)
	c.logger.Info("Container started", zap.Int("workers", c.workers.Count()))
	return nil
}

// Close stops the components in reverse order. Close is safe to call once after a
// failed or skipped Start.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}
	c.closed.Store(true)
	c.ready.Store(false)

	c.logger.Info("Closing container")
	if err := c.release(); err != nil {
		c.logger.Error("Container closed with errors", zap.Error(err))
		return err
	}

	c.logger.Info("Container closed")
	return nil
}

// release tears down whatever has been initialized
func (c *Container) release() error {
	var errs []error

	if c.workers != nil {
		if err := c.workers.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
		c.workers = nil
	}

	// pending activity log deliveries finish before the database goes away
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
		c.dispatcher = nil
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		c.db = nil
	}

	return errors.Join(errs...)
}

// Ready reports whether Start completed and Close has not been called
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health pings the database and checks that workers are running
func (c *Container) Health(ctx context.Context) *port.HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := &port.HealthStatus{
		Healthy:    true,
		Components: make(map[string]port.ComponentHealth),
	}
	set := func(name string, health port.ComponentHealth) {
		status.Components[name] = health
		if !health.Healthy {
			status.Healthy = false
		}
	}

	switch {
	case c.db == nil:
		set("database", port.ComponentHealth{Message: "not initialized"})
	default:
		if err := c.db.PingContext(ctx); err != nil {
			set("database", port.ComponentHealth{Message: fmt.Sprintf("ping failed: %v", err)})
		} else {
			set("database", port.ComponentHealth{Healthy: true})
		}
	}

	switch {
	case c.workers == nil:
		set("workers", port.ComponentHealth{Message: "not initialized"})
	case !c.workers.IsRunning():
		set("workers", port.ComponentHealth{Message: "stopped"})
	default:
		set("workers", port.ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("%d running", c.workers.Count()),
		})
	}

	return status
}

// Services returns the application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Repositories returns the repositories
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Dispatcher returns the event dispatcher
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Workers returns the worker manager
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the root logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config {
	return c.config
}
