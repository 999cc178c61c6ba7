package container

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/farhandwi/dots/internal/application/dispatcher"
	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/application/service"
	"github.com/farhandwi/dots/internal/config"
	"github.com/farhandwi/dots/internal/infrastructure/export"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/repository"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/sqlite"
	"github.com/farhandwi/dots/internal/infrastructure/storage"
	"github.com/farhandwi/dots/internal/infrastructure/worker"
	"github.com/farhandwi/dots/migrations"
	"github.com/farhandwi/dots/pkg/database"
	"github.com/farhandwi/dots/pkg/utils"
)

// ProvideDatabase opens the SQLite database and applies pending migrations
func ProvideDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(ctx, database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	applied, err := database.NewMigrator(db, logger).RunMigrations(ctx, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("Database ready", zap.String("path", cfg.Path), zap.Int("migrations_applied", applied))
	return db, nil
}

// ProvideRepositories creates every repository over sqlDB
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) *RepositoryBundle {
	return &RepositoryBundle{
		Transaction: repository.NewTransactionRepository(sqlDB, logger),
		History:     repository.NewHistoryRepository(sqlDB, logger),
		Material:    repository.NewMaterialRepository(sqlDB, logger),
		GLAccount:   repository.NewGLAccountRepository(sqlDB, logger),
		Attachment:  repository.NewAttachmentRepository(sqlDB, logger),
	}
}

// ProvideDispatcher creates the event dispatcher with the activity log subscribed to every event
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	svcLogger := utils.NewServiceLogger(logger)
	events := dispatcher.NewDispatcher(dispatcher.WithLogger(svcLogger))
	events.SubscribeAll("activity-log", dispatcher.ActivityLogHandler(svcLogger))
	return events
}

// ServiceDeps holds the dependencies of the application services
type ServiceDeps struct {
	Config       *config.Config
	Repositories *RepositoryBundle
	TxManager    port.TransactionManager
	Storage      port.FileStorage
	Events       port.EventPublisher
	Logger       *zap.Logger
}

// ProvideServices creates the application services
func ProvideServices(deps ServiceDeps) *ServiceBundle {
	svcLogger := utils.NewServiceLogger(deps.Logger)
	repos := deps.Repositories

	return &ServiceBundle{
		Transactions: service.NewTransactionService(
			repos.Transaction,
			repos.History,
			deps.TxManager,
			deps.Events,
			svcLogger,
		),
		Dashboard: service.NewDashboardService(
			repos.Transaction,
			export.NewXLSXWriter(deps.Logger),
			deps.Config.Export.DefaultCurrency,
			svcLogger,
		),
		MasterData: service.NewMasterDataService(repos.Material, repos.GLAccount, svcLogger),
		Attachments: service.NewAttachmentService(
			repos.Attachment,
			repos.Transaction,
			deps.Storage,
			deps.Events,
			deps.Config.Storage.MaxUploadSize,
			svcLogger,
		),
	}
}

// ProvideWorkers creates the worker manager and registers the enabled workers
func ProvideWorkers(cfg config.WorkerConfig, repos *RepositoryBundle, events port.EventPublisher, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)
	if !cfg.Enabled {
		logger.Info("Background workers disabled")
		return manager
	}

	manager.Register(worker.NewOverdueReminder(worker.OverdueConfig{
		CheckInterval: cfg.CheckInterval,
		OverdueAfter:  cfg.OverdueAfter,
	}, repos.Transaction, events, logger))

	return manager
}

// provideStorage creates the attachment store rooted at the configured directory
func provideStorage(cfg config.StorageConfig, logger *zap.Logger) port.FileStorage {
	return storage.NewLocalFileStorage(cfg.AttachmentDir, logger)
}

// provideTxManager wraps sqlDB for repository calls that must share one transaction
func provideTxManager(sqlDB *sql.DB, logger *zap.Logger) port.TransactionManager {
	return sqlite.NewTxManager(sqlDB, logger)
}
