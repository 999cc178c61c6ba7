package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/farhandwi/dots/internal/container"
	"github.com/farhandwi/dots/internal/infrastructure/auth"
	httpapi "github.com/farhandwi/dots/internal/interfaces/http"
	"github.com/farhandwi/dots/pkg/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Apply pending migrations, start the background workers and serve the DOTS API
until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("Starting DOTS workflow service",
				zap.String("version", version),
				zap.Int("port", cfg.Server.Port))

			c, err := container.NewContainer(cfg, logger)
			if err != nil {
				return err
			}
			if err := c.Start(ctx); err != nil {
				_ = c.Close()
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					logger.Error("Failed to close container", zap.Error(err))
				}
			}()

			services := c.Services()
			verifier := auth.NewJWTVerifier(auth.Config{
				Secret: cfg.Auth.JWTSecret,
				Issuer: cfg.Auth.Issuer,
			}, logger)

			server := httpapi.NewServer(httpapi.ServerConfig{
				Host:            cfg.Server.Host,
				Port:            cfg.Server.Port,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				AllowedOrigins:  cfg.Server.AllowedOrigins,
				ExportPrefix:    cfg.Export.FilePrefix,
				MaxUploadSize:   cfg.Storage.MaxUploadSize,
			}, httpapi.Services{
				Transactions: services.Transactions,
				Dashboard:    services.Dashboard,
				MasterData:   services.MasterData,
				Attachments:  services.Attachments,
				Health:       c,
			}, verifier, utils.NewServiceLogger(logger))

			if err := server.Start(ctx); err != nil {
				return err
			}

			logger.Info("Server exited successfully")
			return nil
		},
	}
}
