package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farhandwi/dots/internal/container"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := container.ProvideDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.Database.Path)
			return nil
		},
	}
}
