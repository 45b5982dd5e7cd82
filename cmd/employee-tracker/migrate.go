package main

import (
	"fmt"
	"log/slog"

	"github.com/employee-tracker/internal/migrations"
	"github.com/employee-tracker/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, logFile, err := loadConfig(*root)
			if err != nil {
				return err
			}
			defer logFile.Close()

			db, err := repository.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to get sql.DB: %w", err)
			}
			defer sqlDB.Close()

			if err := migrations.Up(sqlDB, cfg.Database.Driver, logger); err != nil {
				logger.Error("migration failed", slog.Any("error", err))
				return err
			}

			logger.Info("migrations applied", slog.String("driver", cfg.Database.Driver))
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
