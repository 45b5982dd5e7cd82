package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/employee-tracker/internal/config"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/logging"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/repository/memory"
	"gorm.io/gorm"
)

// runtimeDeps - всё, что нужно командам после старта
type runtimeDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	selector *repository.Selector
	closers  []io.Closer
}

func (r *runtimeDeps) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
}

// loadConfig загружает конфигурацию и настраивает журнал
func loadConfig(opts rootOptions) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.offline {
		cfg.Offline = true
	}

	logger, logFile, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	slog.SetDefault(logger)
	return cfg, logger, logFile, nil
}

// setup собирает селектор: БД, если она доступна, и копию в памяти со стартовым набором
func setup(ctx context.Context, opts rootOptions) (*runtimeDeps, error) {
	cfg, logger, logFile, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	rt := &runtimeDeps{cfg: cfg, logger: logger, closers: []io.Closer{logFile}}

	seed := domain.SeedDataset()
	mirror := memory.New(seed)

	var backend repository.Store
	db, err := openBackend(ctx, cfg, seed, logger)
	switch {
	case errors.Is(err, errOfflineRequested):
		logger.Info("offline mode requested, using in-memory storage")
	case err != nil:
		logger.Warn("database unavailable, starting in offline mode", slog.Any("error", err))
	case db != nil:
		backend = repository.NewStore(db, cfg.Database.QueryTimeout)
		if sqlDB, err := db.DB(); err == nil {
			rt.closers = append(rt.closers, sqlDB)
		}
	}

	rt.selector = repository.NewSelector(backend, mirror, logger)
	return rt, nil
}

var errOfflineRequested = errors.New("offline mode requested")

// openBackend проверяет подключение, применяет миграции и заполняет пустую БД
func openBackend(ctx context.Context, cfg *config.Config, seed domain.Dataset, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Offline {
		return nil, errOfflineRequested
	}

	db, err := repository.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.Bootstrap(ctx, db, cfg.Database.Driver, seed, logger); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	logger.Info("connected to database",
		slog.String("driver", cfg.Database.Driver),
		slog.String("database", databaseName(cfg.Database)),
	)
	return db, nil
}

func databaseName(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.DBName
}
