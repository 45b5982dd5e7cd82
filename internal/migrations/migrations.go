// Package migrations хранит SQL-миграции схемы для каждого поддерживаемого диалекта.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/employee-tracker/internal/config"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Up применяет все миграции для указанного драйвера
func Up(db *sql.DB, driver string, logger *slog.Logger) error {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func dialectFor(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// gooseLogger перенаправляет вывод goose в slog, stdout занят интерфейсом
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info("goose", slog.String("message", fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error("goose", slog.String("message", fmt.Sprintf(format, v...)))
}
