package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/employee-tracker/internal/config"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Коды ошибок PostgreSQL, которые означают некорректный ввод, а не сбой БД
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	// класс 22: переполнение числа, слишком длинная строка и прочие ошибки данных
	pgDataExceptionClass = "22"
)

// Open подключается к БД и проверяет соединение
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for attempt := range cfg.ConnectAttempts {
		if attempt > 0 {
			time.Sleep(time.Second)
		}
		db, err = gorm.Open(dialector(cfg), &gorm.Config{
			Logger:               gormlogger.New(slogWriter{logger}, gormlogger.Config{LogLevel: gormlogger.Warn, IgnoreRecordNotFoundError: true}),
			TranslateError:       true,
			DisableAutomaticPing: true,
		})
		if err != nil {
			closeDB(db)
			continue
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = dbErr
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			return db, nil
		}
		_ = sqlDB.Close()
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.ConnectAttempts, err)
}

// closeDB закрывает пул, если gorm успел его открыть
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Open(sqliteDSN(cfg.SQLitePath))
	}
	return postgres.Open(cfg.DSN())
}

// sqliteDSN включает внешние ключи: без них SQLite игнорирует ON DELETE
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

// Bootstrap применяет миграции и заполняет пустую БД стартовым набором
func Bootstrap(ctx context.Context, db *gorm.DB, driver string, seed domain.Dataset, logger *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := migrations.Up(sqlDB, driver, logger); err != nil {
		return err
	}

	seeded, err := seedIfEmpty(ctx, db, seed)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if seeded {
		logger.Info("database seeded",
			slog.Int("departments", len(seed.Departments)),
			slog.Int("roles", len(seed.Roles)),
			slog.Int("employees", len(seed.Employees)),
		)
	}
	return nil
}

// seedIfEmpty вставляет набор, переназначая id на сгенерированные БД
func seedIfEmpty(ctx context.Context, db *gorm.DB, ds domain.Dataset) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Department{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deptIDs := make(map[int64]int64, len(ds.Departments))
		for _, d := range ds.Departments {
			row := domain.Department{Name: d.Name}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			deptIDs[d.ID] = row.ID
		}

		roleIDs := make(map[int64]int64, len(ds.Roles))
		for _, r := range ds.Roles {
			row := domain.Role{Title: r.Title, Salary: r.Salary, DepartmentID: deptIDs[r.DepartmentID]}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			roleIDs[r.ID] = row.ID
		}

		empIDs := make(map[int64]int64, len(ds.Employees))
		for _, e := range ds.Employees {
			row := domain.Employee{FirstName: e.FirstName, LastName: e.LastName, RoleID: roleIDs[e.RoleID]}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			empIDs[e.ID] = row.ID
		}

		// Руководители назначаются вторым проходом, когда все id уже известны
		for _, e := range ds.Employees {
			if e.ManagerID == nil {
				continue
			}
			err := tx.Model(&domain.Employee{}).
				Where("id = ?", empIDs[e.ID]).
				Update("manager_id", empIDs[*e.ManagerID]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

type gormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewStore создаёт хранилище поверх GORM
func NewStore(db *gorm.DB, timeout time.Duration) Store {
	return &gormStore{db: db, timeout: timeout}
}

// conn возвращает сессию с ограничением времени на одну операцию
func (s *gormStore) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		return s.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// classify переводит ошибку БД в категорию домена
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.ValidationError{Field: "name", Reason: "value must be unique"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &domain.ValidationError{Field: "reference", Reason: "referenced record does not exist"}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &domain.ValidationError{Field: "value", Reason: "value violates a check constraint"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation, pgErr.Code == pgForeignKeyViolation,
			pgErr.Code == pgCheckViolation, pgErr.Code == pgNotNullViolation,
			strings.HasPrefix(pgErr.Code, pgDataExceptionClass):
			return &domain.ValidationError{Field: pgErr.ColumnName, Reason: pgErr.Message}
		}
	}

	return domain.Unavailable(op, err)
}

// slogWriter направляет логгер GORM в slog
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn("gorm", slog.String("message", fmt.Sprintf(format, args...)))
}
