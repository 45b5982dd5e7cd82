package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Драйверы реляционного хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит настройки приложения
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	// Offline пропускает подключение к БД и сразу работает с копией в памяти
	Offline bool `yaml:"offline"`
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	SQLitePath      string        `yaml:"sqlite_path"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// LogConfig - настройки журнала
type LogConfig struct {
	File      string `yaml:"file"`
	Level     string `yaml:"level"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode, c.connectTimeoutSeconds(),
	)
}

// connectTimeoutSeconds округляет таймаут запроса вверх до целых секунд, не меньше одной
func (c *DatabaseConfig) connectTimeoutSeconds() int64 {
	secs := int64((c.QueryTimeout + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			DBName:          "employee_db",
			SSLMode:         "disable",
			SQLitePath:      "employee_tracker.db",
			ConnectAttempts: 1,
			QueryTimeout:    5 * time.Second,
		},
		Log: LogConfig{
			File:      "employee-tracker.log",
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML-файл, затем переменные окружения.
// Пустой path означает путь из CONFIG_FILE.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	db := &cfg.Database
	db.Driver = getEnv("DB_DRIVER", db.Driver)
	db.Host = getEnv("DB_HOST", db.Host)
	db.Port = getEnv("DB_PORT", db.Port)
	db.User = getEnv("DB_USER", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.DBName = getEnv("DB_NAME", db.DBName)
	db.SSLMode = getEnv("DB_SSLMODE", db.SSLMode)
	db.SQLitePath = getEnv("DB_SQLITE_PATH", db.SQLitePath)

	var err error
	if db.ConnectAttempts, err = getEnvInt("DB_CONNECT_ATTEMPTS", db.ConnectAttempts); err != nil {
		return nil, err
	}
	if db.QueryTimeout, err = getEnvDuration("DB_QUERY_TIMEOUT", db.QueryTimeout); err != nil {
		return nil, err
	}
	if cfg.Offline, err = getEnvBool("OFFLINE", cfg.Offline); err != nil {
		return nil, err
	}

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.ConnectAttempts < 1 {
		return errors.New("DB_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.Database.QueryTimeout <= 0 {
		return errors.New("DB_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
