// Package logging настраивает slog так, чтобы журнал не мешал терминальному интерфейсу.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/employee-tracker/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New создаёт JSON-логгер, пишущий в файл с ротацией
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	out := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: 3,
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, out, nil
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
