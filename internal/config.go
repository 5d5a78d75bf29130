package internal

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	NotifyFreshness time.Duration `env:"NOTIFY_FRESHNESS"`
}

// LoggerFromString builds a text slog.Logger at the named level,
// defaulting to info for unknown values.
func LoggerFromString(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "DEBUG", "debug":
		l = slog.LevelDebug
	case "WARN", "warn":
		l = slog.LevelWarn
	case "ERROR", "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
