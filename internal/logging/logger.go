package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup initializes the global slog logger: JSON to stdout, or a colored
// tint handler when LOG_PRETTY=true (local development).
func Setup() {
	slog.SetDefault(slog.New(NewBaseHandler()))
}

// NewBaseHandler builds the stdout handler, honoring LOG_LEVEL and LOG_PRETTY.
func NewBaseHandler() slog.Handler {
	level := levelFromEnv()
	if strings.EqualFold(os.Getenv("LOG_PRETTY"), "true") {
		return tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
