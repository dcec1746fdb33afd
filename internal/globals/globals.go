package globals

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/monorkin/air-quality-pipeline/internal/config"
)

var (
	// Global instances
	Settings *config.Settings
	Logger   *slog.Logger

	// Ensure initialization happens only once
	initOnce sync.Once
)

// Initialize sets up global instances exactly once
func Initialize(verbose bool, settings *config.Settings) {
	initOnce.Do(func() {
		Settings = settings
		Logger = NewLogger(os.Stdout, verbose, settings.Logging)
		slog.SetDefault(Logger)

		Logger.Debug("Global initialization completed",
			"verbose", verbose,
			"output_dir", settings.Output.Dir,
			"history", settings.History.Enabled,
		)
	})
}

// NewLogger builds the application logger. The verbose flag always wins over
// the configured level.
func NewLogger(w io.Writer, verbose bool, cfg config.LoggingSettings) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// MustBeInitialized panics if globals haven't been initialized
func MustBeInitialized() {
	if Settings == nil || Logger == nil {
		panic("globals not initialized - call globals.Initialize() first")
	}
}
