package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production always emits JSON for
// the platform log pipeline; elsewhere LOG_FORMAT picks the handler and
// the level drops to debug so posting flows can be traced locally.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: true}
	if cfg.IsProduction() || cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
