package logging

import (
	"io"
	"log/slog"
)

// Options control how the process-wide default logger is configured.
type Options struct {
	// Debug lowers the level to slog.LevelDebug.
	Debug bool

	// JSON switches from the text handler to the JSON handler.
	JSON bool
}

// Setup configures the process-wide default slog logger and returns it.
// In stdio MCP mode the caller must pass stderr: stdout carries the
// protocol stream.
func Setup(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
