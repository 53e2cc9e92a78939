package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON at info level in
// production, human-readable text with source locations everywhere
// else. Every record carries the service name so log aggregation can
// tell the API apart from the predictor sidecar.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		AddSource: env != "production",
	}

	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", "faceauth"))
}
